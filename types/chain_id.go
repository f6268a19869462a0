package types

import (
	"regexp"
	"strconv"
	"strings"
)

// Chain ids of the form "{name}-{N}" carry the chain revision N, e.g. "cosmoshub-4".
var revisionFormat = regexp.MustCompile(`^.*[^\n-]-[1-9][0-9]*$`)

type ChainId string

func (id ChainId) String() string {
	return string(id)
}

// Version returns the revision number encoded in the chain id, or 0 when the id does not follow
// the revision format.
func (id ChainId) Version() uint64 {
	s := string(id)
	if !revisionFormat.MatchString(s) {
		return 0
	}

	version, err := strconv.ParseUint(s[strings.LastIndex(s, "-")+1:], 10, 64)
	if err != nil {
		return 0
	}

	return version
}
