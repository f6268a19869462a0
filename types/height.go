package types

import "fmt"

// Height is a block position qualified by the revision (version) of the chain that produced it.
type Height struct {
	RevisionNumber uint64 `json:"revision_number"`
	RevisionHeight uint64 `json:"revision_height"`
}

// NewHeight builds a height. A zero revision height does not identify a block and is rejected.
func NewHeight(revisionNumber, revisionHeight uint64) (Height, error) {
	if revisionHeight == 0 {
		return Height{}, NewInvalidHeightErr(revisionNumber, 0, "revision height cannot be zero")
	}

	return Height{
		RevisionNumber: revisionNumber,
		RevisionHeight: revisionHeight,
	}, nil
}

func (h Height) IsZero() bool {
	return h.RevisionNumber == 0 && h.RevisionHeight == 0
}

func (h Height) String() string {
	return fmt.Sprintf("%d-%d", h.RevisionNumber, h.RevisionHeight)
}
