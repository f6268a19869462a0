package utils

import (
	"fmt"
	"math"
	"time"

	"github.com/spf13/cast"
)

// Int64ToUint64 converts a non negative int64 to uint64.
func Int64ToUint64(value int64) (uint64, error) {
	if value < 0 {
		return 0, fmt.Errorf("value %d is negative", value)
	}

	return cast.ToUint64E(value)
}

// Uint64ToInt64 converts a uint64 to int64 and checks for overflow.
func Uint64ToInt64(value uint64) (int64, error) {
	if value > math.MaxInt64 {
		return 0, fmt.Errorf("value %d exceeds int64 range", value)
	}

	return cast.ToInt64E(value)
}

// MillisToDuration converts a millisecond config value into a duration.
func MillisToDuration(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
