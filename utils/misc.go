package utils

import "math/rand"

// Shuffle returns a random permutation of arr. The input slice is not modified.
func Shuffle[T any](arr []T) []T {
	ret := make([]T, len(arr))
	copy(ret, arr)

	for i := 0; i < len(ret)*2; i++ {
		x := rand.Intn(len(ret))
		y := rand.Intn(len(ret))
		ret[x], ret[y] = ret[y], ret[x]
	}

	return ret
}

