package lootbox

import "math/rand"

//nolint:gosec // G404: math/rand is acceptable for game mechanics, not for cryptographic purposes
func defaultRand() float64 {
	return rand.Float64()
}
