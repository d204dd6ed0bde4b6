package utils

// DiscretePrice floors a raw price to a multiple of 100 with a 100 minimum.
// Idempotent.
func DiscretePrice(raw int) int {
	p := raw / 100 * 100
	if p < 100 {
		return 100
	}
	return p
}
