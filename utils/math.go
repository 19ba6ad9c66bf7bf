package utils

// ClampF64 returns x clamped to [min, max].
func ClampF64(x, min, max float64) float64 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}

func MaxInt(a, b int) int {
	if a < b {
		return b
	}
	return a
}

func MinInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func AbsInt(n int) int {
	if n < 0 {
		return -1 * n
	}
	return n
}
