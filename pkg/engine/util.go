package engine

func f64min(a float64, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func f64max(a float64, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
