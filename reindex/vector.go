package reindex

import "math"

// NormalizeVector scales v to unit length so that a dot-product search
// behaves as cosine similarity. The input is left untouched; a zero vector
// comes back as a fresh zero vector of the same length.
func NormalizeVector(v []float32) []float32 {
	if len(v) == 0 {
		return v
	}

	var sumSquares float64
	for _, val := range v {
		sumSquares += float64(val) * float64(val)
	}

	result := make([]float32, len(v))
	magnitude := math.Sqrt(sumSquares)
	if magnitude == 0 {
		return result
	}

	inv := float32(1 / magnitude)
	for i, val := range v {
		result[i] = val * inv
	}
	return result
}
