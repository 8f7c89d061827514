package domain

import "math"

// CosineSimilarity computes the cosine similarity of two vectors, in
// [-1, 1]. Mismatched lengths, empty vectors, and zero vectors all return 0
// rather than an error; the caller treats 0 as "no similarity".
func CosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
