package scoring

import (
	"math"

	"github.com/spigell/cv-matcher/internal/text"
)

// SemanticScore computes the lexical similarity between a CV and a job
// description in [0, 1]. Both documents are normalized, vectorized with a
// TF-IDF scheme fit over exactly this pair and compared by cosine similarity.
func SemanticScore(cvText, jobText string) float64 {
	cvTokens := text.Fields(cvText)
	jobTokens := text.Fields(jobText)
	if len(cvTokens) == 0 || len(jobTokens) == 0 {
		return 0.0
	}

	cvCounts := termCounts(cvTokens)
	jobCounts := termCounts(jobTokens)

	idf := inverseDocumentFrequency(cvCounts, jobCounts)

	cvVec := weigh(cvCounts, idf)
	jobVec := weigh(jobCounts, idf)

	score := cosine(cvVec, jobVec)
	if score < 0 {
		return 0.0
	}
	if score > 1 {
		return 1.0
	}
	return score
}

func termCounts(tokens []string) map[string]float64 {
	counts := make(map[string]float64, len(tokens))
	for _, token := range tokens {
		counts[token]++
	}
	return counts
}

// inverseDocumentFrequency uses the smoothed formulation
// idf(t) = ln((1+n)/(1+df(t))) + 1 with n == 2 documents, so terms shared by
// both documents still carry weight instead of vanishing.
func inverseDocumentFrequency(docs ...map[string]float64) map[string]float64 {
	df := make(map[string]float64)
	for _, doc := range docs {
		for term := range doc {
			df[term]++
		}
	}

	n := float64(len(docs))
	idf := make(map[string]float64, len(df))
	for term, freq := range df {
		idf[term] = math.Log((1+n)/(1+freq)) + 1
	}
	return idf
}

func weigh(counts, idf map[string]float64) map[string]float64 {
	vec := make(map[string]float64, len(counts))
	for term, count := range counts {
		vec[term] = count * idf[term]
	}
	return vec
}

func cosine(a, b map[string]float64) float64 {
	var dot, normA, normB float64
	for term, weight := range a {
		normA += weight * weight
		if other, ok := b[term]; ok {
			dot += weight * other
		}
	}
	for _, weight := range b {
		normB += weight * weight
	}

	if normA == 0 || normB == 0 {
		return 0.0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
