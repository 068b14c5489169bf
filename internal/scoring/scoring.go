// Package scoring contains the pure match score calculators and the fixed
// weighting that combines them.
package scoring

// Component weights of the overall score. These are fixed and shared by both
// the local and the AI-backed strategies.
const (
	IndustryWeight = 0.10
	SkillsWeight   = 0.30
	SemanticWeight = 0.60
)

// fullWeightScale is the assumed full per-skill weight scale. Required skill
// weights are authored as 0-100 values and are not required to sum to 100.
const fullWeightScale = 100.0

// IndustryScore returns the industry coverage fraction in [0, 1].
//
// An empty job requirement is trivially satisfied and yields 1.0. Extra
// overlapping industries cannot inflate the score past full credit.
func IndustryScore(cvIndustries, jobIndustries []string) float64 {
	if len(jobIndustries) == 0 {
		return 1.0
	}

	have := make(map[string]bool, len(cvIndustries))
	for _, industry := range cvIndustries {
		have[industry] = true
	}

	matches := 0
	for _, industry := range jobIndustries {
		if have[industry] {
			matches++
		}
	}

	if matches == 0 {
		return 0.0
	}

	score := float64(matches) / float64(len(jobIndustries))
	if score > 1.0 {
		score = 1.0
	}
	return score
}

// SkillScore returns the weighted skill coverage fraction in [0, 1].
//
// An empty requirement list yields 1.0. A requirement list whose weights sum
// to zero signals a misconfigured job and is treated as unsatisfiable (0.0).
func SkillScore(cvSkills []string, required map[string]float64) float64 {
	if len(required) == 0 {
		return 1.0
	}

	total := 0.0
	for _, weight := range required {
		total += weight
	}
	if total == 0 {
		return 0.0
	}

	have := make(map[string]bool, len(cvSkills))
	for _, skill := range cvSkills {
		have[skill] = true
	}

	achieved := 0.0
	for skill, weight := range required {
		if have[skill] {
			achieved += weight
		}
	}

	score := achieved / fullWeightScale
	if score > 1.0 {
		score = 1.0
	}
	return score
}

// Overall combines the three component fractions with the fixed weighting.
func Overall(industry, skills, semantic float64) float64 {
	return industry*IndustryWeight + skills*SkillsWeight + semantic*SemanticWeight
}
