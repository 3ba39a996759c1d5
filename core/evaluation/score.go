package evaluation

import (
	"math"

	"github.com/tmbraz/rotacheck/core/question"
)

// CalcScore computes good/total for a submitted answer list against the
// question catalog. An answer is good when its boolean value equals the
// question's goodWhenYes flag. Each catalog question counts at most once, so
// the result stays in [0,1] even for malformed answer lists (duplicates,
// unknown question ids). The divisor is the catalog length; an empty catalog
// divides by 1, so it yields 0 rather than an error.
func CalcScore(answers []Answer, catalog []question.Question) float64 {
	total := len(catalog)
	if total == 0 {
		total = 1
	}

	byID := make(map[int]Answer, len(answers))
	for _, a := range answers {
		byID[a.QuestionID] = a
	}

	var good int
	for _, q := range catalog {
		if a, ok := byID[q.ID]; ok && a.Value == q.GoodWhenYes {
			good++
		}
	}
	return Round2(float64(good) / float64(total))
}

// Round2 rounds to 2 decimal places, half away from zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
