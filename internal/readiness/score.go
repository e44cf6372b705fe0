package readiness

import (
	"math"
	"strings"
	"unicode/utf8"
)

// Weights and guardrails of the readiness score.
const (
	skillWeight   = 0.55
	answerWeight  = 0.45
	scoreScale    = 10
	noSkillCap    = 2.5
	poorAnswerCap = 3.0
	// Answer quality below this value caps readiness at poorAnswerCap.
	poorAnswerThreshold = 0.25
)

// Per-answer scores.
const (
	lowEffortScore = 0.0
	shortScore     = 0.2
	mediumScore    = 0.5
	longScore      = 0.9

	shortLimit  = 20
	mediumLimit = 50
)

// lowEffortPhrases mark an answer as disengaged when found anywhere in it.
var lowEffortPhrases = []string{
	"i dont know", "i don't know", "idk", "not sure",
	"no idea", "na", "n/a", "nothing", "nope",
}

// SkillMatch returns the share of the idea's technologies the builder covers.
// Comparison is case-insensitive and exact; "node" does not match "node.js".
func SkillMatch(idea, builder Stack) float64 {
	ideaSet := lowerSet(idea)
	if len(ideaSet) == 0 {
		return 0.0
	}

	builderSet := lowerSet(builder)
	matched := 0
	for tech := range ideaSet {
		if _, ok := builderSet[tech]; ok {
			matched++
		}
	}
	if matched == 0 {
		return 0.0
	}

	return float64(matched) / float64(len(ideaSet))
}

// ScoreAnswer scores a single free-text answer by length and disengagement markers.
func ScoreAnswer(answer string) float64 {
	text := strings.ToLower(strings.TrimSpace(answer))

	for _, phrase := range lowEffortPhrases {
		if strings.Contains(text, phrase) {
			return lowEffortScore
		}
	}

	switch length := utf8.RuneCountInString(text); {
	case length < shortLimit:
		return shortScore
	case length < mediumLimit:
		return mediumScore
	default:
		return longScore
	}
}

// AnswerQuality averages ScoreAnswer over all answers, rounded to 2 decimals.
func AnswerQuality(answers []string) float64 {
	if len(answers) == 0 {
		return 0.0
	}

	total := 0.0
	for _, answer := range answers {
		total += ScoreAnswer(answer)
	}

	return round(total/float64(len(answers)), 2)
}

// Combine merges skill match and answer quality into the readiness score,
// rounded to 1 decimal.
func Combine(skillMatch, answerQuality float64) float64 {
	score := (skillMatch*skillWeight + answerQuality*answerWeight) * scoreScale

	switch {
	case skillMatch == 0:
		score = math.Min(score, noSkillCap)
	case answerQuality < poorAnswerThreshold:
		score = math.Min(score, poorAnswerCap)
	}

	return round(score, 1)
}

// round rounds half away from zero.
func round(v float64, places int) float64 {
	pow := math.Pow(10, float64(places))
	return math.Round(v*pow) / pow
}
