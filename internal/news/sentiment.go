package news

import (
	"strings"
	"unicode"
)

// Scorer scores free text polarity on [-1, 1] from financial sentiment
// word lists (Loughran-McDonald style). Scoring is deterministic: the
// same text always yields the same polarity.
type Scorer struct {
	positive map[string]bool
	negative map[string]bool
	negators map[string]bool
}

// NewScorer creates a scorer with the built-in word lists.
func NewScorer() *Scorer {
	return &Scorer{
		positive: loadPositiveWords(),
		negative: loadNegativeWords(),
		negators: loadNegatorWords(),
	}
}

// Polarity returns the valence of text: negative values unfavorable,
// positive favorable, 0 when no sentiment-bearing words occur.
func (s *Scorer) Polarity(text string) float64 {
	words := tokenize(strings.ToLower(text))

	score := 0.0
	hits := 0
	for i, word := range words {
		var w float64
		switch {
		case s.positive[word]:
			w = 1
		case s.negative[word]:
			w = -1
		default:
			continue
		}

		// A negator in the two preceding tokens flips the valence
		// ("not profitable", "no growth").
		for j := i - 1; j >= 0 && j >= i-2; j-- {
			if s.negators[words[j]] {
				w = -w
				break
			}
		}

		score += w
		hits++
	}

	if hits == 0 {
		return 0
	}

	polarity := score / float64(hits)
	if polarity > 1 {
		polarity = 1
	} else if polarity < -1 {
		polarity = -1
	}
	return polarity
}

// tokenize splits text into lowercase word tokens.
func tokenize(text string) []string {
	var words []string
	var current strings.Builder

	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			current.WriteRune(r)
		} else if current.Len() > 0 {
			words = append(words, current.String())
			current.Reset()
		}
	}
	if current.Len() > 0 {
		words = append(words, current.String())
	}
	return words
}

// Word lists based on financial sentiment dictionaries
// (Loughran-McDonald financial sentiment word lists).

func loadPositiveWords() map[string]bool {
	words := []string{
		"achieve", "attain", "beat", "benefit", "better", "boost", "competitive",
		"delight", "enhance", "excellent", "exceptional", "extraordinary",
		"favorable", "gain", "gains", "good", "great", "grew", "growth",
		"improve", "improved", "improvement", "innovation", "innovative",
		"leader", "leading", "opportunity", "optimal", "optimistic",
		"outperform", "positive", "profit", "profitable", "progress",
		"prosper", "rally", "rebound", "record", "remarkable", "rise",
		"robust", "soar", "solid", "strength", "strong", "succeed",
		"success", "successful", "superior", "surge", "surpass",
		"tremendous", "upbeat", "upgrade", "valuable", "winning",
	}
	m := make(map[string]bool)
	for _, w := range words {
		m[w] = true
	}
	return m
}

func loadNegativeWords() map[string]bool {
	words := []string{
		"abandon", "adverse", "bankruptcy", "challenge", "challenging",
		"concern", "concerns", "crash", "crisis", "damage", "decline",
		"decrease", "deficit", "deteriorate", "difficult", "difficulty",
		"disappoint", "disappointing", "disadvantage", "downgrade",
		"downturn", "drop", "erode", "fail", "failure", "falling", "fear",
		"fine", "fraud", "headwind", "impair", "impairment", "inability",
		"inadequate", "ineffective", "investigation", "lawsuit", "layoff",
		"layoffs", "loss", "losses", "miss", "missed", "negative",
		"obstacle", "plunge", "poor", "problem", "recall", "recession",
		"restructuring", "risk", "risks", "shortfall", "slowdown", "slump",
		"tumble", "uncertain", "uncertainty", "underperform", "unfavorable",
		"unprofitable", "volatile", "volatility", "weak", "weakness",
		"worse", "worsen", "worst",
	}
	m := make(map[string]bool)
	for _, w := range words {
		m[w] = true
	}
	return m
}

func loadNegatorWords() map[string]bool {
	words := []string{"not", "no", "never", "without", "hardly", "neither", "nor"}
	m := make(map[string]bool)
	for _, w := range words {
		m[w] = true
	}
	return m
}
