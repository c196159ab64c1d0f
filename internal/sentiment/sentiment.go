// Package sentiment scores free text with a VADER lexicon model. Scoring is
// total: any input, including empty text, yields a bounded result.
package sentiment

import (
	"math"
	"strings"

	"github.com/jonreiter/govader"
)

// Labels for the three-way polarity classification.
const (
	LabelPositive = "Positive"
	LabelNegative = "Negative"
	LabelNeutral  = "Neutral"
)

// Compound score cutoffs for the three-way labels.
const (
	positiveThreshold = 0.05
	negativeThreshold = -0.05
)

// Sentiment is a bounded polarity result for a piece of text.
type Sentiment struct {
	Compound float64 `json:"compound"` // in [-1,1], rounded to 2 decimals
	Label    string  `json:"label"`
}

// Analyzer wraps a VADER sentiment model. The model is read-only after
// construction and safe for concurrent use.
type Analyzer struct {
	vader *govader.SentimentIntensityAnalyzer
}

// NewAnalyzer builds an Analyzer with the default VADER lexicon.
func NewAnalyzer() *Analyzer {
	return &Analyzer{vader: govader.NewSentimentIntensityAnalyzer()}
}

// Polarity scores text and maps the compound score to a label:
// >= 0.05 Positive, <= -0.05 Negative, otherwise Neutral.
func (a *Analyzer) Polarity(text string) Sentiment {
	if strings.TrimSpace(text) == "" {
		return Sentiment{Compound: 0, Label: LabelNeutral}
	}
	scores := a.vader.PolarityScores(text)
	compound := Round2(scores.Compound)
	return Sentiment{Compound: compound, Label: LabelFor(compound)}
}

// LabelFor maps a compound score to its three-way label.
func LabelFor(compound float64) string {
	switch {
	case compound >= positiveThreshold:
		return LabelPositive
	case compound <= negativeThreshold:
		return LabelNegative
	default:
		return LabelNeutral
	}
}

// Round2 rounds to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
