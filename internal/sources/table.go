// Package sources holds the static source-credibility table used to weight
// candidate articles by the trustworthiness of their publisher.
package sources

import "strings"

// DefaultCredibility is the neutral weight returned for domains the table
// does not know about, including the "unknown" sentinel.
const DefaultCredibility = 0.5

// defaultWeights is the built-in domain -> credibility mapping. Weights are
// editorial judgments in [0,1], not computed values.
var defaultWeights = map[string]float64{
	"reuters.com":        0.95,
	"apnews.com":         0.95,
	"bbc.com":            0.92,
	"bbc.co.uk":          0.92,
	"nytimes.com":        0.9,
	"washingtonpost.com": 0.9,
	"theguardian.com":    0.88,
	"wsj.com":            0.88,
	"economist.com":      0.88,
	"npr.org":            0.87,
	"aljazeera.com":      0.82,
	"bloomberg.com":      0.85,
	"ft.com":             0.87,
	"cnn.com":            0.78,
	"cnbc.com":           0.78,
	"abcnews.go.com":     0.8,
	"cbsnews.com":        0.78,
	"nbcnews.com":        0.78,
	"thehindu.com":       0.85,
	"indianexpress.com":  0.8,
	"timesofindia.com":   0.72,
	"hindustantimes.com": 0.75,
	"ndtv.com":           0.75,
	"foxnews.com":        0.65,
	"nypost.com":         0.55,
	"dailymail.co.uk":    0.4,
	"breitbart.com":      0.3,
	"infowars.com":       0.1,
}

// Table maps normalized domains to credibility weights in [0,1].
type Table struct {
	weights map[string]float64
}

// NewTable builds a table from the built-in weights merged with overrides
// (typically sources.credibility from the config file). Overrides win on
// conflict; domain keys are normalized to lowercase.
func NewTable(overrides map[string]float64) *Table {
	weights := make(map[string]float64, len(defaultWeights)+len(overrides))
	for domain, w := range defaultWeights {
		weights[domain] = w
	}
	for domain, w := range overrides {
		weights[strings.ToLower(strings.TrimSpace(domain))] = w
	}
	return &Table{weights: weights}
}

// Lookup returns the configured weight for domain, or DefaultCredibility
// when the domain is not listed. It never fails.
func (t *Table) Lookup(domain string) float64 {
	if w, ok := t.weights[strings.ToLower(domain)]; ok {
		return w
	}
	return DefaultCredibility
}

// Len reports how many domains the table knows about.
func (t *Table) Len() int {
	return len(t.weights)
}
