// Package extract recognizes place names in article text using the prose
// NER model, the pipeline's stand-in for a full NLP service. Only
// geopolitical-entity (GPE) and generic-location (LOC) spans are kept.
package extract

import (
	"fmt"
	"strings"

	prose "github.com/jdkato/prose/v2"
)

// Extractor implements domain.Extractor over the embedded prose model.
type Extractor struct{}

// New loads the NER model. The model is embedded in the prose module and
// initialized lazily on the first document; the probe here forces that load
// so a broken model fails at startup instead of on the first article.
func New() (*Extractor, error) {
	if _, err := prose.NewDocument("A flood struck San Francisco."); err != nil {
		return nil, fmt.Errorf("initialize NER model: %w", err)
	}
	return &Extractor{}, nil
}

// Extract returns the deduplicated place names mentioned in text, in order
// of first appearance. Empty or whitespace-only input yields nil.
func (e *Extractor) Extract(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	doc, err := prose.NewDocument(text)
	if err != nil {
		// Tokenization failures on degenerate input are treated as
		// "no entities"; the model itself was validated in New.
		return nil
	}

	seen := make(map[string]struct{})
	var places []string
	for _, ent := range doc.Entities() {
		if ent.Label != "GPE" && ent.Label != "LOC" {
			continue
		}
		name := strings.TrimSpace(ent.Text)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		places = append(places, name)
	}
	return places
}
