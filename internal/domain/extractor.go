package domain

// Extractor yields the deduplicated set of candidate place names mentioned
// in a text. Extraction is synchronous and has no external I/O; a missing or
// broken NER model surfaces at construction time, never per call.
type Extractor interface {
	Extract(text string) []string
}
