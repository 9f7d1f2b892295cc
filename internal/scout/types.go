// Package scout defines core types shared across the judge discovery pipeline.
package scout

// Availability reports whether a candidate is currently reachable for a
// consultation, derived from the directory's presence indicator.
type Availability string

// Availability values persisted with each judge record.
const (
	Available   Availability = "Available"
	Unavailable Availability = "Unavailable"
)

// Judge is a scored candidate expert. Name is the natural identity key:
// repeated runs that observe the same name update the stored record rather
// than duplicating it.
type Judge struct {
	Name           string       `json:"name"`
	Expertise      string       `json:"expertise"`
	Availability   Availability `json:"availability"`
	HourlyRate     float64      `json:"hourly_rate"`
	RelevanceScore int          `json:"relevance_score"`
	Location       string       `json:"location,omitempty"`
}

// RawProfile carries the loosely-typed text extracted from one listing item.
// All fields are raw page text; the normalizer is the single place where they
// become typed values.
type RawProfile struct {
	Name      string
	Expertise string
	Status    string
	Price     string
	Location  string
}

// ScrapeEvent is published after every pipeline run. Fallback distinguishes
// synthetic results from live ones, since the data shape is identical.
type ScrapeEvent struct {
	Topic      string `json:"topic"`
	Candidates int    `json:"candidates"`
	Fallback   bool   `json:"fallback"`
	DurationMs int64  `json:"duration_ms"`
}
