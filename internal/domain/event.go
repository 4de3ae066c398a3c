package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DisasterKeywords is the fixed vocabulary of disaster types. Each collection
// run issues one news search per keyword, and the keyword becomes the stored
// event's disaster_type.
var DisasterKeywords = []string{
	"earthquake", "flood", "hurricane", "tsunami", "wildfire",
	"tornado", "cyclone", "landslide", "volcano", "drought",
}

// ValidDisasterType reports whether s is one of the ten known keywords.
func ValidDisasterType(s string) bool {
	for _, k := range DisasterKeywords {
		if s == k {
			return true
		}
	}
	return false
}

// ArticleSource identifies the publication an article came from.
type ArticleSource struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// RawArticle is one result from the news search API, plus the disaster
// keyword that retrieved it. Raw articles exist only during a collection run;
// they are never persisted.
type RawArticle struct {
	Source      ArticleSource `json:"source"`
	Author      string        `json:"author"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Content     string        `json:"content"`
	URL         string        `json:"url"`
	URLToImage  string        `json:"urlToImage"`
	PublishedAt string        `json:"publishedAt"`

	// DisasterType is set by the collector, not the news API.
	DisasterType string `json:"disaster_type"`
}

// AnalysisText builds the text handed to entity extraction: title and
// description joined by a single space.
func (a RawArticle) AnalysisText() string {
	return strings.TrimSpace(a.Title + " " + a.Description)
}

// ResolvedLocation is a geocoded place name mentioned in an article.
type ResolvedLocation struct {
	Name      string  `bson:"name" json:"name"`
	Latitude  float64 `bson:"latitude" json:"latitude"`
	Longitude float64 `bson:"longitude" json:"longitude"`
	Address   string  `bson:"address" json:"address"`
}

// DisasterEvent is the persisted record: one geolocated, deduplicated news
// article. URL is the deduplication key; at most one stored event per URL.
// Events are append-only and never mutated after insertion.
type DisasterEvent struct {
	Title        string             `bson:"title" json:"title"`
	Description  string             `bson:"description" json:"description"`
	Content      string             `bson:"content" json:"content"`
	URL          string             `bson:"url" json:"url"`
	URLToImage   string             `bson:"urlToImage" json:"urlToImage"`
	PublishedAt  string             `bson:"publishedAt" json:"publishedAt"`
	Source       string             `bson:"source" json:"source"`
	DisasterType string             `bson:"disaster_type" json:"disaster_type"`
	Locations    []ResolvedLocation `bson:"locations" json:"locations"`
	AddedToDB    string             `bson:"added_to_db,omitempty" json:"added_to_db,omitempty"`
}

// NewDisasterEvent assembles the normalized record for a raw article and its
// resolved locations. AddedToDB is stamped later, by the store, at insertion.
func NewDisasterEvent(a RawArticle, locations []ResolvedLocation) DisasterEvent {
	return DisasterEvent{
		Title:        a.Title,
		Description:  a.Description,
		Content:      a.Content,
		URL:          a.URL,
		URLToImage:   a.URLToImage,
		PublishedAt:  a.PublishedAt,
		Source:       a.Source.Name,
		DisasterType: a.DisasterType,
		Locations:    locations,
	}
}

// Validate checks the invariants enforced at the processor boundary.
func (e DisasterEvent) Validate() error {
	if e.URL == "" {
		return errors.New("event has no url")
	}
	if !ValidDisasterType(e.DisasterType) {
		return fmt.Errorf("unknown disaster_type %q", e.DisasterType)
	}
	if len(e.Locations) == 0 {
		return errors.New("event has no resolved locations")
	}
	return nil
}

// EventFilter constrains an event query. Zero-value fields are ignored.
// Date bounds are inclusive and compared lexicographically against the
// stored publishedAt strings.
type EventFilter struct {
	DisasterType string
	FromDate     string
	ToDate       string
}

// ErrUsernameTaken is returned by user registration when the username
// already exists. An expected outcome, not a failure.
var ErrUsernameTaken = errors.New("username already registered")

// UserAccount is the auxiliary store-side entity consumed by the dashboard.
type UserAccount struct {
	Username     string         `bson:"username" json:"username"`
	Email        string         `bson:"email" json:"email"`
	PasswordHash string         `bson:"password_hash" json:"-"`
	Preferences  map[string]any `bson:"preferences" json:"preferences"`
	CreatedAt    string         `bson:"created_at" json:"created_at"`
}

// Timestamp formats t in the representation shared by publishedAt,
// added_to_db, and created_at.
func Timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// Now returns the current time from the package clock, formatted with
// Timestamp.
func Now() string {
	return Timestamp(clock.Now())
}
