// Command validate performs data integrity checks against a live event store.
// It scans the stored disaster events and user accounts and verifies the
// invariants the pipeline is supposed to enforce: URL uniqueness, known
// disaster types, resolved locations on every event, parseable timestamps,
// and coordinate ranges.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -uri mongodb://localhost:27017 \
//	  -database disaster_monitoring
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/radhe123-123/disaster-app/internal/domain"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	uri := flag.String("uri", os.Getenv("MONGODB_URI"), "mongodb connection string")
	database := flag.String("database", "disaster_monitoring", "database name")
	flag.Parse()

	if *uri == "" {
		flag.Usage()
		fmt.Fprintln(os.Stderr, "missing -uri (or MONGODB_URI)")
		os.Exit(1)
	}

	if code := run(*uri, *database); code != 0 {
		os.Exit(code)
	}
}

func run(uri, database string) int {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: connect: %v\n", err)
		return 1
	}
	defer client.Disconnect(context.Background()) //nolint:errcheck // best-effort cleanup

	db := client.Database(database)

	fmt.Println("=== Disaster Event Store Integrity Validation ===")
	fmt.Println()

	events, err := loadEvents(ctx, db)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load events: %v\n", err)
		return 1
	}

	users, err := loadUsers(ctx, db)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load users: %v\n", err)
		return 1
	}

	phases := []*phase{
		validateDeduplication(events),
		validateEventInvariants(events),
		validateTimestamps(events),
		validateUsers(users),
	}

	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Records: %d events, %d users\n", len(events), len(users))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

func loadEvents(ctx context.Context, db *mongo.Database) ([]domain.DisasterEvent, error) {
	cursor, err := db.Collection("disaster_events").Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	var events []domain.DisasterEvent
	if err := cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}

func loadUsers(ctx context.Context, db *mongo.Database) ([]domain.UserAccount, error) {
	cursor, err := db.Collection("users").Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	var users []domain.UserAccount
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// ── Phase 1: Deduplication ──
// Every stored event must have a URL, and no URL may appear twice.

func validateDeduplication(events []domain.DisasterEvent) *phase {
	p := &phase{name: "Phase 1: URL Deduplication"}

	seen := map[string]int{}
	for i := range events {
		url := events[i].URL
		if url == "" {
			p.errorf("event %d (%q): empty url", i, events[i].Title)
			continue
		}
		seen[url]++
	}
	for url, n := range seen {
		if n > 1 {
			p.errorf("url %q stored %d times", url, n)
		}
	}
	return p
}

// ── Phase 2: Event Invariants ──
// Disaster types come from the keyword vocabulary, every event carries at
// least one resolved location, and coordinates are on the globe.

func validateEventInvariants(events []domain.DisasterEvent) *phase {
	p := &phase{name: "Phase 2: Event Invariants"}

	for i := range events {
		e := &events[i]
		if err := e.Validate(); err != nil {
			p.errorf("event %d (%s): %v", i, e.URL, err)
		}
		for j, loc := range e.Locations {
			if loc.Name == "" {
				p.errorf("event %d (%s): location %d has no name", i, e.URL, j)
			}
			if loc.Latitude < -90 || loc.Latitude > 90 {
				p.errorf("event %d (%s): location %q latitude %g out of range", i, e.URL, loc.Name, loc.Latitude)
			}
			if loc.Longitude < -180 || loc.Longitude > 180 {
				p.errorf("event %d (%s): location %q longitude %g out of range", i, e.URL, loc.Name, loc.Longitude)
			}
		}
	}
	return p
}

// ── Phase 3: Timestamps ──
// added_to_db must be set and parseable, and never precede publishedAt.

func validateTimestamps(events []domain.DisasterEvent) *phase {
	p := &phase{name: "Phase 3: Timestamps"}

	for i := range events {
		e := &events[i]

		if e.AddedToDB == "" {
			p.errorf("event %d (%s): added_to_db is empty", i, e.URL)
			continue
		}
		added, err := time.Parse(time.RFC3339, e.AddedToDB)
		if err != nil {
			p.errorf("event %d (%s): unparseable added_to_db %q", i, e.URL, e.AddedToDB)
			continue
		}

		if e.PublishedAt == "" {
			continue
		}
		published, err := time.Parse(time.RFC3339, e.PublishedAt)
		if err != nil {
			p.errorf("event %d (%s): unparseable publishedAt %q", i, e.URL, e.PublishedAt)
			continue
		}
		if added.Before(published) {
			p.errorf("event %d (%s): added_to_db %s precedes publishedAt %s", i, e.URL, e.AddedToDB, e.PublishedAt)
		}
	}
	return p
}

// ── Phase 4: User Accounts ──

func validateUsers(users []domain.UserAccount) *phase {
	p := &phase{name: "Phase 4: User Accounts"}

	seen := map[string]int{}
	for i := range users {
		u := &users[i]
		if u.Username == "" {
			p.errorf("user %d: empty username", i)
			continue
		}
		seen[u.Username]++
		if u.PasswordHash == "" {
			p.errorf("user %q: empty password hash", u.Username)
		}
		if u.Email == "" {
			p.errorf("user %q: empty email", u.Username)
		}
	}
	for name, n := range seen {
		if n > 1 {
			p.errorf("username %q registered %d times", name, n)
		}
	}
	return p
}
