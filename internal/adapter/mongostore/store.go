// Package mongostore persists disaster events and user accounts in MongoDB.
// Deduplication uses a single atomic insert-if-absent per record (upsert
// with $setOnInsert) backed by unique indexes, so concurrent writers cannot
// double-insert the same URL or username.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/radhe123-123/disaster-app/internal/domain"
)

const (
	eventsCollection = "disaster_events"
	usersCollection  = "users"
)

// Store is the MongoDB-backed event and user store.
type Store struct {
	client *mongo.Client
	events *mongo.Collection
	users  *mongo.Collection
	logger *slog.Logger
}

// Connect opens a client, verifies connectivity, and creates the unique
// indexes the dedup contract relies on. Failure here is fatal to startup.
func Connect(ctx context.Context, uri, database string, logger *slog.Logger) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	db := client.Database(database)
	s := &Store{
		client: client,
		events: db.Collection(eventsCollection),
		users:  db.Collection(usersCollection),
		logger: logger,
	}

	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return s, nil
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	_, err := s.events.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "url", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create url index: %w", err)
	}

	_, err = s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create username index: %w", err)
	}
	return nil
}

// Close disconnects the underlying client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Store inserts each event whose URL is not yet present, stamping
// added_to_db at insertion time, and returns the events actually inserted.
// The count of newly inserted events is the length of the returned slice;
// storing the same sequence twice inserts it once, so the second call
// returns an empty slice.
func (s *Store) Store(ctx context.Context, events []domain.DisasterEvent) ([]domain.DisasterEvent, error) {
	var inserted []domain.DisasterEvent
	for _, e := range events {
		e.AddedToDB = domain.Now()

		res, err := s.events.UpdateOne(ctx,
			bson.M{"url": e.URL},
			bson.M{"$setOnInsert": e},
			options.Update().SetUpsert(true),
		)
		if err != nil {
			// A concurrent upsert racing on the unique index surfaces as a
			// duplicate key; that is the other writer winning, not a failure.
			if mongo.IsDuplicateKeyError(err) {
				continue
			}
			return inserted, fmt.Errorf("store event %q: %w", e.URL, err)
		}
		if res.UpsertedCount > 0 {
			inserted = append(inserted, e)
		}
	}
	return inserted, nil
}

// Query returns events matching the filter, newest first.
func (s *Store) Query(ctx context.Context, filter domain.EventFilter) ([]domain.DisasterEvent, error) {
	cur, err := s.events.Find(ctx, buildEventFilter(filter),
		options.Find().SetSort(bson.D{{Key: "publishedAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}

	var out []domain.DisasterEvent
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode events: %w", err)
	}
	return out, nil
}

// RecentEvents returns events published within the past days.
func (s *Store) RecentEvents(ctx context.Context, days int) ([]domain.DisasterEvent, error) {
	from := domain.Timestamp(domain.Clock().Now().AddDate(0, 0, -days))
	return s.Query(ctx, domain.EventFilter{FromDate: from})
}

// FindUser looks up an account by username. A missing user is (zero, false,
// nil), not an error.
func (s *Store) FindUser(ctx context.Context, username string) (domain.UserAccount, bool, error) {
	var user domain.UserAccount
	err := s.users.FindOne(ctx, bson.M{"username": username}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.UserAccount{}, false, nil
	}
	if err != nil {
		return domain.UserAccount{}, false, fmt.Errorf("find user %q: %w", username, err)
	}
	return user, true, nil
}

// RegisterUser atomically creates an account if the username is free and
// returns the new document ID. A taken username yields ErrUsernameTaken.
func (s *Store) RegisterUser(ctx context.Context, username, email, passwordHash string, preferences map[string]any) (string, error) {
	if preferences == nil {
		preferences = map[string]any{}
	}
	user := domain.UserAccount{
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		Preferences:  preferences,
		CreatedAt:    domain.Now(),
	}

	res, err := s.users.UpdateOne(ctx,
		bson.M{"username": username},
		bson.M{"$setOnInsert": user},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", domain.ErrUsernameTaken
		}
		return "", fmt.Errorf("register user %q: %w", username, err)
	}
	if res.UpsertedCount == 0 {
		return "", domain.ErrUsernameTaken
	}

	if oid, ok := res.UpsertedID.(primitive.ObjectID); ok {
		return oid.Hex(), nil
	}
	return fmt.Sprint(res.UpsertedID), nil
}
