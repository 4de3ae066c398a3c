package mongostore

import (
	"go.mongodb.org/mongo-driver/bson"

	"github.com/radhe123-123/disaster-app/internal/domain"
)

// buildEventFilter translates an EventFilter into a Mongo query document.
// Date bounds are inclusive and compare the stored ISO-8601 strings
// lexicographically, which holds as long as every timestamp shares the UTC
// "Z" representation the pipeline writes.
func buildEventFilter(f domain.EventFilter) bson.M {
	q := bson.M{}
	if f.DisasterType != "" {
		q["disaster_type"] = f.DisasterType
	}

	published := bson.M{}
	if f.FromDate != "" {
		published["$gte"] = f.FromDate
	}
	if f.ToDate != "" {
		published["$lte"] = f.ToDate
	}
	if len(published) > 0 {
		q["publishedAt"] = published
	}
	return q
}
