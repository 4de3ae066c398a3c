package mongostore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/radhe123-123/disaster-app/internal/domain"
)

func TestBuildEventFilter(t *testing.T) {
	tests := []struct {
		name   string
		filter domain.EventFilter
		want   bson.M
	}{
		{
			name:   "empty filter matches everything",
			filter: domain.EventFilter{},
			want:   bson.M{},
		},
		{
			name:   "disaster type only",
			filter: domain.EventFilter{DisasterType: "flood"},
			want:   bson.M{"disaster_type": "flood"},
		},
		{
			name:   "from date only",
			filter: domain.EventFilter{FromDate: "2024-01-01T00:00:00Z"},
			want:   bson.M{"publishedAt": bson.M{"$gte": "2024-01-01T00:00:00Z"}},
		},
		{
			name:   "to date only",
			filter: domain.EventFilter{ToDate: "2024-02-01T00:00:00Z"},
			want:   bson.M{"publishedAt": bson.M{"$lte": "2024-02-01T00:00:00Z"}},
		},
		{
			name: "inclusive range with type",
			filter: domain.EventFilter{
				DisasterType: "earthquake",
				FromDate:     "2024-01-01T00:00:00Z",
				ToDate:       "2024-02-01T00:00:00Z",
			},
			want: bson.M{
				"disaster_type": "earthquake",
				"publishedAt": bson.M{
					"$gte": "2024-01-01T00:00:00Z",
					"$lte": "2024-02-01T00:00:00Z",
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, buildEventFilter(tt.filter))
		})
	}
}
