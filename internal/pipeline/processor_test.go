package pipeline_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radhe123-123/disaster-app/internal/domain"
	"github.com/radhe123-123/disaster-app/internal/pipeline"
)

func floodArticle(url string, title string) domain.RawArticle {
	return domain.RawArticle{
		Title:        title,
		URL:          url,
		PublishedAt:  "2024-01-01T00:00:00Z",
		Source:       domain.ArticleSource{Name: "X"},
		DisasterType: "flood",
	}
}

func TestProcessor_AssemblesEvent(t *testing.T) {
	extractor := &stubExtractor{names: map[string][]string{
		"Major flood hits Riverdale": {"Riverdale"},
	}}
	geocoder := &stubGeocoder{locations: map[string]domain.ResolvedLocation{
		"Riverdale": {Name: "Riverdale", Latitude: 1.0, Longitude: 2.0, Address: "Riverdale"},
	}}
	p := pipeline.NewProcessor(extractor, geocoder, testLogger(), testMetrics())

	events, err := p.Process(context.Background(), []domain.RawArticle{
		floodArticle("http://x/1", "Major flood hits Riverdale"),
	})
	require.NoError(t, err)
	require.Len(t, events, 1)

	e := events[0]
	assert.Equal(t, "flood", e.DisasterType)
	assert.Equal(t, "X", e.Source)
	require.Len(t, e.Locations, 1)
	assert.Equal(t, 1.0, e.Locations[0].Latitude)
	assert.Equal(t, 2.0, e.Locations[0].Longitude)
}

func TestProcessor_NeverEmitsEmptyLocations(t *testing.T) {
	// The extractor finds a name, but the geocoder has no match: the whole
	// article must vanish from the output, not appear with locations: [].
	extractor := &stubExtractor{names: map[string][]string{
		"Flood in Nowhereville": {"Nowhereville"},
	}}
	geocoder := &stubGeocoder{}
	p := pipeline.NewProcessor(extractor, geocoder, testLogger(), testMetrics())

	events, err := p.Process(context.Background(), []domain.RawArticle{
		floodArticle("http://x/1", "Flood in Nowhereville"),
	})
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestProcessor_NoEntities(t *testing.T) {
	p := pipeline.NewProcessor(&stubExtractor{}, &stubGeocoder{}, testLogger(), testMetrics())

	events, err := p.Process(context.Background(), []domain.RawArticle{
		floodArticle("http://x/1", "River levels rising slowly"),
	})
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestProcessor_GeocodeErrorSkipsPlaceNotBatch(t *testing.T) {
	extractor := &stubExtractor{names: map[string][]string{
		"Flood from Aville to Bville": {"Aville", "Bville"},
	}}
	geocoder := &stubGeocoder{
		locations: map[string]domain.ResolvedLocation{
			"Bville": {Name: "Bville", Latitude: 3.0, Longitude: 4.0, Address: "Bville"},
		},
		errs: map[string]error{
			"Aville": errors.New("geocoder 500"),
		},
	}
	p := pipeline.NewProcessor(extractor, geocoder, testLogger(), testMetrics())

	events, err := p.Process(context.Background(), []domain.RawArticle{
		floodArticle("http://x/1", "Flood from Aville to Bville"),
	})
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Len(t, events[0].Locations, 1)
	assert.Equal(t, "Bville", events[0].Locations[0].Name)
}

func TestProcessor_BadArticleDoesNotAbortBatch(t *testing.T) {
	extractor := &stubExtractor{names: map[string][]string{
		"Flood one Aville":           {"Aville"},
		"Major flood hits Riverdale": {"Riverdale"},
	}}
	geocoder := &stubGeocoder{locations: map[string]domain.ResolvedLocation{
		"Aville":    {Name: "Aville", Latitude: 1, Longitude: 1, Address: "Aville"},
		"Riverdale": {Name: "Riverdale", Latitude: 1, Longitude: 2, Address: "Riverdale"},
	}}
	p := pipeline.NewProcessor(extractor, geocoder, testLogger(), testMetrics())

	missingURL := floodArticle("", "Flood one Aville") // fails validation

	events, err := p.Process(context.Background(), []domain.RawArticle{
		missingURL,
		floodArticle("http://x/2", "Major flood hits Riverdale"),
	})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "http://x/2", events[0].URL)
}

func TestProcessor_CancelledBetweenResolutions(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	extractor := &stubExtractor{names: map[string][]string{
		"Flood everywhere": {"A", "B", "C"},
	}}

	resolved := 0
	geocoder := resolveFunc(func(_ context.Context, name string) (domain.ResolvedLocation, bool, error) {
		resolved++
		if resolved == 1 {
			cancel() // abort mid-article
		}
		return domain.ResolvedLocation{Name: name, Latitude: 1, Longitude: 1, Address: name}, true, nil
	})

	p := pipeline.NewProcessor(extractor, geocoder, testLogger(), testMetrics())
	_, err := p.Process(ctx, []domain.RawArticle{floodArticle("http://x/1", "Flood everywhere")})
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, resolved, "no further geocode calls after cancellation")
}

type resolveFunc func(ctx context.Context, name string) (domain.ResolvedLocation, bool, error)

func (f resolveFunc) Resolve(ctx context.Context, name string) (domain.ResolvedLocation, bool, error) {
	return f(ctx, name)
}
