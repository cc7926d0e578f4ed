package places

import (
	"context"
	"net/url"
	"sync"

	"go.uber.org/zap"

	"sameshi/geo"
	"sameshi/models"
)

const (
	DefaultRadius    = 200
	DefaultMinRating = 3.5
	DefaultLanguage  = "ja"

	mapsPlaceURL = "https://www.google.com/maps/place/?q=place_id:"
	photoURL     = "https://maps.googleapis.com/maps/api/place/photo"
)

// DefaultKeywords are the cuisines searched around a facility.
var DefaultKeywords = []string{"ラーメン", "牛丼", "カレー", "ハンバーガー"}

// Finder turns per-keyword lookups into filtered display records.
type Finder struct {
	lookup     Lookup
	logger     *zap.Logger
	keywords   []string
	radius     int
	minRating  float64
	language   string
	photoKey   string
	concurrent bool
}

// Option configures a Finder.
type Option func(*Finder)

func WithKeywords(keywords ...string) Option {
	return func(f *Finder) {
		if len(keywords) > 0 {
			f.keywords = keywords
		}
	}
}

func WithRadius(meters int) Option {
	return func(f *Finder) {
		if meters > 0 {
			f.radius = meters
		}
	}
}

func WithMinRating(rating float64) Option {
	return func(f *Finder) { f.minRating = rating }
}

func WithLanguage(lang string) Option {
	return func(f *Finder) { f.language = lang }
}

// WithPhotoKey sets the API key embedded in photo URLs.
func WithPhotoKey(key string) Option {
	return func(f *Finder) { f.photoKey = key }
}

// WithConcurrency issues the keyword lookups in parallel.
func WithConcurrency(enabled bool) Option {
	return func(f *Finder) { f.concurrent = enabled }
}

// NewFinder creates a Finder with the default keywords, a 200 m radius and
// a 3.5 rating floor.
func NewFinder(lookup Lookup, logger *zap.Logger, opts ...Option) *Finder {
	f := &Finder{
		lookup:    lookup,
		logger:    logger,
		keywords:  DefaultKeywords,
		radius:    DefaultRadius,
		minRating: DefaultMinRating,
		language:  DefaultLanguage,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.logger == nil {
		f.logger = zap.NewNop()
	}
	return f
}

// Radius returns the search radius in meters.
func (f *Finder) Radius() int { return f.radius }

// Keywords returns the configured cuisine keywords.
func (f *Finder) Keywords() []string { return f.keywords }

// Find returns the highly rated places within the radius of origin. It is
// best-effort: a failing keyword is logged and contributes nothing.
func (f *Finder) Find(ctx context.Context, origin models.Coordinates) []models.NearbyPlace {
	perKeyword := make([][]models.NearbyPlace, len(f.keywords))

	if f.concurrent {
		var wg sync.WaitGroup
		for i, kw := range f.keywords {
			wg.Add(1)
			go func(i int, kw string) {
				defer wg.Done()
				perKeyword[i] = f.findKeyword(ctx, origin, kw)
			}(i, kw)
		}
		wg.Wait()
	} else {
		for i, kw := range f.keywords {
			perKeyword[i] = f.findKeyword(ctx, origin, kw)
		}
	}

	found := []models.NearbyPlace{}
	for _, places := range perKeyword {
		found = append(found, places...)
	}
	return found
}

func (f *Finder) findKeyword(ctx context.Context, origin models.Coordinates, keyword string) []models.NearbyPlace {
	candidates, err := f.lookup.Nearby(ctx, NearbyRequest{
		Location: origin,
		Radius:   f.radius,
		Keyword:  keyword,
		Language: f.language,
	})
	if err != nil {
		f.logger.Warn("nearby lookup failed", zap.String("keyword", keyword), zap.Error(err))
		return nil
	}

	var kept []models.NearbyPlace
	for _, p := range candidates {
		if !f.accept(origin, p) {
			continue
		}
		kept = append(kept, models.NearbyPlace{
			Name:        p.Name,
			Rating:      p.Rating,
			Keyword:     keyword,
			Coordinates: p.Location,
			MapsLink:    MapsLink(p.PlaceID),
			PhotoURL:    PhotoURL(p.PhotoReference, f.photoKey),
		})
	}
	f.logger.Debug("nearby lookup done",
		zap.String("keyword", keyword),
		zap.Int("candidates", len(candidates)),
		zap.Int("kept", len(kept)))
	return kept
}

// accept applies the rating floor and re-checks distance locally,
// independent of the radius the service applied.
func (f *Finder) accept(origin models.Coordinates, p Place) bool {
	return p.Rating >= f.minRating && geo.Between(origin, p.Location) <= float64(f.radius)
}

// MapsLink returns a Google Maps deep link for a place id.
func MapsLink(placeID string) string {
	return mapsPlaceURL + placeID
}

// PhotoURL returns the place photo URL for a photo reference, or "" when
// there is no reference.
func PhotoURL(photoReference, apiKey string) string {
	if photoReference == "" {
		return ""
	}
	params := url.Values{}
	params.Set("maxwidth", "400")
	params.Set("photoreference", photoReference)
	params.Set("key", apiKey)
	return photoURL + "?" + params.Encode()
}
