package handlers

import (
	"net/http"

	"sameshi/catalog"
	"sameshi/models"
	"sameshi/places"
)

type nearbyPlaceView struct {
	models.NearbyPlace
	Emoji string `json:"emoji"`
}

// NearbyHandler lists highly rated eateries within walking distance of a
// facility. The result is best-effort: lookup failures and facilities
// without coordinates both yield an empty list. finder may be nil when no
// Maps key is configured.
func NearbyHandler(store *catalog.Store, finder *places.Finder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, ok := facilityFromPath(w, r, store)
		if !ok {
			return
		}

		found := findNearby(r, f, finder)
		views := make([]nearbyPlaceView, 0, len(found))
		for _, p := range found {
			views = append(views, nearbyPlaceView{NearbyPlace: p, Emoji: places.EmojiFor(p.Keyword)})
		}

		radius, keywords := places.DefaultRadius, places.DefaultKeywords
		if finder != nil {
			radius, keywords = finder.Radius(), finder.Keywords()
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"facility_id": f.ID,
			"radius":      radius,
			"keywords":    keywords,
			"places":      views,
		})
	}
}

// MapHandler returns the pins for the facility map: the facility itself and
// every nearby place.
func MapHandler(store *catalog.Store, finder *places.Finder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, ok := facilityFromPath(w, r, store)
		if !ok {
			return
		}
		if f.Coordinates == nil {
			writeJSON(w, http.StatusOK, map[string]any{"markers": []places.Marker{}})
			return
		}
		writeJSON(w, http.StatusOK, places.Markers(f.Name, *f.Coordinates, findNearby(r, f, finder)))
	}
}

func findNearby(r *http.Request, f models.Facility, finder *places.Finder) []models.NearbyPlace {
	if finder == nil || f.Coordinates == nil {
		return []models.NearbyPlace{}
	}
	return finder.Find(r.Context(), *f.Coordinates)
}
