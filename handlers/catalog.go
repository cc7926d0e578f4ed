package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"sameshi/catalog"
	"sameshi/models"
	"sameshi/selection"
)

var categoryIcons = map[string]string{
	selection.CategoryMain:  "🍽️",
	selection.CategoryDrink: "🍺",
}

const defaultCategoryIcon = "🍽️"

// menuItemView is a menu item as the result card renders it.
type menuItemView struct {
	models.MenuItem
	Icon string   `json:"icon"`
	Tags []string `json:"tags"`
}

func menuItemViews(store *catalog.Store, items []models.MenuItem) []menuItemView {
	views := make([]menuItemView, 0, len(items))
	for _, item := range items {
		icon, ok := categoryIcons[selection.NormalizeCategory(item.Category)]
		if !ok {
			icon = defaultCategoryIcon
		}
		views = append(views, menuItemView{
			MenuItem: item,
			Icon:     icon,
			Tags:     store.TagsForMenuItem(item.ID),
		})
	}
	return views
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// pathID parses the {id} path segment.
func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	return id, err == nil
}

// facilityFromPath resolves {id} to a facility, writing 400 or 404 itself
// when it cannot.
func facilityFromPath(w http.ResponseWriter, r *http.Request, store *catalog.Store) (models.Facility, bool) {
	id, ok := pathID(r)
	if !ok {
		http.Error(w, "facility id must be an integer", http.StatusBadRequest)
		return models.Facility{}, false
	}
	f, err := store.Facility(id)
	if err != nil {
		http.Error(w, "facility not found", http.StatusNotFound)
		return models.Facility{}, false
	}
	return f, true
}

// FacilitiesHandler lists every facility for the selection drop-down.
func FacilitiesHandler(store *catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, store.Facilities())
	}
}

// MenuHandler lists every menu item reachable from a facility, with tags.
func MenuHandler(store *catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, ok := facilityFromPath(w, r, store)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"facility":    f,
			"restaurants": store.RestaurantsForFacility(f.ID),
			"items":       menuItemViews(store, store.MenuItemsForFacility(f.ID)),
		})
	}
}

// MenuItemTagsHandler returns the tag names of one menu item.
func MenuItemTagsHandler(store *catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r)
		if !ok {
			http.Error(w, "menu item id must be an integer", http.StatusBadRequest)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"menu_item_id": id,
			"tags":         store.TagsForMenuItem(id),
		})
	}
}

// Pinger is a dependency whose reachability the health check reports.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports liveness and the catalog size. When redis is non-nil
// its reachability is included and an unreachable server yields 503.
func HealthHandler(store *catalog.Store, redis Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body := map[string]any{
			"status":     "ok",
			"facilities": len(store.Facilities()),
		}
		status := http.StatusOK
		if redis != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := redis.Ping(ctx); err != nil {
				body["status"] = "degraded"
				body["redis"] = "unreachable"
				status = http.StatusServiceUnavailable
			} else {
				body["redis"] = "ok"
			}
		}
		writeJSON(w, status, body)
	}
}
