package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"sameshi/cache"
	"sameshi/catalog"
	"sameshi/models"
	"sameshi/places"
	"sameshi/selection"
	"sameshi/session"
)

type stubLookup struct {
	places []places.Place
}

func (s stubLookup) Nearby(_ context.Context, req places.NearbyRequest) ([]places.Place, error) {
	if req.Keyword != "カレー" {
		return nil, nil
	}
	return s.places, nil
}

type testServer struct {
	handler  http.Handler
	sessions *session.Store
}

func newTestServer(t *testing.T) testServer {
	t.Helper()
	data, err := catalog.Load(context.Background(), catalog.FixtureSource{}, zap.NewNop())
	require.NoError(t, err)
	store := catalog.New(data)

	sessions := session.NewStore(cache.NewMemory(), 0)
	finder := places.NewFinder(stubLookup{places: []places.Place{
		{PlaceID: "near", Name: "近いカレー", Rating: 4.2, Location: models.Coordinates{Lat: 34.9465, Lon: 138.3981}},
		{PlaceID: "low", Name: "低評価カレー", Rating: 3.0, Location: models.Coordinates{Lat: 34.9462, Lon: 138.3981}},
	}}, zap.NewNop())

	mux := NewMux(store, sessions, finder, selection.CategoryPolicy{}, nil, zap.NewNop())
	return testServer{handler: RequestLogger(zap.NewNop(), mux), sessions: sessions}
}

func (s testServer) do(t *testing.T, method, target string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

type drawBody struct {
	SessionID string `json:"session_id"`
	Policy    string `json:"policy"`
	Items     []struct {
		ID       int64    `json:"id"`
		Category string   `json:"category"`
		Icon     string   `json:"icon"`
		Tags     []string `json:"tags"`
		Price    int      `json:"price"`
	} `json:"items"`
	Pricing struct {
		EntryFee  int `json:"entry_fee"`
		FoodTotal int `json:"food_total"`
		Total     int `json:"total"`
		ItemCount int `json:"item_count"`
	} `json:"pricing"`
}

func TestFacilitiesHandler(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/facilities")
	require.Equal(t, http.StatusOK, w.Code)

	facilities := decode[[]models.Facility](t, w)
	require.Len(t, facilities, 3)
	assert.Equal(t, "サウナしきじ", facilities[0].Name)
	assert.Equal(t, 1400, facilities[0].EntryFee)
}

func TestMenuHandler(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/facilities/1/menu")
	require.Equal(t, http.StatusOK, w.Code)

	body := decode[struct {
		Items []struct {
			ID   int64    `json:"id"`
			Tags []string `json:"tags"`
		} `json:"items"`
	}](t, w)
	require.Len(t, body.Items, 5)
	assert.Equal(t, int64(100), body.Items[0].ID)
	assert.Equal(t, []string{"名物", "がっつり"}, body.Items[0].Tags)

	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/api/facilities/99/menu").Code)
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodGet, "/api/facilities/abc/menu").Code)
}

func TestDrawHandler_CategoryPolicy(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/facilities/1/draw")
	require.Equal(t, http.StatusOK, w.Code)

	body := decode[drawBody](t, w)
	assert.True(t, session.ValidID(body.SessionID))
	assert.Equal(t, "category", body.Policy)
	require.Len(t, body.Items, 3)
	assert.Equal(t, "main", body.Items[0].Category)
	assert.Equal(t, "🍽️", body.Items[0].Icon)
	assert.Equal(t, "🍺", body.Items[1].Icon)

	food := 0
	for _, item := range body.Items {
		food += item.Price
	}
	assert.Equal(t, 1400, body.Pricing.EntryFee)
	assert.Equal(t, food, body.Pricing.FoodTotal)
	assert.Equal(t, 1400+food, body.Pricing.Total)
	assert.Equal(t, 3, body.Pricing.ItemCount)

	var cookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == SessionCookie {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	assert.Equal(t, body.SessionID, cookie.Value)
}

func TestDrawHandler_RedrawReplacesSelection(t *testing.T) {
	s := newTestServer(t)

	first := decode[drawBody](t, s.do(t, http.MethodPost, "/api/facilities/1/draw"))
	cookie := &http.Cookie{Name: SessionCookie, Value: first.SessionID}

	second := decode[drawBody](t, s.do(t, http.MethodPost, "/api/facilities/3/draw?policy=flat", cookie))
	assert.Equal(t, first.SessionID, second.SessionID)
	assert.Equal(t, "flat", second.Policy)
	require.Len(t, second.Items, 1)
	assert.Equal(t, int64(300), second.Items[0].ID)

	sess, err := s.sessions.Get(context.Background(), first.SessionID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), sess.FacilityID)
	assert.Len(t, sess.Items, 1)

	w := s.do(t, http.MethodGet, "/api/sessions/"+first.SessionID)
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[drawBody](t, w)
	assert.Equal(t, 550, got.Pricing.EntryFee)
	assert.Equal(t, 800, got.Pricing.FoodTotal)
	assert.Equal(t, 1350, got.Pricing.Total)
}

func TestDrawHandler_Errors(t *testing.T) {
	s := newTestServer(t)

	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodPost, "/api/facilities/4/draw").Code)
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodPost, "/api/facilities/1/draw?policy=weighted").Code)
	assert.Equal(t, http.StatusMethodNotAllowed, s.do(t, http.MethodGet, "/api/facilities/1/draw").Code)
}

func TestResetHandler(t *testing.T) {
	s := newTestServer(t)

	body := decode[drawBody](t, s.do(t, http.MethodPost, "/api/facilities/2/draw"))

	w := s.do(t, http.MethodDelete, "/api/sessions/"+body.SessionID)
	assert.Equal(t, http.StatusNoContent, w.Code)

	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/api/sessions/"+body.SessionID).Code)
}

func TestNearbyHandler(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/facilities/1/nearby")
	require.Equal(t, http.StatusOK, w.Code)

	body := decode[struct {
		Radius   int      `json:"radius"`
		Keywords []string `json:"keywords"`
		Places   []struct {
			Name     string `json:"name"`
			Keyword  string `json:"keyword"`
			Emoji    string `json:"emoji"`
			MapsLink string `json:"maps_link"`
		} `json:"places"`
	}](t, w)
	assert.Equal(t, 200, body.Radius)
	assert.Equal(t, []string{"ラーメン", "牛丼", "カレー", "ハンバーガー"}, body.Keywords)
	require.Len(t, body.Places, 1)
	assert.Equal(t, "近いカレー", body.Places[0].Name)
	assert.Equal(t, "🍛", body.Places[0].Emoji)
	assert.Equal(t, "https://www.google.com/maps/place/?q=place_id:near", body.Places[0].MapsLink)
}

func TestMapHandler(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/facilities/1/map")
	require.Equal(t, http.StatusOK, w.Code)

	view := decode[places.MapView](t, w)
	require.Len(t, view.Markers, 2)
	assert.Equal(t, places.MarkerTypeFacility, view.Markers[0].Type)
	assert.Equal(t, "pin_curry", view.Markers[1].Icon)
	assert.InDelta(t, 34.946, view.Center.Lat, 1e-9)
}

func TestNearbyHandler_WithoutFinder(t *testing.T) {
	data, err := catalog.Load(context.Background(), catalog.FixtureSource{}, zap.NewNop())
	require.NoError(t, err)
	mux := NewMux(catalog.New(data), session.NewStore(cache.NewMemory(), 0), nil, selection.FlatPolicy{}, nil, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/facilities/1/nearby", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"facility_id": 1, "radius": 200, "keywords": ["ラーメン", "牛丼", "カレー", "ハンバーガー"], "places": []}`, w.Body.String())
}

func TestMenuItemTagsAndHealth(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/menu-items/111/tags")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"menu_item_id": 111, "tags": ["さっぱり"]}`, w.Body.String())

	w = s.do(t, http.MethodGet, "/api/menu-items/999/tags")
	assert.JSONEq(t, `{"menu_item_id": 999, "tags": []}`, w.Body.String())

	w = s.do(t, http.MethodGet, "/healthz")
	assert.JSONEq(t, `{"status": "ok", "facilities": 3}`, w.Body.String())
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

func TestHealthHandler_ReportsRedis(t *testing.T) {
	data, err := catalog.Load(context.Background(), catalog.FixtureSource{}, zap.NewNop())
	require.NoError(t, err)
	store := catalog.New(data)

	w := httptest.NewRecorder()
	HealthHandler(store, stubPinger{})(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status": "ok", "facilities": 3, "redis": "ok"}`, w.Body.String())

	w = httptest.NewRecorder()
	HealthHandler(store, stubPinger{err: errors.New("connection refused")})(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.JSONEq(t, `{"status": "degraded", "facilities": 3, "redis": "unreachable"}`, w.Body.String())
}
