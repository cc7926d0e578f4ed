package handlers

import (
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"sameshi/catalog"
	"sameshi/models"
	"sameshi/pricing"
	"sameshi/selection"
	"sameshi/session"
)

// SessionCookie carries the visitor's session id.
const SessionCookie = "sameshi_session"

type drawResponse struct {
	SessionID string          `json:"session_id"`
	Facility  models.Facility `json:"facility"`
	Policy    string          `json:"policy"`
	Items     []menuItemView  `json:"items"`
	Pricing   pricing.Summary `json:"pricing"`
}

// sessionID returns the caller's session id from the cookie or the
// "session" query parameter, minting a new one if neither is valid.
func sessionID(r *http.Request) string {
	if id := r.URL.Query().Get("session"); session.ValidID(id) {
		return id
	}
	if c, err := r.Cookie(SessionCookie); err == nil && session.ValidID(c.Value) {
		return c.Value
	}
	return session.NewID()
}

func setSessionCookie(w http.ResponseWriter, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// DrawHandler runs a gacha draw for a facility and stores it as the
// session's current selection, replacing the previous one. The policy
// defaults to def and can be overridden with ?policy=.
func DrawHandler(store *catalog.Store, sessions *session.Store, def selection.Policy, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, ok := facilityFromPath(w, r, store)
		if !ok {
			return
		}

		policy := def
		if name := r.URL.Query().Get("policy"); name != "" {
			p, err := selection.ByName(name)
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			policy = p
		}

		result, err := selection.Draw(store, f.ID, policy, selection.NewRand())
		if err != nil {
			logger.Error("draw failed", zap.Int64("facility_id", f.ID), zap.Error(err))
			http.Error(w, "Something went wrong", http.StatusInternalServerError)
			return
		}

		sess := session.Session{
			ID:         sessionID(r),
			FacilityID: f.ID,
			Policy:     policy.Name(),
			Items:      result.Items,
			UpdatedAt:  time.Now().UTC(),
		}
		if err := sessions.Save(r.Context(), sess); err != nil {
			logger.Error("saving session failed", zap.String("session_id", sess.ID), zap.Error(err))
			http.Error(w, "Something went wrong", http.StatusInternalServerError)
			return
		}

		logger.Info("gacha drawn",
			zap.String("session_id", sess.ID),
			zap.Int64("facility_id", f.ID),
			zap.String("policy", sess.Policy),
			zap.Int("items", len(result.Items)))

		setSessionCookie(w, sess.ID)
		writeJSON(w, http.StatusOK, drawResponse{
			SessionID: sess.ID,
			Facility:  f,
			Policy:    sess.Policy,
			Items:     menuItemViews(store, result.Items),
			Pricing:   pricing.Total(f.EntryFee, result.Items),
		})
	}
}

// SessionHandler returns a session's current selection and price summary.
func SessionHandler(store *catalog.Store, sessions *session.Store, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := sessions.Get(r.Context(), r.PathValue("id"))
		if errors.Is(err, session.ErrNotFound) {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}
		if err != nil {
			logger.Error("loading session failed", zap.Error(err))
			http.Error(w, "Something went wrong", http.StatusInternalServerError)
			return
		}

		// A facility dropped from the catalog since the draw leaves a zero fee.
		f, _ := store.Facility(sess.FacilityID)
		writeJSON(w, http.StatusOK, drawResponse{
			SessionID: sess.ID,
			Facility:  f,
			Policy:    sess.Policy,
			Items:     menuItemViews(store, sess.Items),
			Pricing:   pricing.Total(f.EntryFee, sess.Items),
		})
	}
}

// ResetHandler discards a session, the "back to top" action.
func ResetHandler(sessions *session.Store, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := sessions.Delete(r.Context(), r.PathValue("id")); err != nil {
			logger.Error("deleting session failed", zap.Error(err))
			http.Error(w, "Something went wrong", http.StatusInternalServerError)
			return
		}
		http.SetCookie(w, &http.Cookie{Name: SessionCookie, Value: "", Path: "/", MaxAge: -1})
		w.WriteHeader(http.StatusNoContent)
	}
}
