package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"sameshi/cache"
	"sameshi/models"
)

// ErrNotFound is returned when a session id has no stored state.
var ErrNotFound = errors.New("session not found")

// Session is the per-visitor state: the chosen facility and the latest draw.
type Session struct {
	ID         string            `json:"id"`
	FacilityID int64             `json:"facility_id"`
	Policy     string            `json:"policy"`
	Items      []models.MenuItem `json:"items"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

// Result returns the session's current selection.
func (s Session) Result() models.SelectionResult {
	return models.SelectionResult{FacilityID: s.FacilityID, Items: s.Items}
}

// NewID returns a fresh random session id.
func NewID() string {
	return uuid.NewString()
}

// ValidID reports whether id looks like one NewID produced.
func ValidID(id string) bool {
	return uuid.Validate(id) == nil
}

// Store persists sessions in a key/value cache. Every Save replaces the
// whole session; nothing is merged.
type Store struct {
	kv  cache.Store
	ttl time.Duration
}

// NewStore creates a session store. A zero ttl keeps sessions until deleted.
func NewStore(kv cache.Store, ttl time.Duration) *Store {
	return &Store{kv: kv, ttl: ttl}
}

func key(id string) string {
	return "sameshi:session:" + id
}

// Get loads a session.
func (s *Store) Get(ctx context.Context, id string) (Session, error) {
	raw, err := s.kv.Get(ctx, key(id))
	if errors.Is(err, cache.ErrMiss) {
		return Session{}, ErrNotFound
	}
	if err != nil {
		return Session{}, fmt.Errorf("load session: %w", err)
	}
	var sess Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		return Session{}, fmt.Errorf("decode session: %w", err)
	}
	return sess, nil
}

// Save stores sess, replacing any previous state under the same id.
func (s *Store) Save(ctx context.Context, sess Session) error {
	if sess.ID == "" {
		return errors.New("session id is required")
	}
	if sess.Items == nil {
		sess.Items = []models.MenuItem{}
	}
	b, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.kv.Set(ctx, key(sess.ID), string(b), s.ttl); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Delete drops a session. Deleting an unknown id is not an error.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.kv.Del(ctx, key(id)); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
