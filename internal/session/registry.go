package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("session not found")

// Registry holds the live sessions of the service by id.
type Registry struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
	opts     Options
}

func NewRegistry(opts Options) *Registry {
	return &Registry{
		sessions: make(map[uuid.UUID]*Session),
		opts:     opts.withDefaults(),
	}
}

func (r *Registry) Create(ctx context.Context, difficulty string) (*Session, error) {
	s, err := New(ctx, uuid.New(), difficulty, r.opts)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()
	r.opts.Logger.Debug("session created",
		slog.String("session", s.ID.String()),
		slog.String("difficulty", difficulty),
	)
	return s, nil
}

func (r *Registry) Get(id uuid.UUID) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

func (r *Registry) Remove(id uuid.UUID) bool {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()
	if ok {
		s.Close()
	}
	return ok
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Sweep closes and drops every session idle for longer than maxIdle and
// returns how many went.
func (r *Registry) Sweep(maxIdle time.Duration) int {
	cutoff := r.opts.Now().Add(-maxIdle)

	r.mu.Lock()
	var stale []*Session
	for id, s := range r.sessions {
		if s.LastSeen().Before(cutoff) {
			stale = append(stale, s)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	for _, s := range stale {
		s.Close()
	}
	if len(stale) > 0 {
		r.opts.Logger.Info("swept idle sessions", slog.Int("count", len(stale)))
	}
	return len(stale)
}

// CloseAll stops every session, used on shutdown.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[uuid.UUID]*Session)
	r.mu.Unlock()
	for _, s := range sessions {
		s.Close()
	}
}
