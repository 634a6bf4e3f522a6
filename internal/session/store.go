package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dgallion1/astview/internal/compiler"
	"github.com/dgallion1/astview/internal/editor"
)

// Store is a thread-safe in-memory session registry with TTL eviction.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	max      int

	compiler compiler.Compiler
	unit     editor.Unit
	log      *slog.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewStore(c compiler.Compiler, unit editor.Unit, ttl time.Duration, max int, log *slog.Logger) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		max:      max,
		compiler: c,
		unit:     unit,
		log:      log,
	}
}

// Create starts a new session and registers it.
func (s *Store) Create() (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.max > 0 && len(s.sessions) >= s.max {
		return nil, fmt.Errorf("%w (%d)", ErrLimit, s.max)
	}
	sess := New(NewID(), s.compiler, s.unit, s.log)
	s.sessions[sess.ID] = sess
	s.log.Info("session created", "session_id", sess.ID, "active", len(s.sessions))
	return sess, nil
}

func (s *Store) Get(id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return sess, nil
}

// Delete closes and removes a session.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	sess.Close()
	return nil
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Cleanup closes sessions idle for longer than the TTL and returns how
// many were removed.
func (s *Store) Cleanup() int {
	s.mu.Lock()
	now := time.Now()
	var expired []*Session
	for id, sess := range s.sessions {
		if now.Sub(sess.LastActive()) > s.ttl {
			expired = append(expired, sess)
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()

	for _, sess := range expired {
		sess.Close()
	}
	if len(expired) > 0 {
		s.log.Info("expired sessions removed", "count", len(expired))
	}
	return len(expired)
}

// Start launches the periodic cleanup goroutine.
func (s *Store) Start(ctx context.Context, every time.Duration) {
	if every <= 0 {
		every = time.Minute
	}
	cleanupCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(every)
		defer ticker.Stop()
		for {
			select {
			case <-cleanupCtx.Done():
				return
			case <-ticker.C:
				s.Cleanup()
			}
		}
	}()
}

// Stop ends the cleanup goroutine and closes every session.
func (s *Store) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()

	s.mu.Lock()
	all := make([]*Session, 0, len(s.sessions))
	for id, sess := range s.sessions {
		all = append(all, sess)
		delete(s.sessions, id)
	}
	s.mu.Unlock()
	for _, sess := range all {
		sess.Close()
	}
}
