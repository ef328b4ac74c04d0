// Package reload keeps at most one list reload in flight.
//
// Begin supersedes whatever reload was running: its context is cancelled and
// its token stops being current, so a late result can be recognised and
// dropped. The last reload started wins, regardless of completion order.
package reload

import (
	"context"
	"sync"
)

// Token identifies one reload. The zero Token is never current.
type Token uint64

type Slot struct {
	mu     sync.Mutex
	seq    Token
	cancel context.CancelFunc
}

// Begin cancels the pending reload, if any, and starts a new one.
func (s *Slot) Begin(parent context.Context) (context.Context, Token) {
	ctx, cancel := context.WithCancel(parent)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
	}
	s.seq++
	s.cancel = cancel
	return ctx, s.seq
}

// Current reports whether t is the most recently started reload.
func (s *Slot) Current(t Token) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return t != 0 && t == s.seq
}

// Done releases t's context. A no-op if t was already superseded.
func (s *Slot) Done(t Token) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t == s.seq && s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// Stop cancels the pending reload and invalidates its token.
func (s *Slot) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.seq++
}
