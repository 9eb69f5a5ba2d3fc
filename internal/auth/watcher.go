package auth

import (
	"context"
	"sync"
)

type SessionState string

const (
	StateLoading         SessionState = "loading"
	StateAuthenticated   SessionState = "authenticated"
	StateUnauthenticated SessionState = "unauthenticated"
)

type SessionInfo struct {
	UserID string
	Role   string
	Token  string
}

// Watcher is the process-wide auth-state provider: one place that knows the
// current session and notifies subscribers of changes. Views subscribe for
// their lifetime and must call the returned unsubscribe func on teardown.
type Watcher struct {
	mu       sync.Mutex
	state    SessionState
	info     SessionInfo
	subs     map[int]func(SessionState, SessionInfo)
	nextSub  int
	resolved chan struct{}
}

func NewWatcher() *Watcher {
	return &Watcher{
		state:    StateLoading,
		subs:     map[int]func(SessionState, SessionInfo){},
		resolved: make(chan struct{}),
	}
}

// Subscribe registers fn for state changes and immediately delivers the
// current state. The returned func unsubscribes.
func (w *Watcher) Subscribe(fn func(SessionState, SessionInfo)) (unsubscribe func()) {
	w.mu.Lock()
	id := w.nextSub
	w.nextSub++
	w.subs[id] = fn
	state, info := w.state, w.info
	w.mu.Unlock()

	fn(state, info)
	return func() {
		w.mu.Lock()
		delete(w.subs, id)
		w.mu.Unlock()
	}
}

// SetSession marks the watcher authenticated.
func (w *Watcher) SetSession(info SessionInfo) {
	w.transition(StateAuthenticated, info)
}

// Clear marks the watcher unauthenticated (sign-out, failed check).
func (w *Watcher) Clear() {
	w.transition(StateUnauthenticated, SessionInfo{})
}

func (w *Watcher) transition(state SessionState, info SessionInfo) {
	w.mu.Lock()
	first := w.state == StateLoading
	w.state = state
	w.info = info
	fns := make([]func(SessionState, SessionInfo), 0, len(w.subs))
	for _, fn := range w.subs {
		fns = append(fns, fn)
	}
	w.mu.Unlock()

	if first {
		close(w.resolved)
	}
	for _, fn := range fns {
		fn(state, info)
	}
}

// Current returns the state and session as of now.
func (w *Watcher) Current() (SessionState, SessionInfo) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state, w.info
}

// Wait blocks until the first check resolves (or ctx ends), then reports the
// state. Callers render a placeholder while blocked.
func (w *Watcher) Wait(ctx context.Context) (SessionState, SessionInfo) {
	select {
	case <-w.resolved:
	case <-ctx.Done():
	}
	return w.Current()
}
