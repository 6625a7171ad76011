// ABOUTME: Session holds the current automaton view plus undo/redo history of source revisions.
// ABOUTME: A failed refresh keeps the previous view and records the error.
package viewer

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// maxHistory caps the undo and redo stacks.
const maxHistory = 50

// Errors returned by history navigation.
var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// Revision is one accepted source text.
type Revision struct {
	ID     ulid.ULID `json:"id"`
	Source string    `json:"source"`
	At     time.Time `json:"at"`
}

type Session struct {
	mu         sync.RWMutex
	ID         string
	builder    AutomatonBuilder
	opts       Options
	current    *Snapshot
	revision   Revision
	lastErr    error
	undo       []Revision
	redo       []Revision
	CreatedAt  time.Time
	LastAccess time.Time
}

// NewSession creates an empty session. Call Refresh to load source text.
func NewSession(id string, b AutomatonBuilder, opts Options) *Session {
	if b == nil {
		b = Passthrough{}
	}
	now := time.Now()
	return &Session{
		ID:         id,
		builder:    b,
		opts:       opts,
		CreatedAt:  now,
		LastAccess: now,
	}
}

// Refresh rebuilds the view from text. On failure the previous view is kept
// and the error is both returned and recorded for LastError.
func (sess *Session) Refresh(text string) error {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.refreshLocked(text, sess.opts)
}

// RefreshWith rebuilds the view from text under new options. The options
// and the view change together, and only when the build succeeds.
func (sess *Session) RefreshWith(text string, opts Options) error {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.refreshLocked(text, opts)
}

func (sess *Session) refreshLocked(text string, opts Options) error {
	snap, err := Build(sess.builder, text, opts)
	if err != nil {
		sess.lastErr = err
		return err
	}

	if sess.current != nil {
		sess.undo = pushCapped(sess.undo, sess.revision)
	}
	sess.redo = nil
	sess.opts = opts
	sess.install(snap, newRevision(text))
	return nil
}

// SetOptions changes the view toggles and rebuilds the current source. On
// failure the previous options and view are kept.
func (sess *Session) SetOptions(opts Options) error {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.current == nil {
		sess.opts = opts
		return nil
	}
	snap, err := Build(sess.builder, sess.current.Source, opts)
	if err != nil {
		sess.lastErr = err
		return err
	}
	sess.opts = opts
	sess.install(snap, sess.revision)
	return nil
}

// Undo restores the previous source revision.
func (sess *Session) Undo() error {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if len(sess.undo) == 0 {
		return ErrNothingToUndo
	}
	prev := sess.undo[len(sess.undo)-1]

	snap, err := Build(sess.builder, prev.Source, sess.opts)
	if err != nil {
		return fmt.Errorf("failed to restore previous state: %w", err)
	}

	sess.undo = sess.undo[:len(sess.undo)-1]
	sess.redo = pushCapped(sess.redo, sess.revision)
	sess.install(snap, prev)
	return nil
}

// Redo restores a previously undone revision.
func (sess *Session) Redo() error {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if len(sess.redo) == 0 {
		return ErrNothingToRedo
	}
	next := sess.redo[len(sess.redo)-1]

	snap, err := Build(sess.builder, next.Source, sess.opts)
	if err != nil {
		return fmt.Errorf("failed to restore next state: %w", err)
	}

	sess.redo = sess.redo[:len(sess.redo)-1]
	sess.undo = pushCapped(sess.undo, sess.revision)
	sess.install(snap, next)
	return nil
}

// Snapshot returns the current view, or false if nothing has loaded yet.
func (sess *Session) Snapshot() (*Snapshot, bool) {
	sess.mu.RLock()
	defer sess.mu.RUnlock()
	return sess.current, sess.current != nil
}

// Options returns the current view toggles.
func (sess *Session) Options() Options {
	sess.mu.RLock()
	defer sess.mu.RUnlock()
	return sess.opts
}

// Revision returns the revision the current view was built from.
func (sess *Session) Revision() Revision {
	sess.mu.RLock()
	defer sess.mu.RUnlock()
	return sess.revision
}

// LastError returns the error from the most recent failed refresh, or nil
// once a later refresh succeeds.
func (sess *Session) LastError() error {
	sess.mu.RLock()
	defer sess.mu.RUnlock()
	return sess.lastErr
}

// History returns the undo and redo depths.
func (sess *Session) History() (undo, redo int) {
	sess.mu.RLock()
	defer sess.mu.RUnlock()
	return len(sess.undo), len(sess.redo)
}

// install swaps in a new view. Callers hold the write lock.
func (sess *Session) install(snap *Snapshot, rev Revision) {
	sess.current = snap
	sess.revision = rev
	sess.lastErr = nil
}

func newRevision(source string) Revision {
	return Revision{ID: ulid.Make(), Source: source, At: time.Now()}
}

func pushCapped(stack []Revision, r Revision) []Revision {
	stack = append(stack, r)
	if len(stack) > maxHistory {
		stack = stack[1:]
	}
	return stack
}
