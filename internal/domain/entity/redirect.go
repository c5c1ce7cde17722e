package entity

import "sync/atomic"

// RedirectState is the state of a RedirectPage.
type RedirectState int32

const (
	RedirectPending RedirectState = iota
	RedirectNavigated
)

// RedirectPage navigates to its target exactly once, the first time it becomes active.
type RedirectPage struct {
	target string
	state  atomic.Int32
}

// NewRedirectPage creates a pending redirect to target.
func NewRedirectPage(target string) *RedirectPage {
	return &RedirectPage{target: target}
}

// Activate moves the page from pending to navigated. Only the first call returns the target and true.
func (p *RedirectPage) Activate() (string, bool) {
	if p.state.CompareAndSwap(int32(RedirectPending), int32(RedirectNavigated)) {
		return p.target, true
	}
	return "", false
}

// State returns the current state.
func (p *RedirectPage) State() RedirectState {
	return RedirectState(p.state.Load())
}
