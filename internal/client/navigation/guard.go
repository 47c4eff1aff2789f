// Package navigation decides screen-group redirects from session state.
package navigation

import "github.com/bookwyrm/bookshelf-system/internal/client/session"

// ScreenGroup partitions the UI into the sign-in/sign-up screens and the
// main tab screens.
type ScreenGroup int

const (
	GroupAuth ScreenGroup = iota
	GroupMain
)

// Redirect is the guard's decision.
type Redirect int

const (
	RedirectNone Redirect = iota
	RedirectSignIn
	RedirectMain
)

// Evaluate is a pure function of (session state, current screen group). It
// emits no redirect before CheckAuth has resolved: deciding on a default
// empty session would bounce a restoring user through sign-in.
func Evaluate(state session.State, group ScreenGroup) Redirect {
	switch state {
	case session.StateAuthenticated:
		if group == GroupAuth {
			return RedirectMain
		}
	case session.StateUnauthenticated:
		if group != GroupAuth {
			return RedirectSignIn
		}
	}
	return RedirectNone
}
