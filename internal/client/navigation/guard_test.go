package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bookwyrm/bookshelf-system/internal/client/session"
)

func TestEvaluate(t *testing.T) {
	cases := []struct {
		name  string
		state session.State
		group ScreenGroup
		want  Redirect
	}{
		{"authenticated on auth screen goes home", session.StateAuthenticated, GroupAuth, RedirectMain},
		{"authenticated on main screen stays", session.StateAuthenticated, GroupMain, RedirectNone},
		{"unauthenticated on main screen goes to sign-in", session.StateUnauthenticated, GroupMain, RedirectSignIn},
		{"unauthenticated on auth screen stays", session.StateUnauthenticated, GroupAuth, RedirectNone},
		{"uninitialized never redirects from auth", session.StateUninitialized, GroupAuth, RedirectNone},
		{"uninitialized never redirects from main", session.StateUninitialized, GroupMain, RedirectNone},
		{"checking never redirects from auth", session.StateChecking, GroupAuth, RedirectNone},
		{"checking never redirects from main", session.StateChecking, GroupMain, RedirectNone},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Evaluate(tc.state, tc.group))
		})
	}
}

func TestEvaluate_IsPure(t *testing.T) {
	// Same inputs, same decision, no matter how often it is asked.
	for i := 0; i < 10; i++ {
		assert.Equal(t, RedirectSignIn, Evaluate(session.StateUnauthenticated, GroupMain))
	}
}
