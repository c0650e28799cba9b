// Package guard decides whether a navigation may proceed.
//
// The policy only looks at whether a session token is present. It never
// validates, refreshes, or writes the token.
package guard

import (
	"context"

	"github.com/louisbranch/libraryadmin/internal/services/admin/routepath"
	"github.com/louisbranch/libraryadmin/internal/services/admin/routes"
	"github.com/louisbranch/libraryadmin/internal/services/admin/session"
)

// Action is the outcome of a guard decision.
type Action int

const (
	Allow Action = iota
	RedirectToLogin
	RedirectToDashboard
)

func (a Action) String() string {
	switch a {
	case Allow:
		return "allow"
	case RedirectToLogin:
		return "redirect_login"
	case RedirectToDashboard:
		return "redirect_dashboard"
	default:
		return "unknown"
	}
}

// Location names a redirect target either by route name or by path.
type Location struct {
	Name string
	Path string
}

// Decision is the guard verdict for one navigation.
type Decision struct {
	Action Action
	// Target is empty when Action is Allow.
	Target Location
}

// Redirected reports whether the navigation must go elsewhere.
func (d Decision) Redirected() bool {
	return d.Action != Allow
}

// Decide applies the navigation policy. from is accepted for symmetry with
// the router hook and does not influence the result.
func Decide(to, from routes.Match, tokenPresent bool) Decision {
	_ = from
	if to.RequiresAuth && !tokenPresent {
		return Decision{Action: RedirectToLogin, Target: Location{Name: routes.NameLogin}}
	}
	if isEntryRoute(to.Name) && tokenPresent {
		return Decision{Action: RedirectToDashboard, Target: Location{Path: routepath.Dashboard}}
	}
	return Decision{Action: Allow}
}

// Check reads the current token and applies Decide.
func Check(ctx context.Context, tokens session.TokenReader, to, from routes.Match) (Decision, error) {
	present, err := session.HasToken(ctx, tokens)
	if err != nil {
		return Decision{}, err
	}
	return Decide(to, from, present), nil
}

func isEntryRoute(name string) bool {
	return name == routes.NameLogin || name == routes.NameRegister
}
