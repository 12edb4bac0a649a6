package gate

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/d0ughnat/Fruad-detection/internal/token"
)

// Route is the class a request path falls into.
type Route int

const (
	RouteBypass Route = iota
	RoutePublic
	RouteAuthRedirect
	RouteProtectedAPI
	RouteProtectedPage
)

func (r Route) String() string {
	switch r {
	case RouteBypass:
		return "bypass"
	case RoutePublic:
		return "public"
	case RouteAuthRedirect:
		return "auth_redirect"
	case RouteProtectedAPI:
		return "protected_api"
	case RouteProtectedPage:
		return "protected_page"
	default:
		return "unknown"
	}
}

// Action is what the gate does with a request.
type Action int

const (
	Forward Action = iota
	Redirect
	Reject
)

// API rejection messages.
const (
	MessageAuthRequired   = "Authentication required"
	MessageInvalidSession = "Invalid or expired session"
)

// Decision is the outcome for one request.
type Decision struct {
	Route    Route
	Action   Action
	Status   int
	Location string
	Message  string
	// Reason is for logs only and never sent to the client.
	Reason string
}

// Validator is the fast check the gate runs on a present token.
type Validator interface {
	Validate(tok string) (Hint, error)
}

// Policy classifies paths. The zero value is not useful; start from
// DefaultPolicy.
type Policy struct {
	LoginPath      string
	LandingPath    string
	PublicPaths    []string
	RedirectPaths  []string
	APIPrefix      string
	BypassPrefixes []string
}

// DefaultPolicy is the dashboard's route table.
func DefaultPolicy() Policy {
	return Policy{
		LoginPath:   "/login",
		LandingPath: "/landing",
		PublicPaths: []string{
			"/login",
			"/api/auth/login",
			"/api/auth/register",
			"/api/auth/logout",
		},
		RedirectPaths:  []string{"/"},
		APIPrefix:      "/api/",
		BypassPrefixes: []string{"/_next/static", "/_next/image", "/favicon.ico", "/public/", "/healthz"},
	}
}

// Classify maps a request path to its route class.
func (p Policy) Classify(path string) Route {
	for _, prefix := range p.BypassPrefixes {
		if strings.HasPrefix(path, prefix) {
			return RouteBypass
		}
	}
	for _, pub := range p.PublicPaths {
		if path == pub {
			return RoutePublic
		}
	}
	for _, r := range p.RedirectPaths {
		if path == r {
			return RouteAuthRedirect
		}
	}
	if strings.HasPrefix(path, p.APIPrefix) {
		return RouteProtectedAPI
	}
	return RouteProtectedPage
}

// Decide computes the outcome for a path and the raw cookie value. It holds no
// state between calls.
func (p Policy) Decide(path, tok string, v Validator) Decision {
	route := p.Classify(path)
	d := Decision{Route: route, Action: Forward}

	switch route {
	case RouteBypass, RoutePublic:
		return d
	}

	reason := check(tok, v)

	switch route {
	case RouteAuthRedirect:
		d.Action = Redirect
		d.Status = http.StatusFound
		d.Reason = reason
		if reason == "" {
			d.Location = p.LandingPath
		} else {
			d.Location = p.LoginPath
		}
	case RouteProtectedAPI:
		if reason == "" {
			return d
		}
		d.Action = Reject
		d.Status = http.StatusUnauthorized
		d.Reason = reason
		d.Message = MessageInvalidSession
		if tok == "" {
			d.Message = MessageAuthRequired
		}
	case RouteProtectedPage:
		if reason == "" {
			return d
		}
		d.Action = Redirect
		d.Status = http.StatusFound
		d.Reason = reason
		d.Location = p.LoginPath + "?" + url.Values{"redirect": {path}}.Encode()
	}
	return d
}

// check returns "" when the token passes, otherwise a log-only reason.
func check(tok string, v Validator) string {
	if tok == "" {
		return "no_token"
	}
	_, err := v.Validate(tok)
	switch {
	case err == nil:
		return ""
	case errors.Is(err, token.ErrTokenExpired):
		return "token_expired"
	default:
		return "malformed_token"
	}
}
