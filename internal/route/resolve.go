// Package route maps navigation paths onto the two top-level areas (auth and
// chat) and composes the chat area from lazily acquired modules.
package route

import (
	"path"
	"strings"
)

// Navigation paths.
const (
	PathRoot     = "/"
	PathAuth     = "/auth"
	PathRegister = "/auth/register"
	PathChat     = "/chat"
)

// Area is the top-level region a path resolves to.
type Area int

const (
	AreaUnresolved Area = iota
	AreaAuth
	AreaChat
)

// String returns the display name for each area
func (a Area) String() string {
	switch a {
	case AreaAuth:
		return "auth"
	case AreaChat:
		return "chat"
	default:
		return "unresolved"
	}
}

// AuthPage selects the page inside the auth area.
type AuthPage int

const (
	AuthPageNone AuthPage = iota
	AuthPageIndex
	AuthPageRegister
)

// String returns the display name for each auth page
func (p AuthPage) String() string {
	switch p {
	case AuthPageIndex:
		return "index"
	case AuthPageRegister:
		return "register"
	default:
		return "none"
	}
}

// Resolution is the outcome of resolving one navigation.
type Resolution struct {
	Requested  string // path as given by the caller
	Path       string // final path after normalization and redirects
	Area       Area
	AuthPage   AuthPage
	Redirected bool
}

// Normalize turns a user-supplied path into canonical form: leading slash,
// no query or fragment, no trailing slash, dot segments cleaned.
func Normalize(p string) string {
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	p = strings.TrimSpace(p)
	if p == "" {
		return PathRoot
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return path.Clean(p)
}

// Resolve maps p to an area. Matching is exact: "/auth" and "/auth/register"
// are the only auth pages, "/chat" is the chat area, and everything else,
// including "/" and unknown "/auth/..." sub-paths, redirects to "/auth".
func Resolve(p string) Resolution {
	clean := Normalize(p)
	r := Resolution{Requested: p, Path: clean}

	switch clean {
	case PathAuth:
		r.Area, r.AuthPage = AreaAuth, AuthPageIndex
	case PathRegister:
		r.Area, r.AuthPage = AreaAuth, AuthPageRegister
	case PathChat:
		r.Area = AreaChat
	default:
		r.Path = PathAuth
		r.Area, r.AuthPage = AreaAuth, AuthPageIndex
		r.Redirected = true
	}
	return r
}
