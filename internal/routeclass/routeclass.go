package routeclass

import "strings"

// Class is the gating category of a navigable path.
type Class int

const (
	// Public paths render for everyone.
	Public Class = iota
	// Protected paths require a token; the edge gate redirects anonymous
	// visitors to the sign-in page before any handler runs.
	Protected
	// AuthOnly paths (sign-in, sign-up) are for anonymous visitors; the edge
	// gate redirects signed-in visitors to the dashboard.
	AuthOnly
)

// Fixed redirect targets. These are configuration constants, not computed.
const (
	SignInRoute    = "/signin"
	SignUpRoute    = "/signup"
	HomeRoute      = "/dashboard"
	MarketingRoute = "/"
)

// protectedPrefixes lists path prefixes that require an authenticated
// session. Both the edge gate and route wiring consume this one table, so
// the two layers cannot drift apart.
var protectedPrefixes = []string{
	"/dashboard",
	"/projects",
	"/datasets",
	"/predictions",
	"/account",
	"/api/datasets",
	"/api/projects",
	"/api/predictions",
}

var authOnlyPaths = map[string]bool{
	SignInRoute: true,
	SignUpRoute: true,
}

// Classify returns the gating class of path by static prefix match.
// Every path belongs to exactly one class; anything unlisted is Public.
func Classify(path string) Class {
	if authOnlyPaths[path] {
		return AuthOnly
	}
	for _, prefix := range protectedPrefixes {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return Protected
		}
	}
	return Public
}

// ProtectedPrefixes returns a copy of the protected prefix table for route
// wiring.
func ProtectedPrefixes() []string {
	out := make([]string, len(protectedPrefixes))
	copy(out, protectedPrefixes)
	return out
}
