package models

import "strings"

// SanitizeKeySegment escapes the delimiter in key segments so a
// caller-supplied identifier containing ':' cannot address an adjacent
// window bucket.
func SanitizeKeySegment(s string) string {
	return strings.ReplaceAll(s, ":", "_")
}

// WindowKey builds the rate-window store key for a user on one endpoint
// scope. Each endpoint gets its own window; the quota ledger deliberately
// uses the bare user key instead, since the free-trial ceiling is shared.
func WindowKey(scope, userID string) string {
	return scope + ":" + SanitizeKeySegment(userID)
}
