// Package credentials resolves which lakehouse credential a tool call
// uses. Resolution is a pure function of the server's --profile flag
// (fixed for the process lifetime) and the per-call Bauplan header
// value, evaluated fresh on every call.
package credentials

import (
	"strings"

	"github.com/bauplanlabs/mcp-bauplan/pkg/bauplan"
)

// HeaderName is the HTTP header carrying a per-call API key override.
const HeaderName = "Bauplan"

// Resolve picks the credential source for one tool call.
//
// Precedence:
//  1. a non-empty header value becomes the API key override and the
//     server profile is ignored for this call;
//  2. otherwise the server profile, when set, names the profile;
//  3. otherwise both fields stay unset and the client falls back to the
//     host default profile.
//
// Resolution never fails. A missing or invalid credential surfaces
// later as the lakehouse client's own authentication error.
func Resolve(serverProfile, headerValue string) bauplan.Config {
	if key := NormalizeHeader(headerValue); key != "" {
		return bauplan.Config{APIKey: key}
	}
	if serverProfile != "" {
		return bauplan.Config{Profile: serverProfile}
	}
	return bauplan.Config{}
}

// NormalizeHeader strips an optional "Bearer " prefix and surrounding
// whitespace from a Bauplan header value.
func NormalizeHeader(value string) string {
	value = strings.TrimSpace(value)
	if strings.EqualFold(value, "bearer") {
		// A scheme with no token carries no credential.
		return ""
	}
	if len(value) >= 7 && strings.EqualFold(value[:7], "bearer ") {
		value = strings.TrimSpace(value[7:])
	}
	return value
}
