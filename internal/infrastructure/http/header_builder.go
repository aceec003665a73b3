// Package httpinfra holds the HTTP transport shared by gdm's network clients.
package httpinfra

import (
	"runtime/debug"
)

// MergeHeaders returns base overlaid with extra. Neither map is modified.
func MergeHeaders(base map[string]string, extra map[string]string) map[string]string {
	out := map[string]string{}
	for k, v := range base {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}

// UserAgent identifies gdm and its module version, "gdm/(devel)" for local builds.
func UserAgent() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return "gdm/" + info.Main.Version
	}
	return "gdm"
}

// DefaultHeaders are sent with every request.
func DefaultHeaders() map[string]string {
	return map[string]string{"User-Agent": UserAgent()}
}
