// Package navigation holds the sidebar entries and safe redirect helpers.
package navigation

import (
	"net/http"
	"strings"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/urlutil"
)

// Item is one sidebar link.
type Item struct {
	Label   string
	Path    string
	Icon    string
	Current bool
}

// Sidebar entries in display order.
var entries = []Item{
	{Label: "Dashboard", Path: "/dashboard", Icon: "layout-dashboard"},
	{Label: "Analytics", Path: "/analytics", Icon: "bar-chart-3"},
	{Label: "Geographic", Path: "/geographic", Icon: "map-pin"},
	{Label: "Usage", Path: "/usage", Icon: "activity"},
	{Label: "Documents", Path: "/documents", Icon: "file-text"},
	{Label: "Customer Success", Path: "/customer-success", Icon: "users"},
}

// Items returns the sidebar with the entry for currentPath marked.
// Sub-paths mark their parent entry.
func Items(currentPath string) []Item {
	out := make([]Item, len(entries))
	copy(out, entries)
	for i := range out {
		p := out[i].Path
		out[i].Current = currentPath == p || strings.HasPrefix(currentPath, p+"/")
	}
	return out
}

// BackURLOptions configures SafeBackURL.
type BackURLOptions struct {
	// AllowedPrefix is the required prefix. Empty allows any local path.
	AllowedPrefix string
	// ExcludedSubpaths are rejected to avoid redirect loops.
	ExcludedSubpaths []string
	Fallback         string
}

// SafeBackURL reads "return" from the query or form and returns it if
// it is a local path that passes opts. Otherwise opts.Fallback.
func SafeBackURL(r *http.Request, opts BackURLOptions) string {
	ret := urlutil.SafeReturn(query.Get(r, "return"), "", "")
	if ret == "" {
		ret = urlutil.SafeReturn(strings.TrimSpace(r.FormValue("return")), "", "")
	}
	if !strings.HasPrefix(ret, "/") || strings.HasPrefix(ret, "//") || strings.HasPrefix(ret, "/\\") {
		return opts.Fallback
	}
	if opts.AllowedPrefix != "" && !strings.HasPrefix(ret, opts.AllowedPrefix) {
		return opts.Fallback
	}
	for _, excluded := range opts.ExcludedSubpaths {
		if strings.Contains(ret, excluded) {
			return opts.Fallback
		}
	}
	return ret
}

// LoginReturn is used after sign-in; it never sends the user back to
// the login or logout pages.
var LoginReturn = BackURLOptions{
	ExcludedSubpaths: []string{"/login", "/logout"},
	Fallback:         "/dashboard",
}
