package actions

import (
	"net/http"
	"net/url"

	"github.com/goliatone/go-router"
)

// IsSafeRedirect reports whether target, resolved against hostURL, stays on
// the same host over http(s). Anything else is a candidate open redirect.
func IsSafeRedirect(hostURL, target string) bool {
	if target == "" {
		return false
	}

	base, err := url.Parse(hostURL)
	if err != nil || base.Host == "" {
		return false
	}

	candidate, err := url.Parse(target)
	if err != nil {
		return false
	}

	resolved := base.ResolveReference(candidate)

	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return false
	}

	return resolved.Host == base.Host
}

// ResolveSafeTarget returns the first candidate that is non-empty and safe
// to redirect to, falling back when none qualify. Candidates are checked in
// order and the first safe match wins.
func ResolveSafeTarget(candidates []string, hostURL, fallback string) string {
	for _, target := range candidates {
		if target == "" {
			continue
		}
		if IsSafeRedirect(hostURL, target) {
			return target
		}
	}
	return fallback
}

// RedirectBack sends the client to the ?next= parameter or the Referer
// header, whichever is first safe, or to fallback.
func RedirectBack(ctx router.Context, hostURL, fallback string) error {
	candidates := []string{
		ctx.Query("next"),
		string(ctx.Referer()),
	}

	target := ResolveSafeTarget(candidates, hostURL, fallback)

	return ctx.Redirect(target, http.StatusFound)
}
