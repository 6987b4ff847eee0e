package middlewares

import (
	"net/http"
	"net/url"
	"strings"
)

// HPPOptions guards against HTTP parameter pollution: duplicated keys keep
// their first value and keys outside Whitelist are dropped.
type HPPOptions struct {
	CheckQuery                  bool
	CheckBody                   bool
	CheckBodyOnlyForContentType string
	Whitelist                   []string
}

func HPP(opts HPPOptions) func(http.Handler) http.Handler {
	allow := make(map[string]struct{}, len(opts.Whitelist))
	for _, k := range opts.Whitelist {
		allow[k] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if opts.CheckBody && r.Method == http.MethodPost && isCorrectContentType(r, opts.CheckBodyOnlyForContentType) {
				if err := r.ParseForm(); err == nil {
					filterParams(r.Form, allow)
				}
			}
			if opts.CheckQuery && r.URL.RawQuery != "" {
				query := r.URL.Query()
				filterParams(query, allow)
				r.URL.RawQuery = query.Encode()
			}
			next.ServeHTTP(w, r)
		})
	}
}

func isCorrectContentType(r *http.Request, contentType string) bool {
	return strings.Contains(r.Header.Get("Content-Type"), contentType)
}

func filterParams(v url.Values, allow map[string]struct{}) {
	for k, vals := range v {
		if _, ok := allow[k]; !ok {
			delete(v, k)
			continue
		}
		if len(vals) > 1 {
			v.Set(k, vals[0])
		}
	}
}

func DefaultHPPOptions() HPPOptions {
	return HPPOptions{
		CheckQuery:                  true,
		CheckBody:                   true,
		CheckBodyOnlyForContentType: "application/x-www-form-urlencoded",
		Whitelist: []string{
			"length", "classes", "exclude_similar", "count", "analyze",
		},
	}
}
