package assetcache

import (
	"errors"
	"io"
	"net/http"
	"net/url"
)

// hop-by-hop headers are not forwarded in either direction.
var hopHeaders = []string{
	"Connection",
	"Keep-Alive",
	"Proxy-Authenticate",
	"Proxy-Authorization",
	"Te",
	"Trailer",
	"Transfer-Encoding",
	"Upgrade",
}

func stripHop(h http.Header) {
	for _, k := range hopHeaders {
		h.Del(k)
	}
}

// Handler proxies incoming requests to origin through the controller. It
// answers 504 when a GET has nothing to serve and 502 when a pass-through
// request fails.
func (c *Controller) Handler(origin *url.URL) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		target := origin.ResolveReference(&url.URL{Path: r.URL.Path, RawQuery: r.URL.RawQuery})

		out := r.Clone(r.Context())
		out.URL = target
		out.Host = target.Host
		out.RequestURI = ""
		stripHop(out.Header)

		resp, err := c.RoundTrip(out)
		if err != nil {
			status := http.StatusBadGateway
			if errors.Is(err, ErrNoResponse) {
				status = http.StatusGatewayTimeout
			}
			c.log.Debug(r.Context(), "proxy request failed", "url", target.String(), "error", err)
			http.Error(w, http.StatusText(status), status)
			return
		}
		defer resp.Body.Close()

		stripHop(resp.Header)
		for k, vv := range resp.Header {
			for _, v := range vv {
				w.Header().Add(k, v)
			}
		}
		w.WriteHeader(resp.StatusCode)
		_, _ = io.Copy(w, resp.Body)
	})
}
