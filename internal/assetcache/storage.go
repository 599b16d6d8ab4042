package assetcache

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strconv"
	"time"
)

// Response is a stored copy of an HTTP response.
type Response struct {
	Status   int
	Header   http.Header
	Body     []byte
	StoredAt time.Time
}

// HTTP builds a fresh *http.Response for req. Every call gets its own body
// reader.
func (r *Response) HTTP(req *http.Request) *http.Response {
	h := r.Header.Clone()
	if h == nil {
		h = http.Header{}
	}
	h.Set("Content-Length", strconv.Itoa(len(r.Body)))

	return &http.Response{
		Status:        strconv.Itoa(r.Status) + " " + http.StatusText(r.Status),
		StatusCode:    r.Status,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        h,
		Body:          io.NopCloser(bytes.NewReader(r.Body)),
		ContentLength: int64(len(r.Body)),
		Request:       req,
	}
}

// Cache is one generation of stored responses keyed by request URL.
type Cache interface {
	Put(ctx context.Context, req *http.Request, resp *Response) error
	// Match returns (nil, nil) when nothing is stored for req.
	Match(ctx context.Context, req *http.Request) (*Response, error)
}

// CacheStorage holds named cache generations.
type CacheStorage interface {
	// Open returns the generation called name, creating it if absent.
	Open(ctx context.Context, name string) (Cache, error)
	// Keys lists generation names in creation order.
	Keys(ctx context.Context) ([]string, error)
	// Delete removes a generation and reports whether it existed.
	Delete(ctx context.Context, name string) (bool, error)
}

// requestKey identifies a request inside a generation. Fragments never
// reach the server and are ignored.
func requestKey(req *http.Request) string {
	u := *req.URL
	u.Fragment = ""
	u.RawFragment = ""
	return u.String()
}
