// Package assetcache keeps the web app's shell and static assets available
// when the origin cannot be reached.
//
// A Controller owns one cache generation named by its version tag. Install
// pre-populates the generation with the shell assets, and Activate removes
// every other generation and switches requests over to it. Until then the
// previous generation stays in effect. RoundTrip serves GET requests stale-while-revalidate:
// a cached copy is returned at once while a live fetch refreshes it, and a
// miss waits for the live fetch. Non-GET requests bypass the cache entirely.
package assetcache
