package filehost

import (
	"context"
	"io"
)

// Host is a hosted file service that serves uploaded images by public URL.
//
// DeleteFiles must treat keys that no longer exist as deleted, so a delete
// can be retried safely. It returns the keys it could not remove together
// with the combined error.
type Host interface {
	Upload(ctx context.Context, name, contentType string, r io.Reader) (string, error)
	DeleteFiles(ctx context.Context, keys []string) (failed []string, err error)
	// KeyFromURL derives the key DeleteFiles expects from a URL returned by
	// Upload. ok is false when the URL does not belong to this host.
	KeyFromURL(rawURL string) (key string, ok bool)
}

// Keys maps urls to host keys, silently skipping URLs that yield none.
func Keys(h Host, urls []string) []string {
	keys := make([]string, 0, len(urls))
	seen := make(map[string]struct{}, len(urls))
	for _, u := range urls {
		k, ok := h.KeyFromURL(u)
		if !ok {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}
	return keys
}
