package request

import (
	"fmt"
	"net/http"
	"slices"
	"strings"
)

// Header is the single header container the pipeline writes to. MapHeader and
// HTTPHeader adapt the two shapes callers hand in.
type Header interface {
	Get(key string) string
	Set(key, value string)
	Del(key string)
	Values(key string) []string
	Keys() []string
}

// MapHeader adapts a plain string map. Lookups are case-insensitive and Set
// stores keys in canonical form.
type MapHeader map[string]string

func (h MapHeader) lookup(key string) (string, bool) {
	if _, ok := h[key]; ok {
		return key, true
	}
	canonical := http.CanonicalHeaderKey(key)
	if _, ok := h[canonical]; ok {
		return canonical, true
	}
	for k := range h {
		if strings.EqualFold(k, key) {
			return k, true
		}
	}
	return "", false
}

func (h MapHeader) Get(key string) string {
	if k, ok := h.lookup(key); ok {
		return h[k]
	}
	return ""
}

func (h MapHeader) Set(key, value string) {
	h.Del(key)
	h[http.CanonicalHeaderKey(key)] = value
}

func (h MapHeader) Del(key string) {
	for k, ok := h.lookup(key); ok; k, ok = h.lookup(key) {
		delete(h, k)
	}
}

func (h MapHeader) Values(key string) []string {
	if k, ok := h.lookup(key); ok {
		return []string{h[k]}
	}
	return nil
}

func (h MapHeader) Keys() []string {
	keys := make([]string, 0, len(h))
	for k := range h {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// HTTPHeader adapts net/http's accessor-style header.
type HTTPHeader http.Header

func (h HTTPHeader) Get(key string) string { return http.Header(h).Get(key) }

func (h HTTPHeader) Set(key, value string) { http.Header(h).Set(key, value) }

func (h HTTPHeader) Del(key string) { http.Header(h).Del(key) }

func (h HTTPHeader) Values(key string) []string { return http.Header(h).Values(key) }

func (h HTTPHeader) Keys() []string {
	keys := make([]string, 0, len(h))
	for k := range h {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// copyHeader merges src into dst. src is read in full before dst is touched,
// so a container that panics midway contributes nothing.
func copyHeader(dst http.Header, src Header) (err error) {
	staged := http.Header{}
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%w: %v", ErrHeaderInjection, rec)
		}
	}()
	for _, key := range src.Keys() {
		for _, value := range src.Values(key) {
			staged.Add(key, value)
		}
	}
	for key, values := range staged {
		dst[key] = values
	}
	return nil
}
