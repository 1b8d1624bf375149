package rest

import (
	"net/http"
	"net/url"
	"strconv"
)

// page is a limit/offset result window.
type page[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

type window struct {
	limit  int
	offset int
}

// pageParams reads ?limit= and ?offset=. Missing or malformed values fall
// back to the configured page size and zero.
func (h *Handler) pageParams(r *http.Request) window {
	win := window{limit: h.pageSize}
	q := r.URL.Query()
	if v, err := strconv.Atoi(q.Get("limit")); err == nil && v > 0 {
		win.limit = v
	}
	if v, err := strconv.Atoi(q.Get("offset")); err == nil && v > 0 {
		win.offset = v
	}
	return win
}

func newPage[T any](r *http.Request, win window, total int, results []T) page[T] {
	p := page[T]{Count: total, Results: results}
	if p.Results == nil {
		p.Results = []T{}
	}

	if win.offset+win.limit < total {
		next := pageURL(r, win.limit, win.offset+win.limit)
		p.Next = &next
	}
	if win.offset > 0 {
		prev := win.offset - win.limit
		if prev < 0 {
			prev = 0
		}
		s := pageURL(r, win.limit, prev)
		p.Previous = &s
	}
	return p
}

func pageURL(r *http.Request, limit, offset int) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}

	q := r.URL.Query()
	q.Set("limit", strconv.Itoa(limit))
	if offset > 0 {
		q.Set("offset", strconv.Itoa(offset))
	} else {
		q.Del("offset")
	}

	u := url.URL{Scheme: scheme, Host: r.Host, Path: r.URL.Path, RawQuery: q.Encode()}
	return u.String()
}
