package geocode

import (
	"context"
	"strings"
)

type Result struct {
	Lat   float64
	Lng   float64
	Found bool
}

type Geocoder interface {
	Geocode(ctx context.Context, query string) (Result, error)
}

// Resolver memoizes geocoder lookups for the lifetime of a run. The same
// address string appearing on multiple listings costs one upstream call.
type Resolver struct {
	geocoder Geocoder
	cache    *Cache
}

func NewResolver(geocoder Geocoder) *Resolver {
	return &Resolver{
		geocoder: geocoder,
		cache:    NewCache(),
	}
}

func (r *Resolver) Resolve(ctx context.Context, query string) (Result, bool, error) {
	if r == nil || r.geocoder == nil {
		return Result{Found: false}, false, nil
	}
	if strings.TrimSpace(query) == "" {
		return Result{Found: false}, false, nil
	}
	if result, ok := r.cache.Get(query); ok {
		return result, true, nil
	}
	result, err := r.geocoder.Geocode(ctx, query)
	if err != nil {
		return Result{}, false, err
	}
	r.cache.Set(query, result)
	return result, false, nil
}

// Lookups reports how many distinct queries have been resolved this run.
func (r *Resolver) Lookups() int {
	if r == nil {
		return 0
	}
	return r.cache.Len()
}
