package filter

import (
	"context"
	"sort"
	"strings"

	"estatewatch/geocode"
	"estatewatch/model"
)

type Resolver interface {
	Resolve(ctx context.Context, query string) (geocode.Result, bool, error)
}

// Selector accumulates scraped listings, deduplicates them by URL, computes
// each listing's distance from the reference point and keeps those within the
// threshold. Distance comes from embedded coordinates when the card carries
// them, then from the distance the site printed on the card, then from
// geocoding the address. A listing with no usable source is dropped rather
// than included with a guessed distance.
type Selector struct {
	reference model.Coordinates
	maxMiles  float64
	resolver  Resolver

	seen    map[string]struct{}
	kept    []model.SaleListing
	dropped int
	tooFar  int
}

func New(reference model.Coordinates, maxMiles float64, resolver Resolver) *Selector {
	return &Selector{
		reference: reference,
		maxMiles:  maxMiles,
		resolver:  resolver,
		seen:      map[string]struct{}{},
	}
}

func (s *Selector) Add(ctx context.Context, listing model.SaleListing) {
	if s == nil {
		return
	}
	if listing.URL == "" {
		s.dropped++
		return
	}
	if _, dup := s.seen[listing.URL]; dup {
		return
	}
	s.seen[listing.URL] = struct{}{}

	miles, ok := s.distance(ctx, listing)
	if !ok {
		s.dropped++
		return
	}
	if miles > s.maxMiles {
		s.tooFar++
		return
	}
	listing.DistanceMiles = &miles
	s.kept = append(s.kept, listing)
}

func (s *Selector) distance(ctx context.Context, listing model.SaleListing) (float64, bool) {
	if listing.Coords != nil {
		return geocode.Distance(s.reference, *listing.Coords), true
	}
	if listing.PostedDistance != nil {
		return *listing.PostedDistance, true
	}
	if s.resolver == nil || strings.TrimSpace(listing.Address) == "" {
		return 0, false
	}
	result, _, err := s.resolver.Resolve(ctx, listing.Address)
	if err != nil || !result.Found {
		return 0, false
	}
	return geocode.Distance(s.reference, model.Coordinates{Lat: result.Lat, Lng: result.Lng}), true
}

// Results returns the retained listings sorted ascending by distance. The
// sort is stable so listings at equal distance keep their encounter order.
func (s *Selector) Results() []model.SaleListing {
	if s == nil {
		return nil
	}
	out := append([]model.SaleListing(nil), s.kept...)
	sort.SliceStable(out, func(i, j int) bool {
		return *out[i].DistanceMiles < *out[j].DistanceMiles
	})
	return out
}

// Dropped counts listings discarded because no distance could be computed.
func (s *Selector) Dropped() int {
	if s == nil {
		return 0
	}
	return s.dropped
}

// TooFar counts listings excluded by the distance threshold.
func (s *Selector) TooFar() int {
	if s == nil {
		return 0
	}
	return s.tooFar
}
