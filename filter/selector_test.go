package filter

import (
	"context"
	"errors"
	"testing"

	"estatewatch/geocode"
	"estatewatch/model"
)

// Austin reference point used across the tests.
var reference = model.Coordinates{Lat: 30.4019, Lng: -97.7489}

type stubResolver struct {
	results map[string]geocode.Result
	err     error
	calls   int
}

func (r *stubResolver) Resolve(_ context.Context, query string) (geocode.Result, bool, error) {
	r.calls++
	if r.err != nil {
		return geocode.Result{}, false, r.err
	}
	return r.results[query], false, nil
}

func coordsAt(miles float64) *model.Coordinates {
	// One degree of latitude is about 69.09 miles.
	return &model.Coordinates{Lat: reference.Lat + miles/69.09, Lng: reference.Lng}
}

func TestSelectorInclusiveThreshold(t *testing.T) {
	s := New(reference, 15, nil)
	ctx := context.Background()

	near := model.SaleListing{URL: "https://example.com/near", PostedDistance: ptr(5)}
	edge := model.SaleListing{URL: "https://example.com/edge", PostedDistance: ptr(15)}
	far := model.SaleListing{URL: "https://example.com/far", PostedDistance: ptr(15.1)}
	s.Add(ctx, near)
	s.Add(ctx, edge)
	s.Add(ctx, far)

	results := s.Results()
	if len(results) != 2 {
		t.Fatalf("len(results) = %d, want 2", len(results))
	}
	if results[1].URL != edge.URL {
		t.Errorf("listing at exactly the threshold must be kept, got %q", results[1].URL)
	}
	if s.TooFar() != 1 {
		t.Errorf("TooFar = %d, want 1", s.TooFar())
	}
}

func TestSelectorDeduplicatesByURL(t *testing.T) {
	s := New(reference, 15, nil)
	ctx := context.Background()

	s.Add(ctx, model.SaleListing{URL: "https://example.com/sale", Title: "First", PostedDistance: ptr(3)})
	s.Add(ctx, model.SaleListing{URL: "https://example.com/sale", Title: "Second", PostedDistance: ptr(1)})

	results := s.Results()
	if len(results) != 1 {
		t.Fatalf("len(results) = %d, want 1", len(results))
	}
	if results[0].Title != "First" {
		t.Errorf("first occurrence should win, got %q", results[0].Title)
	}
}

func TestSelectorSortsByDistanceStable(t *testing.T) {
	s := New(reference, 50, nil)
	ctx := context.Background()

	s.Add(ctx, model.SaleListing{URL: "u1", Title: "ten-a", PostedDistance: ptr(10)})
	s.Add(ctx, model.SaleListing{URL: "u2", Title: "two", PostedDistance: ptr(2)})
	s.Add(ctx, model.SaleListing{URL: "u3", Title: "ten-b", PostedDistance: ptr(10)})

	results := s.Results()
	titles := []string{results[0].Title, results[1].Title, results[2].Title}
	want := []string{"two", "ten-a", "ten-b"}
	for i := range want {
		if titles[i] != want[i] {
			t.Fatalf("order = %v, want %v", titles, want)
		}
	}
}

func TestSelectorUsesCoordsOverGeocoding(t *testing.T) {
	resolver := &stubResolver{}
	s := New(reference, 15, resolver)

	s.Add(context.Background(), model.SaleListing{
		URL:     "https://example.com/sale",
		Address: "1200 Oak Knoll Dr",
		Coords:  coordsAt(5),
	})

	results := s.Results()
	if len(results) != 1 {
		t.Fatalf("len(results) = %d, want 1", len(results))
	}
	if resolver.calls != 0 {
		t.Errorf("resolver called %d times, want 0", resolver.calls)
	}
	got := *results[0].DistanceMiles
	if got < 4.9 || got > 5.1 {
		t.Errorf("distance = %v, want ~5", got)
	}
}

func TestSelectorGeocodesAddress(t *testing.T) {
	near := coordsAt(3)
	resolver := &stubResolver{results: map[string]geocode.Result{
		"500 Elm St, Round Rock, TX": {Lat: near.Lat, Lng: near.Lng, Found: true},
	}}
	s := New(reference, 15, resolver)

	s.Add(context.Background(), model.SaleListing{
		URL:     "https://example.com/sale",
		Address: "500 Elm St, Round Rock, TX",
	})

	if len(s.Results()) != 1 {
		t.Fatalf("geocoded listing not kept")
	}
	if resolver.calls != 1 {
		t.Errorf("resolver calls = %d, want 1", resolver.calls)
	}
}

func TestSelectorDropsUnlocatable(t *testing.T) {
	resolver := &stubResolver{err: errors.New("geocoder down")}
	s := New(reference, 15, resolver)
	ctx := context.Background()

	s.Add(ctx, model.SaleListing{URL: "u1", Address: "somewhere"})
	s.Add(ctx, model.SaleListing{URL: "u2"})
	s.Add(ctx, model.SaleListing{URL: ""})

	if len(s.Results()) != 0 {
		t.Errorf("len(results) = %d, want 0", len(s.Results()))
	}
	if s.Dropped() != 3 {
		t.Errorf("Dropped = %d, want 3", s.Dropped())
	}
}

func ptr(f float64) *float64 { return &f }
