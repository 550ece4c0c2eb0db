package geocode

import (
	"math"
	"testing"

	"estatewatch/model"
)

func TestDistanceSamePointIsZero(t *testing.T) {
	points := []model.Coordinates{
		{Lat: 0, Lng: 0},
		{Lat: 30.4019, Lng: -97.7489},
		{Lat: -45.5, Lng: 170.2},
		{Lat: 90, Lng: 0},
	}
	for _, p := range points {
		if d := Distance(p, p); d != 0 {
			t.Errorf("Distance(%v, %v) = %v, want 0", p, p, d)
		}
	}
}

func TestDistanceSymmetry(t *testing.T) {
	a := model.Coordinates{Lat: 30.4019, Lng: -97.7489}
	b := model.Coordinates{Lat: 30.2672, Lng: -97.7431}
	if ab, ba := Distance(a, b), Distance(b, a); ab != ba {
		t.Errorf("Distance(a,b) = %v, Distance(b,a) = %v", ab, ba)
	}
}

func TestDistanceKnownValues(t *testing.T) {
	tests := []struct {
		name string
		a, b model.Coordinates
		want float64
	}{
		{
			name: "one degree latitude",
			a:    model.Coordinates{Lat: 0, Lng: 0},
			b:    model.Coordinates{Lat: 1, Lng: 0},
			want: 69.09,
		},
		{
			name: "north austin to downtown",
			a:    model.Coordinates{Lat: 30.4019, Lng: -97.7489},
			b:    model.Coordinates{Lat: 30.2672, Lng: -97.7431},
			want: 9.31,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Distance(tt.a, tt.b)
			if math.Abs(got-tt.want) > 0.1 {
				t.Errorf("Distance = %v, want about %v", got, tt.want)
			}
		})
	}
}
