package geo

import (
	"math"
	"testing"
)

func TestLatLonToWebMercator(t *testing.T) {
	cases := []struct {
		lat, lon float64
		x, y     float64
	}{
		{50, -50, -5565974.539663678, 6446275.841017158},
		{-35.5, 150.25, 16725753.491689354, -4232038.462398871},
		{0, 0, 0, 0},
	}
	for _, c := range cases {
		x, y := LatLonToWebMercator(c.lat, c.lon)
		if math.Abs(x-c.x) > 1e-6 || math.Abs(y-c.y) > 1e-6 {
			t.Errorf("LatLonToWebMercator(%v, %v) = (%v, %v), want (%v, %v)", c.lat, c.lon, x, y, c.x, c.y)
		}
	}
}

func TestLatLonToWebMercatorInvalid(t *testing.T) {
	cases := []struct{ lat, lon float64 }{
		{91, 0},
		{-90.0001, 0},
		{0, 181},
		{0, -180.5},
		{math.NaN(), 10},
		{10, math.NaN()},
	}
	for _, c := range cases {
		x, y := LatLonToWebMercator(c.lat, c.lon)
		if !math.IsInf(x, 1) || !math.IsInf(y, 1) {
			t.Errorf("LatLonToWebMercator(%v, %v) = (%v, %v), want (+Inf, +Inf)", c.lat, c.lon, x, y)
		}
	}
}
