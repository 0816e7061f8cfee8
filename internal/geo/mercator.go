// Package geo holds the coordinate conversions used by the map view.
package geo

import "math"

// earthRadiusM is the WGS84 semi-major axis, which Web Mercator (EPSG:3857)
// uses as a spherical radius.
const earthRadiusM = 6378137.0

// LatLonToWebMercator projects WGS84 degrees to Web Mercator meters.
// Out-of-range or NaN input returns (+Inf, +Inf), which callers treat as
// "no usable position".
func LatLonToWebMercator(latDeg, lonDeg float64) (x, y float64) {
	if math.IsNaN(latDeg) || math.IsNaN(lonDeg) ||
		latDeg < -90 || latDeg > 90 || lonDeg < -180 || lonDeg > 180 {
		return math.Inf(1), math.Inf(1)
	}
	x = earthRadiusM * lonDeg * math.Pi / 180
	y = earthRadiusM * math.Log(math.Tan(math.Pi/4+latDeg*math.Pi/360))
	return x, y
}
