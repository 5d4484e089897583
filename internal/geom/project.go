package geom

import "math"

const (
	// EarthRadius is the WGS84 semi-major axis used by Web Mercator, in metres.
	EarthRadius = 6378137.0
	// MaxMercatorLat is the latitude at which Web Mercator becomes square.
	MaxMercatorLat = 85.05112878
	// MercatorHalfWorld is half the projected world width in metres.
	MercatorHalfWorld = math.Pi * EarthRadius
)

// ToMercator projects a WGS84 lon/lat pair into EPSG:3857 metres.
func ToMercator(lon, lat float64) (x, y float64) {
	if lat > MaxMercatorLat {
		lat = MaxMercatorLat
	}
	if lat < -MaxMercatorLat {
		lat = -MaxMercatorLat
	}
	x = EarthRadius * lon * math.Pi / 180
	y = EarthRadius * math.Log(math.Tan(math.Pi/4+lat*math.Pi/360))
	return x, y
}

// FromMercator is the inverse of ToMercator.
func FromMercator(x, y float64) (lon, lat float64) {
	lon = x / EarthRadius * 180 / math.Pi
	lat = (2*math.Atan(math.Exp(y/EarthRadius)) - math.Pi/2) * 180 / math.Pi
	return lon, lat
}

// ProjectLine returns a projected copy of a lon/lat line.
func ProjectLine(ls Line) Line {
	out := make(Line, len(ls))
	for i, p := range ls {
		x, y := ToMercator(p[0], p[1])
		out[i] = [2]float64{x, y}
	}
	return out
}
