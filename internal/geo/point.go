package geo

import (
	"math"
	"strconv"
)

// Coordinate pairs are stored GeoJSON style: [lng, lat].

// DefaultPoint is used when no usable coordinates exist for a record.
func DefaultPoint() []float64 {
	return []float64{0, 0}
}

// ParseCoord coerces a raw latitude/longitude value (number or string) into a float64.
func ParseCoord(v interface{}) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, !math.IsNaN(val) && !math.IsInf(val, 0)
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case string:
		if val == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(val, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// Valid reports whether lat/lng fall inside the WGS84 ranges.
func Valid(lat, lng float64) bool {
	return lng >= -180 && lng <= 180 && lat >= -90 && lat <= 90
}

// ParsePair parses raw latitude/longitude into a [lng, lat] pair.
func ParsePair(latRaw, lngRaw interface{}) ([]float64, bool) {
	lat, okLat := ParseCoord(latRaw)
	lng, okLng := ParseCoord(lngRaw)
	if !okLat || !okLng || !Valid(lat, lng) {
		return nil, false
	}
	return []float64{lng, lat}, true
}

// Resolve applies the coordinate fallback policy: a valid incoming pair wins,
// otherwise the existing stored pair is kept, otherwise [0, 0]. Callers are not
// told when an invalid pair was dropped.
func Resolve(latRaw, lngRaw interface{}, existing []float64) []float64 {
	if pair, ok := ParsePair(latRaw, lngRaw); ok {
		return pair
	}
	if len(existing) == 2 {
		return existing
	}
	return DefaultPoint()
}
