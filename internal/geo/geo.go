// Package geo holds the geolocation collaborators: a coordinates provider,
// a reverse geocoder and the distance math backing nearby search. All of it
// is best-effort; callers treat failures as non-fatal.
package geo

import "math"

const earthRadiusKm = 6371

// Coordinates is a latitude/longitude pair in degrees.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Locator provides the device's current coordinates. Implementations may
// fail with permission-denied, unavailable or timeout errors.
type Locator interface {
	CurrentLocation() (Coordinates, error)
}

// ReverseGeocoder translates coordinates into a human-readable place name.
type ReverseGeocoder interface {
	LocationName(lat, lng float64) (string, error)
}

func degToRad(d float64) float64 {
	return d * (math.Pi / 180)
}

// Distance returns the great-circle distance between two points in
// kilometers.
func Distance(a, b Coordinates) float64 {
	dLat := degToRad(b.Latitude - a.Latitude)
	dLon := degToRad(b.Longitude - a.Longitude)

	lat1Rad := degToRad(a.Latitude)
	lat2Rad := degToRad(b.Latitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusKm * c
}
