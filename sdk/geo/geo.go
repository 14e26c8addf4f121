// Package geo computes great-circle distances and evaluates circular
// geofences around registered customer and branch locations.
package geo

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"

	"github.com/nandanugg/canvass/sdk/numeric"
)

// EarthRadiusMeters is the mean Earth radius used by Distance.
const EarthRadiusMeters = 6371000

// distancePlaces is the precision GeofenceResult.DistanceMeters is reported at.
const distancePlaces = 2

var (
	ErrNotFinite           = errors.New("coordinates must be finite")
	ErrLatitudeOutOfRange  = errors.New("latitude must be between -90 and 90")
	ErrLongitudeOutOfRange = errors.New("longitude must be between -180 and 180")
)

type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// GeofenceTarget is a registered location plus the radius within which a
// reported position is accepted as being at that location.
type GeofenceTarget struct {
	Coordinates
	GeofenceMeters float64 `json:"geofence_meters"`
}

type GeofenceResult struct {
	IsWithinGeofence bool    `json:"is_within_geofence"`
	DistanceMeters   float64 `json:"distance_meters"`
}

// Validate reports whether c is a finite position on the WGS 84 range.
// Distance and CheckGeofence do not call it.
func (c Coordinates) Validate() error {
	if math.IsNaN(c.Latitude) || math.IsNaN(c.Longitude) ||
		math.IsInf(c.Latitude, 0) || math.IsInf(c.Longitude, 0) {
		return ErrNotFinite
	}
	if c.Latitude < -90 || c.Latitude > 90 {
		return ErrLatitudeOutOfRange
	}
	if c.Longitude < -180 || c.Longitude > 180 {
		return ErrLongitudeOutOfRange
	}
	return nil
}

func (c Coordinates) String() string {
	return FormatCoordinates(c)
}

// Distance returns the haversine distance in meters between from and to.
func Distance(from, to Coordinates) float64 {
	lat1 := toRad(from.Latitude)
	lat2 := toRad(to.Latitude)
	dLat := toRad(to.Latitude - from.Latitude)
	dLon := toRad(to.Longitude - from.Longitude)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusMeters * c
}

// CheckGeofence measures how far user is from target. The distance is
// rounded to centimeters before it is compared with the radius, so a raw
// 50.004 m is inside a 50 m fence and a raw 50.006 m is not.
func CheckGeofence(user Coordinates, target GeofenceTarget) GeofenceResult {
	return evaluate(Distance(user, target.Coordinates), target.GeofenceMeters)
}

func evaluate(distanceMeters, geofenceMeters float64) GeofenceResult {
	rounded := numeric.RoundFloat(distanceMeters, distancePlaces)
	return GeofenceResult{
		IsWithinGeofence: rounded <= geofenceMeters,
		DistanceMeters:   rounded,
	}
}

// FormatCoordinates renders c with 6 decimals (about 11 cm), e.g.
// "-6.208812, 106.845679".
func FormatCoordinates(c Coordinates) string {
	return fmt.Sprintf("%.6f, %.6f", c.Latitude, c.Longitude)
}

var coordinatesPattern = regexp.MustCompile(`(-?\d+\.?\d*),\s*(-?\d+\.?\d*)`)

// ParseCoordinates extracts the first "<lat>, <lon>" pair in s, so
// "Location: -6.2, 106.8" and "(-6.2, 106.8)" both parse. The space after
// the comma is optional. The result is not range checked; call Validate.
func ParseCoordinates(s string) (Coordinates, bool) {
	m := coordinatesPattern.FindStringSubmatch(s)
	if m == nil {
		return Coordinates{}, false
	}

	lat, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return Coordinates{}, false
	}
	lon, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return Coordinates{}, false
	}
	return Coordinates{Latitude: lat, Longitude: lon}, true
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
