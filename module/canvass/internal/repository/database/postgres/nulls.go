package postgres

import (
	"database/sql"

	"github.com/nandanugg/canvass/sdk/geo"
)

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullGeofence(res *geo.GeofenceResult) (sql.NullBool, sql.NullFloat64) {
	if res == nil {
		return sql.NullBool{}, sql.NullFloat64{}
	}
	return sql.NullBool{Bool: res.IsWithinGeofence, Valid: true},
		sql.NullFloat64{Float64: res.DistanceMeters, Valid: true}
}

func scanGeofence(within sql.NullBool, distance sql.NullFloat64) *geo.GeofenceResult {
	if !within.Valid {
		return nil
	}
	return &geo.GeofenceResult{IsWithinGeofence: within.Bool, DistanceMeters: distance.Float64}
}

func nullCoordinates(c *geo.Coordinates) (sql.NullFloat64, sql.NullFloat64) {
	if c == nil {
		return sql.NullFloat64{}, sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: c.Latitude, Valid: true},
		sql.NullFloat64{Float64: c.Longitude, Valid: true}
}
