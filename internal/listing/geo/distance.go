// Package geo provides great-circle distance over WGS 84 coordinates.
package geo

import (
	"math"

	"github.com/staybooking/listing-service/internal/listing/domain"
)

// EarthRadiusKm is the mean Earth radius used by the haversine formula.
const EarthRadiusKm = 6371.0

// DistanceKm returns the great-circle distance between two points in
// kilometers using the haversine formula. Coordinates are global lat/lon, so
// a planar approximation is not acceptable here.
func DistanceKm(p1, p2 domain.GeoPoint) float64 {
	lat1 := p1.Lat * math.Pi / 180.0
	lon1 := p1.Lon * math.Pi / 180.0
	lat2 := p2.Lat * math.Pi / 180.0
	lon2 := p2.Lon * math.Pi / 180.0

	dLat := lat2 - lat1
	dLon := lon2 - lon1
	a := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKm * c
}
