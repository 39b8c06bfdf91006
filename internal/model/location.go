package model

// UserLocation is a resolved point for one session. Coordinates are
// always present once resolution succeeds; country and city are an
// optional refinement that may be missing when reverse geocoding fails.
// It is never persisted, only consumed by the matching step.
type UserLocation struct {
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Country     string  `json:"country,omitempty"`
	CountryCode string  `json:"country_code,omitempty"`
	City        string  `json:"city,omitempty"`
	AccuracyM   float64 `json:"accuracy_m,omitempty"`
}

// ValidCoordinate reports whether lat/lon fall in the WGS84 ranges.
func ValidCoordinate(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}
