package environment

import "strings"

// DefaultCitySlug is used when callers do not pick a city.
const DefaultCitySlug = "coimbatore"

var catalog = []Location{
	{Slug: "new-york", Name: "Global Hub: North America", City: "New York", Country: "USA", Lat: 40.7128, Lon: -74.0060, AQIBase: 45, Focus: "Urban Density"},
	{Slug: "london", Name: "Global Hub: Europe", City: "London", Country: "UK", Lat: 51.5074, Lon: -0.1278, AQIBase: 35, Focus: "Marine/Coastal"},
	{Slug: "tokyo", Name: "Global Hub: Asia East", City: "Tokyo", Country: "Japan", Lat: 35.6762, Lon: 139.6503, AQIBase: 30, Focus: "High-Tech Grid"},
	{Slug: "coimbatore", Name: "Global Hub: Asia South", City: "Coimbatore", Country: "India", Lat: 11.0168, Lon: 76.9558, AQIBase: 42, Focus: "Industrial"},
	{Slug: "singapore", Name: "Global Hub: SE Asia", City: "Singapore", Country: "Singapore", Lat: 1.3521, Lon: 103.8198, AQIBase: 55, Focus: "Smart City"},
	{Slug: "paris", Name: "Global Hub: EU West", City: "Paris", Country: "France", Lat: 48.8566, Lon: 2.3522, AQIBase: 40, Focus: "Cultural Heritage"},
	{Slug: "sydney", Name: "Global Hub: Oceania", City: "Sydney", Country: "Australia", Lat: -33.8688, Lon: 151.2093, AQIBase: 25, Focus: "Coastal Clean"},
}

// Locations returns a copy of the city catalog.
func Locations() []Location {
	out := make([]Location, len(catalog))
	copy(out, catalog)
	return out
}

// FindLocation resolves a slug or city name, ignoring case and surrounding spaces.
func FindLocation(key string) (Location, bool) {
	needle := strings.ToLower(strings.TrimSpace(key))
	if needle == "" {
		return Location{}, false
	}
	for _, loc := range catalog {
		if loc.Slug == needle || strings.ToLower(loc.City) == needle {
			return loc, true
		}
	}
	return Location{}, false
}
