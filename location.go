package deck

import (
	"fmt"
	"net/url"
	"strings"
)

// Place is one entry of the static location reference table, or a
// fallback wrapping a location string no table entry matches.
type Place struct {
	City      string  `json:"city"`
	State     string  `json:"state,omitempty"`
	Latitude  float64 `json:"latitude,omitempty"`
	Longitude float64 `json:"longitude,omitempty"`
}

func (p Place) HasCoordinates() bool {
	return p.Latitude != 0 || p.Longitude != 0
}

func (p Place) DisplayName() string {
	if p.State != "" {
		return p.City + ", " + p.State
	}
	return p.City
}

// EmbedURL builds the external map embed address. Known coordinates
// center the map directly, everything else becomes a textual place query.
func (p Place) EmbedURL(apiKey string) string {
	if p.HasCoordinates() {
		return fmt.Sprintf(
			"https://www.google.com/maps/embed/v1/view?key=%s&center=%v,%v&zoom=14&maptype=roadmap",
			url.QueryEscape(apiKey), p.Latitude, p.Longitude)
	}
	return fmt.Sprintf(
		"https://www.google.com/maps/embed/v1/place?key=%s&q=%s&maptype=roadmap",
		url.QueryEscape(apiKey), url.QueryEscape(p.DisplayName()))
}

// SearchURL is the public maps link offered next to the embedded view.
func (p Place) SearchURL() string {
	return "https://www.google.com/maps/search/?api=1&query=" + url.QueryEscape(p.DisplayName())
}

// Locations is the static city reference table used to resolve free-text
// profile locations to coordinates. Read-only, no duplicate city names.
var Locations = []Place{
	{City: "Mumbai", State: "Maharashtra", Latitude: 19.0760, Longitude: 72.8777},
	{City: "Delhi", State: "Delhi", Latitude: 28.7041, Longitude: 77.1025},
	{City: "Bangalore", State: "Karnataka", Latitude: 12.9716, Longitude: 77.5946},
	{City: "Hyderabad", State: "Telangana", Latitude: 17.3850, Longitude: 78.4867},
	{City: "Ahmedabad", State: "Gujarat", Latitude: 23.0225, Longitude: 72.5714},
	{City: "Kolkata", State: "West Bengal", Latitude: 22.5726, Longitude: 88.3639},
	{City: "Chennai", State: "Tamil Nadu", Latitude: 13.0827, Longitude: 80.2707},
	{City: "Pune", State: "Maharashtra", Latitude: 18.5204, Longitude: 73.8567},
	{City: "Jaipur", State: "Rajasthan", Latitude: 26.9124, Longitude: 75.7873},
	{City: "Lucknow", State: "Uttar Pradesh", Latitude: 26.8467, Longitude: 80.9462},
	{City: "Chandigarh", State: "Chandigarh", Latitude: 30.7333, Longitude: 76.7794},
	{City: "Bhopal", State: "Madhya Pradesh", Latitude: 23.2599, Longitude: 77.4126},
	{City: "Indore", State: "Madhya Pradesh", Latitude: 22.7196, Longitude: 75.8577},
	{City: "Patna", State: "Bihar", Latitude: 25.5941, Longitude: 85.1376},
	{City: "Bhubaneswar", State: "Odisha", Latitude: 20.2961, Longitude: 85.8245},
	{City: "Dehradun", State: "Uttarakhand", Latitude: 30.3165, Longitude: 78.0322},
	{City: "Guwahati", State: "Assam", Latitude: 26.1445, Longitude: 91.7362},
	{City: "Kochi", State: "Kerala", Latitude: 9.9312, Longitude: 76.2673},
	{City: "Visakhapatnam", State: "Andhra Pradesh", Latitude: 17.6868, Longitude: 83.2185},
	{City: "Nagpur", State: "Maharashtra", Latitude: 21.1458, Longitude: 79.0882},
}

// ResolveLocation matches the first comma-segment of a location string
// against the reference table, case-insensitive, first match wins. An
// unknown city resolves to a fallback place carrying only the original
// string, rendered as a textual location without coordinates.
func ResolveLocation(location string) Place {
	city := strings.TrimSpace(strings.SplitN(location, ",", 2)[0])
	for _, place := range Locations {
		if strings.EqualFold(place.City, city) {
			return place
		}
	}
	return Place{City: location}
}
