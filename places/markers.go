package places

import "sameshi/models"

// MarkerTypeFacility marks the sauna itself on the map.
const MarkerTypeFacility = "sauna"

var (
	facilityColor = [3]int{0, 128, 255}
	placeColor    = [3]int{255, 0, 80}

	keywordIcons = map[string]string{
		MarkerTypeFacility: "pin_sauna",
		"カレー":              "pin_curry",
		"ラーメン":             "pin_ramen",
		"牛丼":               "pin_gyudon",
		"ハンバーガー":           "pin_burger",
	}

	keywordEmoji = map[string]string{
		"ラーメン":   "🍜",
		"カレー":    "🍛",
		"牛丼":     "🥩",
		"ハンバーガー": "🍔",
	}
)

const (
	defaultIcon  = "pin_default"
	defaultEmoji = "🍽️"
)

// Marker is one pin on the facility map.
type Marker struct {
	Name        string             `json:"name"`
	Type        string             `json:"type"`
	Rating      float64            `json:"rating"`
	Coordinates models.Coordinates `json:"coordinates"`
	Color       [3]int             `json:"color"`
	Icon        string             `json:"icon"`
}

// MapView is what the map widget needs: a centre, a zoom and the pins.
type MapView struct {
	Center  models.Coordinates `json:"center"`
	Zoom    int                `json:"zoom"`
	Markers []Marker           `json:"markers"`
}

// Markers builds the map for a facility: the facility pin first, then one
// pin per nearby place.
func Markers(facilityName string, origin models.Coordinates, nearby []models.NearbyPlace) MapView {
	markers := make([]Marker, 0, len(nearby)+1)
	markers = append(markers, Marker{
		Name:        facilityName,
		Type:        MarkerTypeFacility,
		Coordinates: origin,
		Color:       facilityColor,
		Icon:        IconFor(MarkerTypeFacility),
	})
	for _, p := range nearby {
		markers = append(markers, Marker{
			Name:        p.Name,
			Type:        p.Keyword,
			Rating:      p.Rating,
			Coordinates: p.Coordinates,
			Color:       placeColor,
			Icon:        IconFor(p.Keyword),
		})
	}
	return MapView{Center: origin, Zoom: 16, Markers: markers}
}

// IconFor returns the pin icon key for a marker type.
func IconFor(markerType string) string {
	if icon, ok := keywordIcons[markerType]; ok {
		return icon
	}
	return defaultIcon
}

// EmojiFor returns the list emoji for a cuisine keyword.
func EmojiFor(keyword string) string {
	if e, ok := keywordEmoji[keyword]; ok {
		return e
	}
	return defaultEmoji
}
