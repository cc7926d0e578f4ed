package models

// Coordinates is a WGS84 point in degrees.
type Coordinates struct {
	Lat float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lon float64 `json:"lon" validate:"gte=-180,lte=180"`
}

// Facility is a sauna venue, the root scope for a gacha draw. Coordinates are
// optional; facilities without them skip the nearby lookup.
type Facility struct {
	ID          int64        `json:"id"`
	Name        string       `json:"name" validate:"required"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
	EntryFee    int          `json:"entry_fee" validate:"gte=0"`
}

// Vendor is a restaurant or stall attached to a facility.
type Vendor struct {
	ID         int64 `json:"id"`
	FacilityID int64 `json:"facility_id"`
}

// MenuItem is a single dish or drink sold by a vendor.
type MenuItem struct {
	ID          int64  `json:"id"`
	VendorID    int64  `json:"vendor_id"`
	Name        string `json:"name"`
	Price       int    `json:"price" validate:"gte=0"`
	Description string `json:"description"`
	Category    string `json:"category"`
	ImageRef    string `json:"image_ref,omitempty"`
}

// Tag labels menu items (e.g. "spicy", "local").
type Tag struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// MenuItemTag links a menu item to a tag.
type MenuItemTag struct {
	MenuItemID int64 `json:"menu_item_id"`
	TagID      int64 `json:"tag_id"`
}

// SelectionResult is the outcome of one draw for a facility. A new draw
// replaces it rather than appending to it.
type SelectionResult struct {
	FacilityID int64      `json:"facility_id"`
	Items      []MenuItem `json:"items"`
}

// NearbyPlace is a highly rated eatery close to a facility.
type NearbyPlace struct {
	Name        string      `json:"name"`
	Rating      float64     `json:"rating"`
	Keyword     string      `json:"keyword"`
	Coordinates Coordinates `json:"coordinates"`
	MapsLink    string      `json:"maps_link"`
	PhotoURL    string      `json:"photo_url,omitempty"`
}
