package catalog

import (
	"math"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"sameshi/models"
	"sameshi/pricing"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Data is the typed catalog after validation at the load boundary.
type Data struct {
	Facilities   []models.Facility
	Vendors      []models.Vendor
	MenuItems    []models.MenuItem
	Tags         []models.Tag
	MenuItemTags []models.MenuItemTag
}

// Report counts rows kept and dropped per table during Decode.
type Report struct {
	Loaded  map[string]int
	Dropped map[string]int
}

func newReport() Report {
	return Report{Loaded: map[string]int{}, Dropped: map[string]int{}}
}

func (r Report) record(sheet string, ok bool) {
	if ok {
		r.Loaded[sheet]++
	} else {
		r.Dropped[sheet]++
	}
}

// Decode converts raw tables into typed entities. Rows with an unparseable
// id, a blank facility name or a failed validation are dropped. Dangling
// references are kept; they simply never join.
func Decode(t Tables) (Data, Report) {
	var d Data
	rep := newReport()

	for _, row := range t.Facilities {
		f, ok := decodeFacility(row)
		rep.record(SheetFacilities, ok)
		if ok {
			d.Facilities = append(d.Facilities, f)
		}
	}
	for _, row := range t.Vendors {
		v, ok := decodeVendor(row)
		rep.record(SheetVendors, ok)
		if ok {
			d.Vendors = append(d.Vendors, v)
		}
	}
	for _, row := range t.MenuItems {
		m, ok := decodeMenuItem(row)
		rep.record(SheetMenuItems, ok)
		if ok {
			d.MenuItems = append(d.MenuItems, m)
		}
	}
	for _, row := range t.Tags {
		tag, ok := decodeTag(row)
		rep.record(SheetTags, ok)
		if ok {
			d.Tags = append(d.Tags, tag)
		}
	}
	for _, row := range t.MenuItemTags {
		link, ok := decodeMenuItemTag(row)
		rep.record(SheetMenuItemTags, ok)
		if ok {
			d.MenuItemTags = append(d.MenuItemTags, link)
		}
	}

	return d, rep
}

func decodeFacility(row Row) (models.Facility, bool) {
	id, ok := parseID(row.Get("id"))
	if !ok {
		return models.Facility{}, false
	}
	f := models.Facility{
		ID:          id,
		Name:        row.Get("name"),
		Coordinates: parseCoordinates(row),
		EntryFee:    pricing.ParseAmount(row.Get("entry_fee", "entryfee", "price")),
	}
	if validate.Struct(f) != nil {
		return models.Facility{}, false
	}
	return f, true
}

func decodeVendor(row Row) (models.Vendor, bool) {
	id, ok := parseID(row.Get("id"))
	if !ok {
		return models.Vendor{}, false
	}
	facilityID, ok := parseID(row.Get("sauna_id", "facility_id"))
	if !ok {
		return models.Vendor{}, false
	}
	return models.Vendor{ID: id, FacilityID: facilityID}, true
}

func decodeMenuItem(row Row) (models.MenuItem, bool) {
	id, ok := parseID(row.Get("id"))
	if !ok {
		return models.MenuItem{}, false
	}
	vendorID, ok := parseID(row.Get("restaurant_id", "vendor_id"))
	if !ok {
		return models.MenuItem{}, false
	}
	m := models.MenuItem{
		ID:          id,
		VendorID:    vendorID,
		Name:        row.Get("name"),
		Price:       pricing.ParseAmount(row.Get("price")),
		Description: row.Get("description"),
		Category:    row.Get("category"),
		ImageRef:    row.Get("image_url", "image_file", "image"),
	}
	if validate.Struct(m) != nil {
		return models.MenuItem{}, false
	}
	return m, true
}

func decodeTag(row Row) (models.Tag, bool) {
	id, ok := parseID(row.Get("id"))
	if !ok {
		return models.Tag{}, false
	}
	return models.Tag{ID: id, Name: row.Get("name")}, true
}

func decodeMenuItemTag(row Row) (models.MenuItemTag, bool) {
	itemID, ok := parseID(row.Get("menu_item_id", "menuitemid"))
	if !ok {
		return models.MenuItemTag{}, false
	}
	tagID, ok := parseID(row.Get("tag_id", "tagid"))
	if !ok {
		return models.MenuItemTag{}, false
	}
	return models.MenuItemTag{MenuItemID: itemID, TagID: tagID}, true
}

// parseID accepts "12" as well as spreadsheet renderings like "12.0".
func parseID(s string) (int64, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0, false
	}
	if id, err := strconv.ParseInt(s, 10, 64); err == nil {
		return id, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return int64(f), true
}

func parseCoordinates(row Row) *models.Coordinates {
	latStr := row.Get("latitude", "lat")
	lonStr := row.Get("longitude", "lng", "lon")
	if latStr == "" || lonStr == "" {
		return nil
	}
	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return nil
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return nil
	}
	c := &models.Coordinates{Lat: lat, Lon: lon}
	if validate.Struct(c) != nil {
		return nil
	}
	return c
}
