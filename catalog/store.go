package catalog

import (
	"errors"
	"fmt"

	"sameshi/models"
)

// ErrFacilityNotFound is returned when a caller asks for a facility id the
// store never loaded.
var ErrFacilityNotFound = errors.New("facility not found")

// Store is an immutable relational view over the loaded catalog. All
// queries are safe for concurrent use.
type Store struct {
	facilities   []models.Facility
	vendors      []models.Vendor
	menuItems    []models.MenuItem
	tags         []models.Tag
	menuItemTags []models.MenuItemTag

	facilityIndex map[int64]int
}

// New freezes decoded data into a Store. The first occurrence of a
// duplicated facility id wins for lookups.
func New(d Data) *Store {
	s := &Store{
		facilities:    d.Facilities,
		vendors:       d.Vendors,
		menuItems:     d.MenuItems,
		tags:          d.Tags,
		menuItemTags:  d.MenuItemTags,
		facilityIndex: make(map[int64]int, len(d.Facilities)),
	}
	for i, f := range d.Facilities {
		if _, dup := s.facilityIndex[f.ID]; !dup {
			s.facilityIndex[f.ID] = i
		}
	}
	return s
}

// Facilities returns every facility in source order.
func (s *Store) Facilities() []models.Facility {
	out := make([]models.Facility, len(s.facilities))
	copy(out, s.facilities)
	return out
}

// Facility looks up a facility by id.
func (s *Store) Facility(id int64) (models.Facility, error) {
	i, ok := s.facilityIndex[id]
	if !ok {
		return models.Facility{}, fmt.Errorf("facility %d: %w", id, ErrFacilityNotFound)
	}
	return s.facilities[i], nil
}

// RestaurantsForFacility returns the vendors attached to a facility in source order.
func (s *Store) RestaurantsForFacility(facilityID int64) []models.Vendor {
	out := []models.Vendor{}
	for _, v := range s.vendors {
		if v.FacilityID == facilityID {
			out = append(out, v)
		}
	}
	return out
}

// MenuItemsForRestaurant returns a vendor's menu items in source order.
func (s *Store) MenuItemsForRestaurant(vendorID int64) []models.MenuItem {
	out := []models.MenuItem{}
	for _, m := range s.menuItems {
		if m.VendorID == vendorID {
			out = append(out, m)
		}
	}
	return out
}

// TagsForMenuItem returns the names of the tags linked to a menu item, in
// tag table order.
func (s *Store) TagsForMenuItem(menuItemID int64) []string {
	linked := map[int64]bool{}
	for _, l := range s.menuItemTags {
		if l.MenuItemID == menuItemID {
			linked[l.TagID] = true
		}
	}
	out := []string{}
	if len(linked) == 0 {
		return out
	}
	for _, t := range s.tags {
		if linked[t.ID] {
			out = append(out, t.Name)
		}
	}
	return out
}

// MenuItemsForFacility concatenates the menu items of every vendor of a
// facility, vendor order first, then item order.
func (s *Store) MenuItemsForFacility(facilityID int64) []models.MenuItem {
	out := []models.MenuItem{}
	for _, v := range s.RestaurantsForFacility(facilityID) {
		out = append(out, s.MenuItemsForRestaurant(v.ID)...)
	}
	return out
}
