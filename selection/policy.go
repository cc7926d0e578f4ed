package selection

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"sameshi/catalog"
	"sameshi/models"
)

const (
	CategoryMain  = "main"
	CategoryDrink = "drink"

	// FlatPolicyName and CategoryPolicyName identify the policies for ByName.
	FlatPolicyName     = "flat"
	CategoryPolicyName = "category"
)

// Policy picks the menu items shown for one draw. Implementations must
// return an empty slice for empty input and never mutate candidates.
type Policy interface {
	Name() string
	Select(r *rand.Rand, candidates []models.MenuItem) []models.MenuItem
}

// CategoryPolicy picks one main dish and up to two drinks. A facility with
// no main dish gets no main dish; nothing is substituted.
type CategoryPolicy struct{}

func (CategoryPolicy) Name() string { return CategoryPolicyName }

func (CategoryPolicy) Select(r *rand.Rand, candidates []models.MenuItem) []models.MenuItem {
	var mains, drinks []models.MenuItem
	for _, item := range candidates {
		switch NormalizeCategory(item.Category) {
		case CategoryMain:
			mains = append(mains, item)
		case CategoryDrink:
			drinks = append(drinks, item)
		}
	}

	selected := make([]models.MenuItem, 0, 3)
	if len(mains) > 0 {
		selected = append(selected, mains[r.IntN(len(mains))])
	}
	return append(selected, sample(r, drinks, 2)...)
}

// FlatPolicy picks up to three distinct items regardless of category.
type FlatPolicy struct{}

func (FlatPolicy) Name() string { return FlatPolicyName }

func (FlatPolicy) Select(r *rand.Rand, candidates []models.MenuItem) []models.MenuItem {
	return sample(r, candidates, 3)
}

// ByName returns the policy registered under name.
func ByName(name string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case CategoryPolicyName:
		return CategoryPolicy{}, nil
	case FlatPolicyName:
		return FlatPolicy{}, nil
	default:
		return nil, fmt.Errorf("unknown selection policy %q", name)
	}
}

// NormalizeCategory trims and lower-cases a free-form category.
func NormalizeCategory(c string) string {
	return strings.ToLower(strings.TrimSpace(c))
}

// sample draws min(k, len(items)) distinct items uniformly at random with a
// partial Fisher-Yates shuffle over a copy.
func sample(r *rand.Rand, items []models.MenuItem, k int) []models.MenuItem {
	if k > len(items) {
		k = len(items)
	}
	pool := make([]models.MenuItem, len(items))
	copy(pool, items)
	for i := 0; i < k; i++ {
		j := i + r.IntN(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:k]
}

// Draw resolves the facility's reachable menu items and applies policy. The
// returned result is fresh; callers replace any earlier result with it.
func Draw(store *catalog.Store, facilityID int64, policy Policy, r *rand.Rand) (models.SelectionResult, error) {
	if _, err := store.Facility(facilityID); err != nil {
		return models.SelectionResult{}, err
	}
	return models.SelectionResult{
		FacilityID: facilityID,
		Items:      policy.Select(r, store.MenuItemsForFacility(facilityID)),
	}, nil
}

// NewRand returns a source seeded from the runtime's global generator.
func NewRand() *rand.Rand {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// NewSeededRand returns a deterministic source for reproducible draws.
func NewSeededRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
