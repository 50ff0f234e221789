// Package catalog holds the static service and pricing data behind the
// quoting API. Every catalog is a package-level literal built at init,
// validated once at startup, and never mutated afterwards, so handlers
// share them without locking.
package catalog

// Package is a full website package offering.
type Package struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Price       int      `json:"price"`
	Timeline    string   `json:"timeline,omitempty"`
	Description string   `json:"description,omitempty"`
	Features    []string `json:"features,omitempty"`
}

// Feature is a priced line item: an additional feature, an addon
// service, or a trade-specific capability.
type Feature struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Price       int      `json:"price"`
	Description string   `json:"description,omitempty"`
	Icon        string   `json:"icon,omitempty"`
	Brands      []string `json:"brands,omitempty"`
}

// Component is a single buildable unit shown on the component picker.
type Component struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price int    `json:"price"`
	Icon  string `json:"icon,omitempty"`
}

// Components groups picker entries by kind.
type Components struct {
	Pages     []Component `json:"pages"`
	Features  []Component `json:"features"`
	Technical []Component `json:"technical"`
}

// EmergencyTier is an emergency call-out pricing tier.
type EmergencyTier struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Price        int    `json:"price"`
	ResponseTime string `json:"responseTime,omitempty"`
	Description  string `json:"description,omitempty"`
}

// ServiceArea is a coverage zone variant.
type ServiceArea struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Price        int    `json:"price"`
	RadiusMiles  int    `json:"radiusMiles,omitempty"`
	ResponseTime string `json:"responseTime,omitempty"`
}
