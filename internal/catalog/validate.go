package catalog

import (
	"github.com/procomfort/procomfort-quote/internal/xerrors"
)

// entry is the minimal view Validate needs of any catalog record.
type entry struct {
	id    string
	price int
}

func featureEntries(fs []Feature) []entry {
	out := make([]entry, len(fs))
	for i, f := range fs {
		out[i] = entry{f.ID, f.Price}
	}
	return out
}

func componentEntries(cs []Component) []entry {
	out := make([]entry, len(cs))
	for i, c := range cs {
		out[i] = entry{c.ID, c.Price}
	}
	return out
}

// Validate checks the catalog invariants: within each catalog every
// identifier is unique and every price is non-negative. Uniqueness is
// deliberately NOT checked across catalogs; the same id at different
// prices in different catalogs is a supported bundling case.
// Run once at startup so a bad edit fails the boot, not a request.
func Validate() error {
	catalogs := map[string][]entry{
		"packages":             packageEntries(Packages),
		"additional-features":  featureEntries(AdditionalFeatures),
		"components/pages":     componentEntries(SiteComponents.Pages),
		"components/features":  componentEntries(SiteComponents.Features),
		"components/technical": componentEntries(SiteComponents.Technical),
		"addon-services":       featureEntries(AddonServices),
		"emergency-services":   tierEntries(EmergencyServices),
		"service-areas":        areaEntries(ServiceAreas),
		"hvac-features":        featureEntries(HVACFeatures),
		"appliance-features":   featureEntries(ApplianceFeatures),
		"contact-features":     featureEntries(ContactFeatures),
	}

	for name, entries := range catalogs {
		seen := make(map[string]struct{}, len(entries))
		for _, e := range entries {
			if e.id == "" {
				return xerrors.Newf("catalog %s: empty id", name)
			}
			if _, dup := seen[e.id]; dup {
				return xerrors.Newf("catalog %s: duplicate id %q", name, e.id)
			}
			seen[e.id] = struct{}{}
			if e.price < 0 {
				return xerrors.Newf("catalog %s: negative price %d for id %q", name, e.price, e.id)
			}
		}
	}
	return nil
}

func packageEntries(ps []Package) []entry {
	out := make([]entry, len(ps))
	for i, p := range ps {
		out[i] = entry{p.ID, p.Price}
	}
	return out
}

func tierEntries(ts []EmergencyTier) []entry {
	out := make([]entry, len(ts))
	for i, t := range ts {
		out[i] = entry{t.ID, t.Price}
	}
	return out
}

func areaEntries(as []ServiceArea) []entry {
	out := make([]entry, len(as))
	for i, a := range as {
		out[i] = entry{a.ID, a.Price}
	}
	return out
}
