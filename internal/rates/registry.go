package rates

import (
	dErrors "fiducia/pkg/domain-errors"
	"fiducia/pkg/domain"
)

// Registry holds the loaded tables keyed by tax year. It is populated once at
// startup and read-only afterwards, so no locking is needed.
type Registry struct {
	uk map[domain.TaxYear]*UKRates
	sa map[domain.TaxYear]*SARates
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		uk: make(map[domain.TaxYear]*UKRates),
		sa: make(map[domain.TaxYear]*SARates),
	}
}

// DefaultRegistry returns a registry seeded with the built-in tables.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.PutUK(DefaultUK())
	r.PutSA(DefaultSA())
	return r
}

// PutUK registers a UK table under its tax year.
func (r *Registry) PutUK(t *UKRates) { r.uk[t.Year] = t }

// PutSA registers an SA table under its tax year.
func (r *Registry) PutSA(t *SARates) { r.sa[t.Year] = t }

// UK returns the UK table for a tax year.
// Errors: CodeConfiguration when no table is loaded for the year.
func (r *Registry) UK(year domain.TaxYear) (*UKRates, error) {
	t, ok := r.uk[year]
	if !ok {
		return nil, dErrors.Newf(dErrors.CodeConfiguration, "no UK rate table loaded for tax year %s", year)
	}
	return t, nil
}

// SA returns the SA table for a year of assessment.
// Errors: CodeConfiguration when no table is loaded for the year.
func (r *Registry) SA(year domain.TaxYear) (*SARates, error) {
	t, ok := r.sa[year]
	if !ok {
		return nil, dErrors.Newf(dErrors.CodeConfiguration, "no SA rate table loaded for tax year %s", year)
	}
	return t, nil
}

// Years lists the loaded tax years per jurisdiction, for the health endpoint.
func (r *Registry) Years() map[string][]string {
	out := map[string][]string{}
	for y := range r.uk {
		out["uk"] = append(out["uk"], y.String())
	}
	for y := range r.sa {
		out["sa"] = append(out["sa"], y.String())
	}
	return out
}
