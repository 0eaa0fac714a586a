package domain

import "fmt"

// Jurisdiction selects which rule set a calculation runs under.
type Jurisdiction string

// Supported jurisdictions.
const (
	JurisdictionUK Jurisdiction = "uk"
	JurisdictionSA Jurisdiction = "sa"
)

// validJurisdictions is the single source of truth for supported jurisdictions.
var validJurisdictions = map[Jurisdiction]bool{
	JurisdictionUK: true,
	JurisdictionSA: true,
}

// ParseJurisdiction constructs a Jurisdiction from external input.
func ParseJurisdiction(s string) (Jurisdiction, error) {
	if s == "" {
		return "", fmt.Errorf("jurisdiction cannot be empty")
	}
	j := Jurisdiction(s)
	if !j.IsValid() {
		return "", fmt.Errorf("unsupported jurisdiction %q", s)
	}
	return j, nil
}

// IsValid checks if the jurisdiction is one of the supported enum values.
func (j Jurisdiction) IsValid() bool {
	return validJurisdictions[j]
}

// String returns the string representation.
func (j Jurisdiction) String() string { return string(j) }
