package flow

import (
	"errors"
	"fmt"
)

// Variant selects one of the two process datasets.
type Variant string

// Variants.
const (
	VariantVanillaSoft Variant = "vanillasoft"
	VariantHubSpot     Variant = "hubspot"
)

// ErrUnknownVariant is returned for variant names other than vanillasoft and hubspot.
var ErrUnknownVariant = errors.New("unknown variant (must be vanillasoft|hubspot)")

// Variants lists both variants in toggle order.
func Variants() []Variant {
	return []Variant{VariantVanillaSoft, VariantHubSpot}
}

// ParseVariant validates s.
func ParseVariant(s string) (Variant, error) {
	v := Variant(s)
	if !v.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownVariant, s)
	}

	return v, nil
}

// Valid reports whether v names a known variant.
func (v Variant) Valid() bool {
	return v == VariantVanillaSoft || v == VariantHubSpot
}

// Title is the long heading used in exports and the view indicator.
func (v Variant) Title() string {
	switch v {
	case VariantVanillaSoft:
		return "VanillaSoft (Current State)"
	case VariantHubSpot:
		return "HubSpot (Target State)"
	default:
		return string(v)
	}
}

// Indicator is the short view-mode caption.
func (v Variant) Indicator() string {
	switch v {
	case VariantVanillaSoft:
		return "Current State: VanillaSoft"
	case VariantHubSpot:
		return "Target State: HubSpot"
	default:
		return string(v)
	}
}
