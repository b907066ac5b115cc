package payroll

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

type Variant string

const (
	// VariantOwnBase pays commission once a barber out-earns their own base salary.
	VariantOwnBase Variant = "own_base"
	// VariantFixed uses one shop-wide base and threshold for every barber.
	VariantFixed Variant = "fixed"
)

// Setting keys that override the configured policy at runtime.
const (
	SettingPolicy     = "commission_policy"
	SettingRate       = "commission_percentage"
	SettingFixedBase  = "default_base_salary"
	SettingThreshold  = "base_salary_threshold"
	percentageDivisor = 100
)

type Policy struct {
	Variant   Variant
	Rate      decimal.Decimal
	FixedBase decimal.Decimal
	Threshold decimal.Decimal
}

func ParseVariant(s string) (Variant, error) {
	switch v := Variant(strings.ToLower(strings.TrimSpace(s))); v {
	case VariantOwnBase, VariantFixed:
		return v, nil
	default:
		return "", fmt.Errorf("unknown commission policy %q (want %q or %q)", s, VariantOwnBase, VariantFixed)
	}
}

func (p Policy) Validate() error {
	if _, err := ParseVariant(string(p.Variant)); err != nil {
		return err
	}
	if p.Rate.IsNegative() || p.Rate.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("commission rate must be within [0, 1], got %s", p.Rate)
	}
	if p.Variant == VariantFixed && (p.FixedBase.IsNegative() || p.Threshold.IsNegative()) {
		return fmt.Errorf("fixed base and threshold must not be negative")
	}
	return nil
}

// Payment applies the policy to one barber's period.
//
//	own_base: total > base       ? total × rate : base
//	fixed:    total > threshold  ? total × rate : fixed base
func (p Policy) Payment(baseSalary, totalGenerated decimal.Decimal) decimal.Decimal {
	base, threshold := baseSalary, baseSalary
	if p.Variant == VariantFixed {
		base, threshold = p.FixedBase, p.Threshold
	}

	if totalGenerated.GreaterThan(threshold) {
		return totalGenerated.Mul(p.Rate).Round(2)
	}
	return base.Round(2)
}

// WithOverrides returns a copy of p with any valid setting applied.
// commission_percentage accepts a fraction (0.5) or a percentage (50).
// Invalid values are ignored and reported in the returned slice.
func (p Policy) WithOverrides(settings map[string]string) (Policy, []string) {
	out := p
	var skipped []string

	if v, ok := settings[SettingPolicy]; ok && strings.TrimSpace(v) != "" {
		if variant, err := ParseVariant(v); err == nil {
			out.Variant = variant
		} else {
			skipped = append(skipped, SettingPolicy)
		}
	}

	if v, ok := settings[SettingRate]; ok {
		if d, err := decimal.NewFromString(strings.TrimSpace(v)); err == nil && !d.IsNegative() {
			if d.GreaterThan(decimal.NewFromInt(1)) {
				d = d.Div(decimal.NewFromInt(percentageDivisor))
			}
			if d.LessThanOrEqual(decimal.NewFromInt(1)) {
				out.Rate = d
			} else {
				skipped = append(skipped, SettingRate)
			}
		} else {
			skipped = append(skipped, SettingRate)
		}
	}

	for key, dst := range map[string]*decimal.Decimal{
		SettingFixedBase: &out.FixedBase,
		SettingThreshold: &out.Threshold,
	} {
		v, ok := settings[key]
		if !ok {
			continue
		}
		d, err := decimal.NewFromString(strings.TrimSpace(v))
		if err != nil || d.IsNegative() {
			skipped = append(skipped, key)
			continue
		}
		*dst = d
	}

	return out, skipped
}
