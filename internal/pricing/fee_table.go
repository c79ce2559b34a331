package pricing

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// FeeOption is one of the fixed service tiers a booking can select.
type FeeOption int

const (
	FeeOptionBasic    FeeOption = 1
	FeeOptionStandard FeeOption = 2
	FeeOptionPremium  FeeOption = 3
)

// Business constants for the three tiers. Amounts are in whole currency units (CLP).
const (
	BasicFee             int64 = 15000
	BasicDurationMinutes       = 30
	BasicLaps                  = 10

	StandardFee             int64 = 20000
	StandardDurationMinutes       = 35
	StandardLaps                  = 15

	PremiumFee             int64 = 25000
	PremiumDurationMinutes       = 40
	PremiumLaps                  = 20
)

// FeeOptions lists every valid option in display order.
var FeeOptions = []FeeOption{FeeOptionBasic, FeeOptionStandard, FeeOptionPremium}

// Fee is the price, session length and lap allowance of a fee option.
type Fee struct {
	Option          FeeOption `json:"option" yaml:"-"`
	Amount          int64     `json:"fee" yaml:"fee"`
	DurationMinutes int       `json:"duration_minutes" yaml:"duration_minutes"`
	Laps            int       `json:"laps" yaml:"laps"`
}

// IsValid reports whether o belongs to the closed enumeration.
func (o FeeOption) IsValid() bool {
	switch o {
	case FeeOptionBasic, FeeOptionStandard, FeeOptionPremium:
		return true
	default:
		return false
	}
}

func (o FeeOption) String() string {
	switch o {
	case FeeOptionBasic:
		return "basic"
	case FeeOptionStandard:
		return "standard"
	case FeeOptionPremium:
		return "premium"
	default:
		return "unknown(" + strconv.Itoa(int(o)) + ")"
	}
}

// ParseFeeOption accepts either the legacy numeric identifier ("1".."3") or the option name.
func ParseFeeOption(s string) (FeeOption, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "1", "basic":
		return FeeOptionBasic, nil
	case "2", "standard":
		return FeeOptionStandard, nil
	case "3", "premium":
		return FeeOptionPremium, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidOption, s)
}

// MarshalJSON encodes the option by name.
func (o FeeOption) MarshalJSON() ([]byte, error) {
	if !o.IsValid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidOption, int(o))
	}
	return json.Marshal(o.String())
}

// UnmarshalJSON accepts 1/2/3 as numbers or strings, or the option name.
func (o *FeeOption) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(data), `"`)
	parsed, err := ParseFeeOption(raw)
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}

// UnmarshalText lets FeeOption be used as a YAML map key and in query binding.
func (o *FeeOption) UnmarshalText(text []byte) error {
	parsed, err := ParseFeeOption(string(text))
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}

// MarshalText mirrors UnmarshalText.
func (o FeeOption) MarshalText() ([]byte, error) {
	if !o.IsValid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidOption, int(o))
	}
	return []byte(o.String()), nil
}

func defaultFees() map[FeeOption]Fee {
	return map[FeeOption]Fee{
		FeeOptionBasic:    {Option: FeeOptionBasic, Amount: BasicFee, DurationMinutes: BasicDurationMinutes, Laps: BasicLaps},
		FeeOptionStandard: {Option: FeeOptionStandard, Amount: StandardFee, DurationMinutes: StandardDurationMinutes, Laps: StandardLaps},
		FeeOptionPremium:  {Option: FeeOptionPremium, Amount: PremiumFee, DurationMinutes: PremiumDurationMinutes, Laps: PremiumLaps},
	}
}

// LookupFee returns the fee entry for option.
func (e *Engine) LookupFee(option FeeOption) (Fee, error) {
	if !option.IsValid() {
		return Fee{}, fmt.Errorf("%w: %d", ErrInvalidOption, int(option))
	}
	fee, ok := e.cfg.Fees[option]
	if !ok {
		return Fee{}, fmt.Errorf("%w: %s has no configured fee", ErrInvalidOption, option)
	}
	return fee, nil
}

// FeeTable returns the configured fees in display order.
func (e *Engine) FeeTable() []Fee {
	out := make([]Fee, 0, len(FeeOptions))
	for _, o := range FeeOptions {
		out = append(out, e.cfg.Fees[o])
	}
	return out
}
