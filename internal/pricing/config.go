package pricing

import (
	"bytes"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// DefaultConfigVersion identifies the built-in business constants.
const DefaultConfigVersion = "2025-04-builtin"

// DefaultTaxRate is the Chilean IVA rate applied to the pre-discount fee.
var DefaultTaxRate = decimal.RequireFromString("0.19")

// Config carries the business constants an Engine prices with.
// Every override must be versioned so issued vouchers can be traced back to the constants used.
type Config struct {
	Version string
	TaxRate decimal.Decimal
	Fees    map[FeeOption]Fee
}

// fileConfig is the YAML shape accepted by LoadConfig:
//
//	version: "2025-06"
//	tax_rate: 0.19
//	fees:
//	  basic:    {fee: 15000, duration_minutes: 30, laps: 10}
//	  standard: {fee: 20000, duration_minutes: 35, laps: 15}
//	  premium:  {fee: 25000, duration_minutes: 40, laps: 20}
type fileConfig struct {
	Version string         `yaml:"version"`
	TaxRate *float64       `yaml:"tax_rate"`
	Fees    map[string]Fee `yaml:"fees"`
}

// DefaultConfig returns the built-in constants.
func DefaultConfig() Config {
	return Config{
		Version: DefaultConfigVersion,
		TaxRate: DefaultTaxRate,
		Fees:    defaultFees(),
	}
}

// LoadConfig reads a versioned YAML override. An empty path yields DefaultConfig.
func LoadConfig(path string) (Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("could not read pricing config %s: %w", path, err)
	}
	return ParseConfig(content)
}

// ParseConfig decodes and validates a YAML override.
func ParseConfig(content []byte) (Config, error) {
	var fc fileConfig
	dec := yaml.NewDecoder(bytes.NewReader(content))
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	if fc.TaxRate == nil {
		return Config{}, fmt.Errorf("%w: tax_rate is required", ErrInvalidConfig)
	}
	cfg := Config{
		Version: fc.Version,
		TaxRate: decimal.NewFromFloat(*fc.TaxRate),
		Fees:    make(map[FeeOption]Fee, len(fc.Fees)),
	}
	for name, fee := range fc.Fees {
		option, err := ParseFeeOption(name)
		if err != nil {
			return Config{}, fmt.Errorf("%w: fees: %v", ErrInvalidConfig, err)
		}
		if _, dup := cfg.Fees[option]; dup {
			return Config{}, fmt.Errorf("%w: fee option %s listed twice", ErrInvalidConfig, option)
		}
		fee.Option = option
		cfg.Fees[option] = fee
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that the config covers every fee option with sane values.
func (c Config) Validate() error {
	if c.Version == "" {
		return fmt.Errorf("%w: version is required", ErrInvalidConfig)
	}
	if c.TaxRate.IsNegative() || c.TaxRate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return fmt.Errorf("%w: tax_rate %s must be in [0, 1)", ErrInvalidConfig, c.TaxRate)
	}
	for _, option := range FeeOptions {
		fee, ok := c.Fees[option]
		if !ok {
			return fmt.Errorf("%w: missing fee for %s", ErrInvalidConfig, option)
		}
		if fee.Amount <= 0 {
			return fmt.Errorf("%w: fee for %s must be positive", ErrInvalidConfig, option)
		}
		if fee.DurationMinutes <= 0 || fee.Laps <= 0 {
			return fmt.Errorf("%w: duration and laps for %s must be positive", ErrInvalidConfig, option)
		}
	}
	if len(c.Fees) != len(FeeOptions) {
		return fmt.Errorf("%w: unknown fee options configured", ErrInvalidConfig)
	}
	return nil
}

// Engine prices bookings against one immutable Config.
// It holds no mutable state and is safe for concurrent use.
type Engine struct {
	cfg Config
}

// NewEngine validates cfg and returns an Engine holding a private copy of it.
func NewEngine(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	fees := make(map[FeeOption]Fee, len(cfg.Fees))
	for k, v := range cfg.Fees {
		v.Option = k
		fees[k] = v
	}
	return &Engine{cfg: Config{Version: cfg.Version, TaxRate: cfg.TaxRate, Fees: fees}}, nil
}

// DefaultEngine returns an Engine over DefaultConfig.
func DefaultEngine() *Engine {
	e, err := NewEngine(DefaultConfig())
	if err != nil {
		panic(err) // built-in constants are always valid
	}
	return e
}

// Version reports the config version the engine prices with.
func (e *Engine) Version() string { return e.cfg.Version }

// TaxRate reports the configured tax rate.
func (e *Engine) TaxRate() decimal.Decimal { return e.cfg.TaxRate }
