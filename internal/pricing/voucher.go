package pricing

import (
	"encoding/hex"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/blake2b"
)

// VoucherState is the conceptual lifecycle of a voucher.
// The engine only moves a voucher from requested to computed; delivery is done by callers.
type VoucherState string

const (
	VoucherStateRequested VoucherState = "requested"
	VoucherStateComputed  VoucherState = "computed"
	VoucherStateDelivered VoucherState = "delivered"
)

// Voucher is the priced result for one booking at one point in time.
// It is a plain value: copies never share state, and nothing in the engine mutates it after Build.
type Voucher struct {
	BookingCode     int64             `json:"booking_code"`
	ClientRUT       string            `json:"client_rut"`
	FeeOption       FeeOption         `json:"fee_option"`
	Fee             int64             `json:"fee"`
	DurationMinutes int               `json:"duration_minutes"`
	Laps            int               `json:"laps"`
	Discount        float64           `json:"discount"`
	Discounts       DiscountBreakdown `json:"discounts"`
	Tax             int64             `json:"tax"`
	Total           int64             `json:"total"`
	ConfigVersion   string            `json:"config_version"`
	State           VoucherState      `json:"state"`
	Digest          string            `json:"digest"`
}

// Build validates the booking and prices it.
// No partial voucher is ever returned alongside an error.
func (e *Engine) Build(booking BookingInput, client ClientInput) (Voucher, error) {
	if err := Validate(booking); err != nil {
		return Voucher{}, err
	}

	fee, err := e.LookupFee(booking.FeeOption)
	if err != nil {
		return Voucher{}, err
	}

	discounts, err := e.EvaluateDiscount(booking, client)
	if err != nil {
		return Voucher{}, err
	}

	tax := e.ComputeTax(fee.Amount)

	factor := decimal.NewFromInt(1).Sub(decimal.NewFromFloat(discounts.Resolved))
	discounted := roundHalfUp(decimal.NewFromInt(fee.Amount).Mul(factor))
	total := discounted + tax
	if discounted < 0 || total < 0 {
		return Voucher{}, fmt.Errorf("%w: negative total %d for booking %d", ErrInvariantViolation, total, booking.Code)
	}

	v := Voucher{
		BookingCode:     booking.Code,
		ClientRUT:       booking.ClientRUT,
		FeeOption:       fee.Option,
		Fee:             fee.Amount,
		DurationMinutes: fee.DurationMinutes,
		Laps:            fee.Laps,
		Discount:        discounts.Resolved,
		Discounts:       discounts,
		Tax:             tax,
		Total:           total,
		ConfigVersion:   e.cfg.Version,
		State:           VoucherStateComputed,
	}
	v.Digest = v.computeDigest()
	return v, nil
}

// Subtotal is the discounted fee before tax.
func (v Voucher) Subtotal() int64 {
	return v.Total - v.Tax
}

// VerifyDigest reports whether the voucher's amounts still match its digest.
func (v Voucher) VerifyDigest() bool {
	return v.Digest != "" && v.Digest == v.computeDigest()
}

// computeDigest hashes the fields that determine the amount charged.
func (v Voucher) computeDigest() string {
	canonical := strconv.FormatInt(v.BookingCode, 10) + "|" +
		v.ClientRUT + "|" +
		strconv.Itoa(int(v.FeeOption)) + "|" +
		strconv.FormatInt(v.Fee, 10) + "|" +
		strconv.FormatFloat(v.Discount, 'f', -1, 64) + "|" +
		strconv.FormatInt(v.Tax, 10) + "|" +
		strconv.FormatInt(v.Total, 10) + "|" +
		v.ConfigVersion
	sum := blake2b.Sum256([]byte(canonical))
	return hex.EncodeToString(sum[:])
}
