// Package fiscal derives the invoice tax split from a net total.
package fiscal

import (
	"fmt"
	"strings"

	"github.com/okian/mealrecon/internal/domain/model"
	"github.com/shopspring/decimal"
)

// Default rates.
var (
	DefaultVATRate            = decimal.RequireFromString("0.16")
	DefaultVATWithholding     = Fraction{Num: decimal.NewFromInt(2), Den: decimal.NewFromInt(3)}
	DefaultISRWithholdingRate = decimal.RequireFromString("0.0125")
)

// Places is the rounding precision applied to every computed amount.
const Places = 2

// Fraction is an exact ratio. Multiplying by it divides last so that 2/3
// carries no truncated repeating decimal into the product.
type Fraction struct {
	Num decimal.Decimal
	Den decimal.Decimal
}

// Of returns v * Num / Den, unrounded beyond decimal's division precision.
func (f Fraction) Of(v decimal.Decimal) decimal.Decimal {
	return v.Mul(f.Num).Div(f.Den)
}

func (f Fraction) String() string {
	if f.Den.Equal(decimal.NewFromInt(1)) {
		return f.Num.String()
	}
	return f.Num.String() + "/" + f.Den.String()
}

// ParseFraction accepts a non-negative "n/d" or plain decimal.
func ParseFraction(s string) (Fraction, error) {
	s = strings.TrimSpace(s)
	num, den, isRatio := strings.Cut(s, "/")
	if !isRatio {
		d, err := ParseRate(s)
		if err != nil {
			return Fraction{}, err
		}
		return Fraction{Num: d, Den: decimal.NewFromInt(1)}, nil
	}
	n, err := ParseRate(num)
	if err != nil {
		return Fraction{}, fmt.Errorf("%w: %q", ErrInvalidRate, s)
	}
	d, err := ParseRate(den)
	if err != nil || d.IsZero() {
		return Fraction{}, fmt.Errorf("%w: %q", ErrInvalidRate, s)
	}
	return Fraction{Num: n, Den: d}, nil
}

// ParseRate parses a non-negative decimal rate.
func ParseRate(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil || d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidRate, s)
	}
	return d, nil
}

// Rates is the tax policy applied by Compute.
type Rates struct {
	VAT            decimal.Decimal
	VATWithholding Fraction
	ISRWithholding decimal.Decimal
}

// DefaultRates returns the stock policy.
func DefaultRates() Rates {
	return Rates{
		VAT:            DefaultVATRate,
		VATWithholding: DefaultVATWithholding,
		ISRWithholding: DefaultISRWithholdingRate,
	}
}

// Compute derives the breakdown for base. Each term is rounded half away
// from zero to two places before it feeds the next.
func (r Rates) Compute(base decimal.Decimal) model.FiscalBreakdown {
	vat := base.Mul(r.VAT).Round(Places)
	vatW := r.VATWithholding.Of(vat).Round(Places)
	isr := base.Mul(r.ISRWithholding).Round(Places)
	return model.FiscalBreakdown{
		Base:           base,
		VAT:            vat,
		VATWithholding: vatW,
		ISRWithholding: isr,
		NetInvoice:     base.Add(vat).Sub(vatW).Sub(isr).Round(Places),
	}
}
