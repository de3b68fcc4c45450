// Package pricing evaluates the Black-Scholes closed-form price of European
// call and put options.
//
// The formula:
//
//	d1 = (ln(S/K) + (r + 0.5*vol^2)*T) / (vol*sqrt(T))
//	d2 = d1 - vol*sqrt(T)
//	call = S*CDF(d1) - K*e^(-rT)*CDF(d2)
//	put  = K*e^(-rT)*CDF(-d2) - S*CDF(-d1)
//
// Inputs outside the formula's domain (non-positive spot, strike, expiry or
// volatility) are rejected up front with a typed error; NaN or Inf never
// propagates out of this package.
package pricing

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

var stdNormal = distuv.UnitNormal

// Price returns the theoretical Black-Scholes price for p.
//
// The result is finite and, for valid inputs, non-negative. Validation runs
// before any arithmetic: a *ParameterError is returned for domain violations
// and an *UnsupportedKindError for an option kind outside {call, put}.
func Price(p Parameters) (float64, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}

	sqrtT := math.Sqrt(p.TimeToExpiry)
	d1 := (math.Log(p.Spot/p.Strike) + (p.Rate+0.5*p.Vol*p.Vol)*p.TimeToExpiry) / (p.Vol * sqrtT)
	d2 := d1 - p.Vol*sqrtT
	discount := math.Exp(-p.Rate * p.TimeToExpiry)

	switch p.Kind {
	case Call:
		return p.Spot*stdNormal.CDF(d1) - p.Strike*discount*stdNormal.CDF(d2), nil
	case Put:
		return p.Strike*discount*stdNormal.CDF(-d2) - p.Spot*stdNormal.CDF(-d1), nil
	default:
		return 0, &UnsupportedKindError{Kind: p.Kind}
	}
}
