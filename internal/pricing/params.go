package pricing

import "math"

// Parameters holds one complete set of Black-Scholes inputs. Values are
// treated as immutable: derive a modified copy instead of mutating, so a
// single Parameters value can safely back many price evaluations.
type Parameters struct {
	Spot         float64    // current price of the underlying
	Strike       float64    // strike price
	TimeToExpiry float64    // time to expiry in years
	Rate         float64    // annualized risk-free rate, as a decimal
	Vol          float64    // annualized volatility, as a decimal
	Kind         OptionKind // call or put
}

// Validate checks the model's domain: spot, strike, time to expiry and
// volatility must be strictly positive and finite, the rate any finite real.
// All violations are collected into a single *ParameterError.
func (p Parameters) Validate() error {
	perr := &ParameterError{}

	checkPositive(perr, "spot", p.Spot)
	checkPositive(perr, "strike", p.Strike)
	checkPositive(perr, "time_to_expiry", p.TimeToExpiry)
	checkPositive(perr, "vol", p.Vol)

	if math.IsNaN(p.Rate) || math.IsInf(p.Rate, 0) {
		perr.add("rate", p.Rate, "must be finite")
	}

	if perr.HasErrors() {
		return perr
	}
	return nil
}

// WithSpotVol returns a copy of p with the spot and volatility replaced.
// Used by surface generation so every grid cell prices an independent value.
func (p Parameters) WithSpotVol(spot, vol float64) Parameters {
	p.Spot = spot
	p.Vol = vol
	return p
}

func checkPositive(perr *ParameterError, field string, v float64) {
	switch {
	case math.IsNaN(v) || math.IsInf(v, 0):
		perr.add(field, v, "must be finite")
	case v <= 0:
		perr.add(field, v, "must be strictly positive")
	}
}
