// Package surface sweeps the Black-Scholes price over a grid of spot prices
// and volatilities to produce a profit/loss surface for heatmap rendering.
package surface

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/JMcKesey/black-scholes-visualizer/internal/pricing"
)

// DefaultSamples is the per-axis resolution used when the caller does not ask
// for a specific one.
const DefaultSamples = 10

// Range is a closed interval swept by one surface axis. Min > Max is allowed
// and produces a descending axis; Min == Max collapses the axis to a constant.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Surface is a PnL grid over (volatility, spot). PnL[i][j] is the theoretical
// price at Vols[i] and Spots[j] minus the purchase price. A Surface is built
// in one shot and never mutated afterwards.
type Surface struct {
	Spots []float64   `json:"spots"` // column labels, len == Samples
	Vols  []float64   `json:"vols"`  // row labels, len == Samples
	PnL   [][]float64 `json:"pnl"`   // Samples x Samples
}

// Samples returns the per-axis resolution of the surface.
func (s *Surface) Samples() int {
	return len(s.Vols)
}

// Generate prices every (vol, spot) combination of the two ranges, holding
// strike, expiry, rate and kind fixed from params, and subtracts
// purchasePrice from each cell.
//
// Both axes are evenly spaced with both endpoints included (samples-1 equal
// intervals). Every cell prices an independent Parameters value; there is no
// shared scratch state between cells. Either the full grid is returned or an
// error, never a partial one.
func Generate(params pricing.Parameters, spots, vols Range, purchasePrice float64, samples int) (*Surface, error) {
	if err := validate(spots, vols, purchasePrice, samples); err != nil {
		return nil, err
	}
	// Surfaces the fixed-field violations (strike, expiry, rate) before any
	// grid work; the range endpoints are already known positive.
	if err := params.WithSpotVol(spots.Min, vols.Min).Validate(); err != nil {
		return nil, err
	}

	spotSeq := floats.Span(make([]float64, samples), spots.Min, spots.Max)
	volSeq := floats.Span(make([]float64, samples), vols.Min, vols.Max)

	pnl := make([][]float64, samples)
	for i, vol := range volSeq {
		row := make([]float64, samples)
		for j, spot := range spotSeq {
			price, err := pricing.Price(params.WithSpotVol(spot, vol))
			if err != nil {
				return nil, err
			}
			row[j] = price - purchasePrice
		}
		pnl[i] = row
	}

	return &Surface{Spots: spotSeq, Vols: volSeq, PnL: pnl}, nil
}

func validate(spots, vols Range, purchasePrice float64, samples int) error {
	perr := &pricing.ParameterError{}

	checkBound(perr, "spot_range.min", spots.Min)
	checkBound(perr, "spot_range.max", spots.Max)
	checkBound(perr, "vol_range.min", vols.Min)
	checkBound(perr, "vol_range.max", vols.Max)

	if math.IsNaN(purchasePrice) || math.IsInf(purchasePrice, 0) {
		perr.Fields = append(perr.Fields, pricing.FieldError{
			Field: "purchase_price", Value: purchasePrice, Reason: "must be finite",
		})
	}
	if samples < 2 {
		perr.Fields = append(perr.Fields, pricing.FieldError{
			Field: "samples", Value: float64(samples), Reason: "must be at least 2",
		})
	}

	if perr.HasErrors() {
		return perr
	}
	return nil
}

// checkBound enforces strict positivity on a range endpoint. Both endpoints
// matter: the grid includes them, so e.g. vol_range.min = 0 would put an
// undefined cell in the first row.
func checkBound(perr *pricing.ParameterError, field string, v float64) {
	switch {
	case math.IsNaN(v) || math.IsInf(v, 0):
		perr.Fields = append(perr.Fields, pricing.FieldError{Field: field, Value: v, Reason: "must be finite"})
	case v <= 0:
		perr.Fields = append(perr.Fields, pricing.FieldError{Field: field, Value: v, Reason: "must be strictly positive"})
	}
}
