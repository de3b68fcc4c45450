package surface

import (
	"errors"
	"math"
	"testing"

	"github.com/JMcKesey/black-scholes-visualizer/internal/pricing"
)

var baseParams = pricing.Parameters{
	Spot:         100,
	Strike:       100,
	TimeToExpiry: 2,
	Rate:         0.05,
	Vol:          0.05,
	Kind:         pricing.Call,
}

func TestGenerate_Dimensions(t *testing.T) {
	s, err := Generate(baseParams, Range{Min: 50, Max: 150}, Range{Min: 0.01, Max: 1}, 100, DefaultSamples)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(s.Spots) != DefaultSamples {
		t.Errorf("len(Spots) = %d, want %d", len(s.Spots), DefaultSamples)
	}
	if len(s.Vols) != DefaultSamples {
		t.Errorf("len(Vols) = %d, want %d", len(s.Vols), DefaultSamples)
	}
	if len(s.PnL) != DefaultSamples {
		t.Fatalf("len(PnL) = %d, want %d", len(s.PnL), DefaultSamples)
	}
	for i, row := range s.PnL {
		if len(row) != DefaultSamples {
			t.Errorf("len(PnL[%d]) = %d, want %d", i, len(row), DefaultSamples)
		}
	}
	if s.Samples() != DefaultSamples {
		t.Errorf("Samples() = %d, want %d", s.Samples(), DefaultSamples)
	}
}

func TestGenerate_AxisSpacing(t *testing.T) {
	s, err := Generate(baseParams, Range{Min: 50, Max: 150}, Range{Min: 0.1, Max: 1}, 0, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Endpoints included, samples-1 equal intervals, ascending for min < max.
	if s.Spots[0] != 50 || s.Spots[len(s.Spots)-1] != 150 {
		t.Errorf("spot endpoints = %v, %v", s.Spots[0], s.Spots[len(s.Spots)-1])
	}
	if s.Vols[0] != 0.1 || s.Vols[len(s.Vols)-1] != 1 {
		t.Errorf("vol endpoints = %v, %v", s.Vols[0], s.Vols[len(s.Vols)-1])
	}

	step := s.Spots[1] - s.Spots[0]
	for i := 1; i < len(s.Spots); i++ {
		if math.Abs((s.Spots[i]-s.Spots[i-1])-step) > 1e-9 {
			t.Errorf("uneven spot spacing at %d: %v", i, s.Spots[i]-s.Spots[i-1])
		}
		if s.Spots[i] <= s.Spots[i-1] {
			t.Errorf("spot axis not monotonic at %d", i)
		}
	}
}

func TestGenerate_ReconcilesWithPrice(t *testing.T) {
	const purchase = 7.5
	s, err := Generate(baseParams, Range{Min: 80, Max: 120}, Range{Min: 0.05, Max: 0.5}, purchase, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i, vol := range s.Vols {
		for j, spot := range s.Spots {
			want, err := pricing.Price(baseParams.WithSpotVol(spot, vol))
			if err != nil {
				t.Fatalf("pricing cell (%d,%d): %v", i, j, err)
			}
			if s.PnL[i][j] != want-purchase {
				t.Errorf("cell (%d,%d) = %v, want %v", i, j, s.PnL[i][j], want-purchase)
			}
		}
	}
}

func TestGenerate_ZeroWidthRangesGiveConstantGrid(t *testing.T) {
	s, err := Generate(baseParams, Range{Min: 100, Max: 100}, Range{Min: 0.05, Max: 0.05}, 3, DefaultSamples)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want, err := pricing.Price(baseParams.WithSpotVol(100, 0.05))
	if err != nil {
		t.Fatalf("pricing: %v", err)
	}
	for i, row := range s.PnL {
		for j, cell := range row {
			if cell != want-3 {
				t.Errorf("cell (%d,%d) = %v, want %v", i, j, cell, want-3)
			}
		}
	}
}

func TestGenerate_DescendingRangeAccepted(t *testing.T) {
	s, err := Generate(baseParams, Range{Min: 150, Max: 50}, Range{Min: 0.1, Max: 1}, 0, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 1; i < len(s.Spots); i++ {
		if s.Spots[i] >= s.Spots[i-1] {
			t.Fatalf("expected descending spot axis, got %v", s.Spots)
		}
	}
}

func TestGenerate_Idempotent(t *testing.T) {
	first, err := Generate(baseParams, Range{Min: 50, Max: 150}, Range{Min: 0.01, Max: 1}, 100, DefaultSamples)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := Generate(baseParams, Range{Min: 50, Max: 150}, Range{Min: 0.01, Max: 1}, 100, DefaultSamples)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := range first.PnL {
		for j := range first.PnL[i] {
			if first.PnL[i][j] != second.PnL[i][j] {
				t.Fatalf("cell (%d,%d) differs between identical runs", i, j)
			}
		}
	}
}

func TestGenerate_InvalidInputs(t *testing.T) {
	tests := []struct {
		name    string
		spots   Range
		vols    Range
		samples int
		field   string
	}{
		{"zero vol min", Range{Min: 50, Max: 150}, Range{Min: 0, Max: 1}, 10, "vol_range.min"},
		{"negative spot max", Range{Min: 50, Max: -1}, Range{Min: 0.1, Max: 1}, 10, "spot_range.max"},
		{"one sample", Range{Min: 50, Max: 150}, Range{Min: 0.1, Max: 1}, 1, "samples"},
		{"nan vol max", Range{Min: 50, Max: 150}, Range{Min: 0.1, Max: math.NaN()}, 10, "vol_range.max"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Generate(baseParams, tt.spots, tt.vols, 0, tt.samples)
			var perr *pricing.ParameterError
			if !errors.As(err, &perr) {
				t.Fatalf("expected *ParameterError, got %v", err)
			}
			found := false
			for _, f := range perr.Fields {
				if f.Field == tt.field {
					found = true
				}
			}
			if !found {
				t.Errorf("expected field %q in %v", tt.field, perr)
			}
		})
	}
}

func TestGenerate_InvalidFixedParams(t *testing.T) {
	bad := baseParams
	bad.TimeToExpiry = 0
	_, err := Generate(bad, Range{Min: 50, Max: 150}, Range{Min: 0.1, Max: 1}, 0, 10)
	var perr *pricing.ParameterError
	if !errors.As(err, &perr) {
		t.Fatalf("expected *ParameterError, got %v", err)
	}
	if perr.Fields[0].Field != "time_to_expiry" {
		t.Errorf("expected time_to_expiry violation, got %v", perr)
	}
}

func TestGenerate_UnsupportedKind(t *testing.T) {
	bad := baseParams
	bad.Kind = pricing.OptionKind(9)
	_, err := Generate(bad, Range{Min: 50, Max: 150}, Range{Min: 0.1, Max: 1}, 0, 10)
	var kerr *pricing.UnsupportedKindError
	if !errors.As(err, &kerr) {
		t.Fatalf("expected *UnsupportedKindError, got %v", err)
	}
}
