package ws

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/JMcKesey/black-scholes-visualizer/internal/pricing"
	"github.com/JMcKesey/black-scholes-visualizer/internal/surface"
)

// ScenarioRequest is one full set of exploration inputs. The client resends
// it whenever the user changes anything; every request is priced
// independently.
type ScenarioRequest struct {
	Type          string        `json:"type"` // must be "scenario"
	Spot          float64       `json:"spot"`
	Strike        float64       `json:"strike"`
	Years         float64       `json:"years"`
	Rate          float64       `json:"rate"`
	Vol           float64       `json:"vol"`
	SpotRange     surface.Range `json:"spot_range"`
	VolRange      surface.Range `json:"vol_range"`
	PurchasePrice float64       `json:"purchase_price"`
	Samples       *int          `json:"samples"`
}

// KindResult is the priced state of one option kind under the scenario.
type KindResult struct {
	Price float64     `json:"price"`
	Delta float64     `json:"delta"` // price minus purchase price
	PnL   [][]float64 `json:"pnl"`
}

// ScenarioResponse carries both kinds, the way the visual front end shows
// call and put side by side. The two PnL grids share the same axes.
type ScenarioResponse struct {
	Type  string     `json:"type"` // "result"
	Call  KindResult `json:"call"`
	Put   KindResult `json:"put"`
	Spots []float64  `json:"spots"`
	Vols  []float64  `json:"vols"`
}

// ErrorMessage reports a rejected scenario back to the client.
type ErrorMessage struct {
	Type   string               `json:"type"` // "error"
	Error  string               `json:"error"`
	Fields []pricing.FieldError `json:"fields,omitempty"`
}

func parseScenario(data []byte) (*ScenarioRequest, error) {
	var req ScenarioRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("parsing scenario: %w", err)
	}
	if req.Type != "scenario" {
		return nil, fmt.Errorf("unexpected message type %q", req.Type)
	}
	return &req, nil
}

// evaluate prices the scenario for both option kinds and builds both PnL
// surfaces.
func evaluate(req *ScenarioRequest, maxSamples int) (*ScenarioResponse, error) {
	samples := surface.DefaultSamples
	if req.Samples != nil {
		samples = *req.Samples
	}
	if samples > maxSamples {
		return nil, &pricing.ParameterError{Fields: []pricing.FieldError{{
			Field:  "samples",
			Value:  float64(samples),
			Reason: fmt.Sprintf("must be at most %d", maxSamples),
		}}}
	}

	base := pricing.Parameters{
		Spot:         req.Spot,
		Strike:       req.Strike,
		TimeToExpiry: req.Years,
		Rate:         req.Rate,
		Vol:          req.Vol,
	}

	resp := &ScenarioResponse{Type: "result"}
	for _, kind := range []pricing.OptionKind{pricing.Call, pricing.Put} {
		params := base
		params.Kind = kind

		price, err := pricing.Price(params)
		if err != nil {
			return nil, err
		}
		surf, err := surface.Generate(params, req.SpotRange, req.VolRange, req.PurchasePrice, samples)
		if err != nil {
			return nil, err
		}

		result := KindResult{
			Price: price,
			Delta: price - req.PurchasePrice,
			PnL:   surf.PnL,
		}
		switch kind {
		case pricing.Call:
			resp.Call = result
		case pricing.Put:
			resp.Put = result
		}
		resp.Spots = surf.Spots
		resp.Vols = surf.Vols
	}

	return resp, nil
}

func errorMessage(err error) *ErrorMessage {
	msg := &ErrorMessage{Type: "error", Error: err.Error()}
	var perr *pricing.ParameterError
	if errors.As(err, &perr) {
		msg.Error = "invalid parameters"
		msg.Fields = perr.Fields
	}
	return msg
}
