package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/JMcKesey/black-scholes-visualizer/internal/config"
	"github.com/JMcKesey/black-scholes-visualizer/internal/pricing"
	"github.com/JMcKesey/black-scholes-visualizer/internal/surface"
)

type Server struct {
	config *config.ServerConfig
	logger *zap.Logger
}

func NewServer(cfg *config.ServerConfig, logger *zap.Logger) *Server {
	return &Server{
		config: cfg,
		logger: logger,
	}
}

type optionPayload struct {
	Spot   float64 `json:"spot"`
	Strike float64 `json:"strike"`
	Years  float64 `json:"years"`
	Rate   float64 `json:"rate"`
	Vol    float64 `json:"vol"`
	Kind   string  `json:"kind"`
}

func (o optionPayload) params() (pricing.Parameters, error) {
	kind, err := pricing.ParseOptionKind(o.Kind)
	if err != nil {
		return pricing.Parameters{}, err
	}
	return pricing.Parameters{
		Spot:         o.Spot,
		Strike:       o.Strike,
		TimeToExpiry: o.Years,
		Rate:         o.Rate,
		Vol:          o.Vol,
		Kind:         kind,
	}, nil
}

type priceRequest struct {
	optionPayload
	PurchasePrice *float64 `json:"purchase_price"`
}

type priceResponse struct {
	Price float64  `json:"price"`
	Delta *float64 `json:"delta,omitempty"`
}

type surfaceRequest struct {
	Option        optionPayload `json:"option"`
	SpotRange     surface.Range `json:"spot_range"`
	VolRange      surface.Range `json:"vol_range"`
	PurchasePrice float64       `json:"purchase_price"`
	Samples       *int          `json:"samples"`
}

type errorResponse struct {
	Error  string               `json:"error"`
	Fields []pricing.FieldError `json:"fields,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handlePrice(w http.ResponseWriter, r *http.Request) {
	var req priceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("decoding request: %w", err))
		return
	}

	params, err := req.params()
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	price, err := pricing.Price(params)
	if err != nil {
		s.writePricingError(w, err)
		return
	}

	resp := priceResponse{Price: price}
	if req.PurchasePrice != nil {
		delta := price - *req.PurchasePrice
		resp.Delta = &delta
	}

	s.logger.Debug("priced option",
		zap.String("kind", params.Kind.String()),
		zap.Float64("spot", params.Spot),
		zap.Float64("strike", params.Strike),
		zap.Float64("price", price),
	)

	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSurface(w http.ResponseWriter, r *http.Request) {
	var req surfaceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("decoding request: %w", err))
		return
	}

	params, err := req.Option.params()
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	samples := surface.DefaultSamples
	if req.Samples != nil {
		samples = *req.Samples
	}
	if samples > s.config.MaxSamples {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{
			Error: "invalid parameters",
			Fields: []pricing.FieldError{{
				Field:  "samples",
				Value:  float64(samples),
				Reason: fmt.Sprintf("must be at most %d", s.config.MaxSamples),
			}},
		})
		return
	}

	surf, err := surface.Generate(params, req.SpotRange, req.VolRange, req.PurchasePrice, samples)
	if err != nil {
		s.writePricingError(w, err)
		return
	}

	s.logger.Debug("generated surface",
		zap.String("kind", params.Kind.String()),
		zap.Int("samples", samples),
	)

	s.writeJSON(w, http.StatusOK, surf)
}

// writePricingError maps core errors to HTTP statuses: parameter violations
// are the client's to fix, an unsupported kind that survived request
// validation is an internal bug.
func (s *Server) writePricingError(w http.ResponseWriter, err error) {
	var perr *pricing.ParameterError
	if errors.As(err, &perr) {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:  "invalid parameters",
			Fields: perr.Fields,
		})
		return
	}

	var kerr *pricing.UnsupportedKindError
	if errors.As(err, &kerr) {
		s.logger.Error("unsupported option kind reached the engine", zap.Error(kerr))
		s.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}

	s.logger.Error("pricing failed", zap.Error(err))
	s.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, errorResponse{Error: err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Warn("writing response", zap.Error(err))
	}
}
