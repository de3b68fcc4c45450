package server

import (
	"bytes"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/JMcKesey/black-scholes-visualizer/internal/config"
	"github.com/JMcKesey/black-scholes-visualizer/internal/pricing"
)

func testRouter(t *testing.T) http.Handler {
	t.Helper()

	cfg := &config.ServerConfig{
		Port:            "8080",
		MaxSamples:      50,
		RateLimitPerSec: 100,
		RateLimitBurst:  200,
	}
	logger := zap.NewNop()

	router, err := NewRouter(NewServer(cfg, logger), nil, logger)
	if err != nil {
		t.Fatalf("building router: %v", err)
	}
	return router
}

func postJSON(t *testing.T, router http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshaling request: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = "127.0.0.1:50000"

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	router := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.RemoteAddr = "127.0.0.1:50000"
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestPostPrice(t *testing.T) {
	router := testRouter(t)

	rec := postJSON(t, router, "/v1/price", map[string]any{
		"spot": 100, "strike": 100, "years": 1, "rate": 0.05, "vol": 0.2, "kind": "call",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body: %s)", rec.Code, rec.Body.String())
	}

	var resp priceResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if math.Abs(resp.Price-10.450583572185565) > 1e-9 {
		t.Errorf("price = %v, want ~10.4506", resp.Price)
	}
	if resp.Delta != nil {
		t.Errorf("expected no delta without purchase_price, got %v", *resp.Delta)
	}
}

func TestPostPrice_WithPurchasePrice(t *testing.T) {
	router := testRouter(t)

	rec := postJSON(t, router, "/v1/price", map[string]any{
		"spot": 100, "strike": 100, "years": 1, "rate": 0.05, "vol": 0.2, "kind": "call",
		"purchase_price": 8.0,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body: %s)", rec.Code, rec.Body.String())
	}

	var resp priceResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Delta == nil {
		t.Fatal("expected delta with purchase_price")
	}
	if math.Abs(*resp.Delta-(resp.Price-8.0)) > 1e-12 {
		t.Errorf("delta = %v, want price-8 = %v", *resp.Delta, resp.Price-8.0)
	}
}

func TestPostPrice_DomainViolation(t *testing.T) {
	router := testRouter(t)

	rec := postJSON(t, router, "/v1/price", map[string]any{
		"spot": 100, "strike": 100, "years": 0, "rate": 0.05, "vol": 0.2, "kind": "call",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 (body: %s)", rec.Code, rec.Body.String())
	}

	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(resp.Fields) != 1 || resp.Fields[0].Field != "time_to_expiry" {
		t.Errorf("unexpected field errors: %+v", resp.Fields)
	}
}

func TestPostPrice_SchemaViolation(t *testing.T) {
	router := testRouter(t)

	// Missing required fields fails OpenAPI validation before the handler.
	rec := postJSON(t, router, "/v1/price", map[string]any{"spot": 100})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 (body: %s)", rec.Code, rec.Body.String())
	}
}

func TestPostSurface(t *testing.T) {
	router := testRouter(t)

	rec := postJSON(t, router, "/v1/surface", map[string]any{
		"option": map[string]any{
			"spot": 100, "strike": 100, "years": 2, "rate": 0.05, "vol": 0.05, "kind": "call",
		},
		"spot_range":     map[string]any{"min": 50, "max": 150},
		"vol_range":      map[string]any{"min": 0.01, "max": 1},
		"purchase_price": 100,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body: %s)", rec.Code, rec.Body.String())
	}

	var resp struct {
		Spots []float64   `json:"spots"`
		Vols  []float64   `json:"vols"`
		PnL   [][]float64 `json:"pnl"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(resp.Spots) != 10 || len(resp.Vols) != 10 || len(resp.PnL) != 10 {
		t.Errorf("unexpected grid shape: %d spots, %d vols, %d rows",
			len(resp.Spots), len(resp.Vols), len(resp.PnL))
	}

	// Spot-check one cell against a direct engine call.
	want, err := pricing.Price(pricing.Parameters{
		Spot: resp.Spots[3], Strike: 100, TimeToExpiry: 2, Rate: 0.05, Vol: resp.Vols[7], Kind: pricing.Call,
	})
	if err != nil {
		t.Fatalf("pricing: %v", err)
	}
	if math.Abs(resp.PnL[7][3]-(want-100)) > 1e-9 {
		t.Errorf("cell (7,3) = %v, want %v", resp.PnL[7][3], want-100)
	}
}

func TestPostSurface_CustomSamples(t *testing.T) {
	router := testRouter(t)

	rec := postJSON(t, router, "/v1/surface", map[string]any{
		"option": map[string]any{
			"spot": 100, "strike": 100, "years": 2, "rate": 0.05, "vol": 0.05, "kind": "put",
		},
		"spot_range":     map[string]any{"min": 50, "max": 150},
		"vol_range":      map[string]any{"min": 0.01, "max": 1},
		"purchase_price": 0,
		"samples":        5,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body: %s)", rec.Code, rec.Body.String())
	}

	var resp struct {
		PnL [][]float64 `json:"pnl"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(resp.PnL) != 5 || len(resp.PnL[0]) != 5 {
		t.Errorf("unexpected grid shape for samples=5: %d rows", len(resp.PnL))
	}
}

func TestPostSurface_SamplesAboveLimit(t *testing.T) {
	router := testRouter(t)

	rec := postJSON(t, router, "/v1/surface", map[string]any{
		"option": map[string]any{
			"spot": 100, "strike": 100, "years": 2, "rate": 0.05, "vol": 0.05, "kind": "call",
		},
		"spot_range":     map[string]any{"min": 50, "max": 150},
		"vol_range":      map[string]any{"min": 0.01, "max": 1},
		"purchase_price": 0,
		"samples":        500,
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 (body: %s)", rec.Code, rec.Body.String())
	}

	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(resp.Fields) != 1 || resp.Fields[0].Field != "samples" {
		t.Errorf("unexpected field errors: %+v", resp.Fields)
	}
}

func TestPostSurface_ZeroVolBound(t *testing.T) {
	router := testRouter(t)

	rec := postJSON(t, router, "/v1/surface", map[string]any{
		"option": map[string]any{
			"spot": 100, "strike": 100, "years": 2, "rate": 0.05, "vol": 0.05, "kind": "call",
		},
		"spot_range":     map[string]any{"min": 50, "max": 150},
		"vol_range":      map[string]any{"min": 0, "max": 1},
		"purchase_price": 0,
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 (body: %s)", rec.Code, rec.Body.String())
	}

	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(resp.Fields) != 1 || resp.Fields[0].Field != "vol_range.min" {
		t.Errorf("unexpected field errors: %+v", resp.Fields)
	}
}
