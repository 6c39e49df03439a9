package handlers

import (
	"net/http"
	"testing"

	"go.uber.org/zap"

	"github.com/agrilend/agrilend-engine/pkg/risk"
)

func newAnalyticsTestMux() (*http.ServeMux, *stubAnalyticsService) {
	mux := http.NewServeMux()
	analytics := &stubAnalyticsService{}
	NewAnalyticsHandler(analytics, zap.NewNop()).RegisterRoutes(mux, newTestAuthMiddleware())
	return mux, analytics
}

func TestAnalyticsHandler_PredictDefaultRisk(t *testing.T) {
	mux, analytics := newAnalyticsTestMux()

	var p risk.DefaultProbability
	rec := doRequest(t, mux, http.MethodGet,
		"/api/analytics/predict/default-risk/B001?time_horizon=long_term", &p)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if p.DefaultProbability != 0.28 {
		t.Errorf("unexpected probability: %+v", p)
	}
	if analytics.lastHorizon != "long_term" {
		t.Errorf("expected long_term horizon, got %q", analytics.lastHorizon)
	}
}

func TestAnalyticsHandler_PredictNonAccrualRisk(t *testing.T) {
	mux, _ := newAnalyticsTestMux()

	var a risk.NonAccrualAssessment
	rec := doRequest(t, mux, http.MethodGet, "/api/analytics/predict/non-accrual-risk/B001", &a)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if a.RiskScore != 45 {
		t.Errorf("unexpected assessment: %+v", a)
	}
}

func TestAnalyticsHandler_LoanRestructuring(t *testing.T) {
	mux, _ := newAnalyticsTestMux()

	var plan risk.RestructuringPlan
	rec := doRequest(t, mux, http.MethodGet, "/api/analytics/loan-restructuring/L001", &plan)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if plan.LoanID != "L001" || plan.CurrentMonthlyPayment != 909.59 {
		t.Errorf("unexpected plan: %+v", plan)
	}
}

func TestAnalyticsHandler_CropYieldRisk_PassesSeason(t *testing.T) {
	mux, analytics := newAnalyticsTestMux()

	var a risk.CropYieldAssessment
	rec := doRequest(t, mux, http.MethodGet, "/api/analytics/crop-yield-risk/B001?season=spring", &a)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if analytics.lastSeason != "spring" {
		t.Errorf("expected spring passed through, got %q", analytics.lastSeason)
	}
}

func TestAnalyticsHandler_MarketPriceImpact(t *testing.T) {
	mux, _ := newAnalyticsTestMux()

	var m risk.MarketPriceImpact
	rec := doRequest(t, mux, http.MethodGet, "/api/analytics/market-price-impact/wheat", &m)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if m.ImpactScore != 71 {
		t.Errorf("unexpected impact: %+v", m)
	}
}

func TestAnalyticsHandler_MarketPriceImpact_Unknown(t *testing.T) {
	mux, _ := newAnalyticsTestMux()

	rec := doRequest(t, mux, http.MethodGet, "/api/analytics/market-price-impact/tulips", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, rec.Code)
	}
}
