package risk

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/agrilend/agrilend-engine/pkg/models"
)

// CropYieldAssessment estimates next-season yield risk for a borrower's
// farm type. The numeric score is intentionally non-deterministic (a new
// sample is drawn on every call); only the factor lookup is reproducible.
type CropYieldAssessment struct {
	BorrowerID      string   `json:"borrower_id"`
	CropType        string   `json:"crop_type"`
	Season          string   `json:"season"`
	RiskScore       float64  `json:"risk_score"`
	RiskLevel       string   `json:"risk_level"`
	YieldImpactPct  float64  `json:"yield_impact_pct"`
	Factors         []string `json:"factors"`
	Recommendations []string `json:"recommendations"`
}

// cropRiskFactors maps crop type to the static risk-factor strings reported
// alongside the sampled score.
var cropRiskFactors = map[string][]string{
	"corn":      {"Drought sensitivity during pollination", "Corn rootworm pressure in continuous planting"},
	"wheat":     {"Late-spring frost exposure", "Fusarium head blight in wet seasons"},
	"soybeans":  {"Sudden death syndrome in poorly drained fields", "Market dependence on export demand"},
	"cotton":    {"Boll weevil and bollworm pressure", "High irrigation requirements"},
	"rice":      {"Water availability constraints", "Blast disease risk in humid conditions"},
	"livestock": {"Feed price volatility", "Disease outbreak exposure in concentrated operations"},
}

var defaultCropFactors = []string{"General weather variability", "Input cost volatility"}

// ScoreCropYieldRisk samples a yield risk score in [50, 85) and combines it
// with the static factor table for the borrower's farm type. rng must be
// non-nil; inject a seeded source in tests.
func ScoreCropYieldRisk(borrower *models.Borrower, season string, rng *rand.Rand) *CropYieldAssessment {
	cropType := strings.ToLower(strings.TrimSpace(borrower.FarmType))
	if cropType == "" {
		cropType = "mixed"
	}
	if season == "" {
		season = "current"
	}

	score := 50 + rng.Float64()*35

	a := &CropYieldAssessment{
		BorrowerID:     borrower.BorrowerID,
		CropType:       cropType,
		Season:         season,
		RiskScore:      ClampScore(score),
		YieldImpactPct: round4((score - 50) / 35 * 20), // up to 20% projected yield loss
	}
	a.RiskLevel = LevelForScore(a.RiskScore)

	factors, ok := cropRiskFactors[cropType]
	if !ok {
		factors = defaultCropFactors
	}
	a.Factors = append(a.Factors, factors...)

	if a.RiskLevel == LevelHigh {
		a.Recommendations = append(a.Recommendations, "Verify crop insurance coverage before the season starts")
	}
	a.Recommendations = append(a.Recommendations,
		fmt.Sprintf("Review %s production plan against projected yield impact of %.1f%%", cropType, a.YieldImpactPct))

	return a
}

// MarketPriceImpact estimates how commodity price movement affects loan
// serviceability for borrowers producing that commodity.
type MarketPriceImpact struct {
	Commodity       string   `json:"commodity"`
	Volatility      float64  `json:"volatility"`
	Trend           string   `json:"trend"`
	ImpactScore     float64  `json:"impact_score"`
	ImpactLevel     string   `json:"impact_level"`
	PriceDropEffect []string `json:"price_drop_effect"`
	Recommendations []string `json:"recommendations"`
}

// commodityProfile holds the static market lookup entry per commodity.
type commodityProfile struct {
	volatility float64 // 0-1 annualized volatility estimate
	trend      string
}

var commodityProfiles = map[string]commodityProfile{
	"corn":     {volatility: 0.22, trend: "stable"},
	"wheat":    {volatility: 0.28, trend: "declining"},
	"soybeans": {volatility: 0.25, trend: "improving"},
	"cotton":   {volatility: 0.30, trend: "declining"},
	"rice":     {volatility: 0.18, trend: "stable"},
	"cattle":   {volatility: 0.20, trend: "improving"},
	"dairy":    {volatility: 0.24, trend: "stable"},
}

// ScoreMarketPriceImpact computes the price-impact assessment for a
// commodity from the static profile table. Returns false when the
// commodity is not tracked.
func ScoreMarketPriceImpact(commodity string) (*MarketPriceImpact, bool) {
	key := strings.ToLower(strings.TrimSpace(commodity))
	profile, ok := commodityProfiles[key]
	if !ok {
		return nil, false
	}

	score := profile.volatility * 200 // 0.30 volatility -> 60
	if profile.trend == "declining" {
		score += 15
	}

	m := &MarketPriceImpact{
		Commodity:   key,
		Volatility:  profile.volatility,
		Trend:       profile.trend,
		ImpactScore: ClampScore(score),
		PriceDropEffect: []string{
			fmt.Sprintf("A 10%% price drop reduces projected revenue by roughly %.1f%%", profile.volatility*10*3),
			fmt.Sprintf("A 20%% price drop reduces projected revenue by roughly %.1f%%", profile.volatility*20*3),
		},
	}
	m.ImpactLevel = LevelForScore(m.ImpactScore)

	switch m.ImpactLevel {
	case LevelHigh:
		m.Recommendations = append(m.Recommendations,
			fmt.Sprintf("Stress-test %s producers' repayment capacity against a 20%% price decline", key))
	default:
		m.Recommendations = append(m.Recommendations,
			fmt.Sprintf("Track %s futures monthly; current trend is %s", key, profile.trend))
	}

	return m, true
}

// Commodities returns the list of commodities with market profiles.
func Commodities() []string {
	out := make([]string, 0, len(commodityProfiles))
	for k := range commodityProfiles {
		out = append(out, k)
	}
	return out
}
