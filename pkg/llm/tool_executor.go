package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/agrilend/agrilend-engine/pkg/jsonutil"
	"github.com/agrilend/agrilend-engine/pkg/services"
)

// ToolExecutor dispatches a named tool call with JSON arguments and returns
// a JSON result string.
type ToolExecutor interface {
	ExecuteTool(ctx context.Context, name string, arguments string) (string, error)
}

// LendingToolExecutor implements ToolExecutor against the lending, risk,
// and analytics services directly, with no internal HTTP hop.
type LendingToolExecutor struct {
	lending   services.LendingService
	risk      services.RiskService
	analytics services.AnalyticsService
	logger    *zap.Logger
}

// NewLendingToolExecutor creates a tool executor over the given services.
func NewLendingToolExecutor(
	lending services.LendingService,
	risk services.RiskService,
	analytics services.AnalyticsService,
	logger *zap.Logger,
) *LendingToolExecutor {
	return &LendingToolExecutor{
		lending:   lending,
		risk:      risk,
		analytics: analytics,
		logger:    logger.Named("tool-executor"),
	}
}

var _ ToolExecutor = (*LendingToolExecutor)(nil)

// toolArgs is decoded leniently: models sometimes emit IDs as numbers or
// thresholds as quoted strings, so scalar fields pass through jsonutil.
type toolArgs struct {
	LoanID           string
	BorrowerID       string
	Commodity        string
	Season           string
	TimeHorizon      string
	MarketConditions string
	Threshold        float64
}

type rawToolArgs struct {
	LoanID           json.RawMessage `json:"loan_id"`
	BorrowerID       json.RawMessage `json:"borrower_id"`
	Commodity        json.RawMessage `json:"commodity"`
	Season           json.RawMessage `json:"season"`
	TimeHorizon      json.RawMessage `json:"time_horizon"`
	MarketConditions json.RawMessage `json:"market_conditions"`
	Threshold        json.RawMessage `json:"threshold"`
}

func (r *rawToolArgs) resolve() toolArgs {
	return toolArgs{
		LoanID:           jsonutil.FlexibleString(r.LoanID),
		BorrowerID:       jsonutil.FlexibleString(r.BorrowerID),
		Commodity:        jsonutil.FlexibleString(r.Commodity),
		Season:           jsonutil.FlexibleString(r.Season),
		TimeHorizon:      jsonutil.FlexibleString(r.TimeHorizon),
		MarketConditions: jsonutil.FlexibleString(r.MarketConditions),
		Threshold:        jsonutil.FlexibleFloat(r.Threshold),
	}
}

// ExecuteTool dispatches to the appropriate service call based on name.
func (e *LendingToolExecutor) ExecuteTool(ctx context.Context, name string, arguments string) (string, error) {
	e.logger.Debug("Executing tool",
		zap.String("tool", name),
		zap.String("arguments", arguments))

	var raw rawToolArgs
	if arguments != "" {
		if err := json.Unmarshal([]byte(arguments), &raw); err != nil {
			return "", fmt.Errorf("invalid arguments: %w", err)
		}
	}
	args := raw.resolve()

	var result any
	var err error
	switch name {
	case "get_loan_details":
		result, err = e.lending.GetLoan(ctx, args.LoanID)
	case "get_borrower_details":
		result, err = e.lending.GetBorrower(ctx, args.BorrowerID)
	case "get_active_loans":
		result, err = e.lending.ListActiveLoans(ctx)
	case "get_loan_summary":
		result, err = e.lending.LoanSummary(ctx)
	case "get_loan_payments":
		result, err = e.lending.GetLoanPayments(ctx, args.LoanID)
	case "get_loan_collateral":
		result, err = e.lending.GetLoanCollateral(ctx, args.LoanID)
	case "get_borrower_loans":
		result, err = e.lending.GetBorrowerLoans(ctx, args.BorrowerID)
	case "get_borrower_default_risk":
		if args.TimeHorizon != "" {
			result, err = e.analytics.PredictDefaultRisk(ctx, args.BorrowerID, args.TimeHorizon)
		} else {
			result, err = e.risk.DefaultRisk(ctx, args.BorrowerID)
		}
	case "get_borrower_non_accrual_risk":
		result, err = e.risk.NonAccrualRisk(ctx, args.BorrowerID)
	case "evaluate_collateral_sufficiency":
		result, err = e.risk.CollateralSufficiency(ctx, args.LoanID, args.MarketConditions)
	case "get_high_risk_farmers":
		result, err = e.risk.HighRiskFarmers(ctx, args.Threshold)
	case "predict_crop_yield_risk":
		result, err = e.analytics.CropYieldRisk(ctx, args.BorrowerID, args.Season)
	case "analyze_market_price_impact":
		result, err = e.analytics.MarketPriceImpact(ctx, args.Commodity)
	case "get_restructuring_options":
		result, err = e.analytics.RestructuringOptions(ctx, args.LoanID)
	default:
		return "", fmt.Errorf("unknown tool: %s", name)
	}
	if err != nil {
		return "", err
	}

	encoded, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("failed to encode tool result: %w", err)
	}
	return string(encoded), nil
}
