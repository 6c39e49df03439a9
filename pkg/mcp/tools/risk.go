package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/agrilend/agrilend-engine/pkg/risk"
	"github.com/agrilend/agrilend-engine/pkg/services"
)

// RiskToolDeps contains dependencies for risk assessment tools.
type RiskToolDeps struct {
	Risk      services.RiskService
	Analytics services.AnalyticsService
	Logger    *zap.Logger
}

// RegisterRiskTools registers the risk assessment MCP tools.
func RegisterRiskTools(s *server.MCPServer, deps *RiskToolDeps) {
	registerDefaultRiskTool(s, deps)
	registerNonAccrualRiskTool(s, deps)
	registerCollateralSufficiencyTool(s, deps)
	registerHighRiskFarmersTool(s, deps)
}

func registerDefaultRiskTool(s *server.MCPServer, deps *RiskToolDeps) {
	tool := mcp.NewTool(
		"get_borrower_default_risk",
		mcp.WithDescription(
			"Compute a borrower's default risk score (0-100) with contributing factors "+
				"and recommendations. Pass time_horizon to get a projected default probability instead.",
		),
		mcp.WithString(
			"borrower_id",
			mcp.Required(),
			mcp.Description("Borrower ID in the format B<number>, e.g. B001"),
		),
		mcp.WithString(
			"time_horizon",
			mcp.Description("Optional projection horizon"),
			mcp.Enum(risk.HorizonShortTerm, risk.HorizonMediumTerm, risk.HorizonLongTerm),
		),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithIdempotentHintAnnotation(true),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		borrowerID, errResult, err := requireBorrowerID(req)
		if errResult != nil || err != nil {
			return errResult, err
		}

		if horizon := trimString(req.GetString("time_horizon", "")); horizon != "" {
			p, err := deps.Analytics.PredictDefaultRisk(ctx, borrowerID, horizon)
			if err != nil {
				return serviceErrorResult(err)
			}
			return jsonResult(p)
		}

		assessment, err := deps.Risk.DefaultRisk(ctx, borrowerID)
		if err != nil {
			return serviceErrorResult(err)
		}
		return jsonResult(assessment)
	})
}

func registerNonAccrualRiskTool(s *server.MCPServer, deps *RiskToolDeps) {
	tool := mcp.NewTool(
		"get_borrower_non_accrual_risk",
		mcp.WithDescription(
			"Compute a borrower's non-accrual risk score and estimated recovery probability "+
				"from their payment history.",
		),
		mcp.WithString(
			"borrower_id",
			mcp.Required(),
			mcp.Description("Borrower ID in the format B<number>, e.g. B001"),
		),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithIdempotentHintAnnotation(true),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		borrowerID, errResult, err := requireBorrowerID(req)
		if errResult != nil || err != nil {
			return errResult, err
		}

		assessment, err := deps.Risk.NonAccrualRisk(ctx, borrowerID)
		if err != nil {
			return serviceErrorResult(err)
		}
		return jsonResult(assessment)
	})
}

func registerCollateralSufficiencyTool(s *server.MCPServer, deps *RiskToolDeps) {
	tool := mcp.NewTool(
		"evaluate_collateral_sufficiency",
		mcp.WithDescription(
			"Evaluate whether a loan's collateral is sufficient: computes the loan-to-value "+
				"ratio with a market-condition multiplier applied to collateral value.",
		),
		mcp.WithString(
			"loan_id",
			mcp.Required(),
			mcp.Description("Loan ID in the format L<number>, e.g. L001"),
		),
		mcp.WithString(
			"market_conditions",
			mcp.Description("Market conditions for collateral valuation, defaults to stable"),
			mcp.Enum(risk.MarketStable, risk.MarketDeclining, risk.MarketImproving),
		),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithIdempotentHintAnnotation(true),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		loanID, errResult, err := requireLoanID(req)
		if errResult != nil || err != nil {
			return errResult, err
		}

		market := trimString(req.GetString("market_conditions", ""))
		assessment, err := deps.Risk.CollateralSufficiency(ctx, loanID, market)
		if err != nil {
			return serviceErrorResult(err)
		}
		return jsonResult(assessment)
	})
}

func registerHighRiskFarmersTool(s *server.MCPServer, deps *RiskToolDeps) {
	tool := mcp.NewTool(
		"get_high_risk_farmers",
		mcp.WithDescription(
			"List borrowers whose default risk score meets or exceeds a threshold, "+
				"highest risk first.",
		),
		mcp.WithNumber(
			"threshold",
			mcp.Description("Minimum risk score, defaults to 70"),
		),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithIdempotentHintAnnotation(true),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		threshold := req.GetFloat("threshold", 0)
		farmers, err := deps.Risk.HighRiskFarmers(ctx, threshold)
		if err != nil {
			return serviceErrorResult(err)
		}
		return jsonResult(map[string]any{
			"farmers": farmers,
			"count":   len(farmers),
		})
	})
}
