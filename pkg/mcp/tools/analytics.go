package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/agrilend/agrilend-engine/pkg/services"
)

// AnalyticsToolDeps contains dependencies for predictive analytics tools.
type AnalyticsToolDeps struct {
	Analytics services.AnalyticsService
	Logger    *zap.Logger
}

// RegisterAnalyticsTools registers the predictive analytics MCP tools.
func RegisterAnalyticsTools(s *server.MCPServer, deps *AnalyticsToolDeps) {
	registerCropYieldRiskTool(s, deps)
	registerMarketPriceImpactTool(s, deps)
	registerRestructuringOptionsTool(s, deps)
}

func registerCropYieldRiskTool(s *server.MCPServer, deps *AnalyticsToolDeps) {
	tool := mcp.NewTool(
		"predict_crop_yield_risk",
		mcp.WithDescription(
			"Estimate next-season crop yield risk for a borrower's farm type. "+
				"The numeric score is sampled per call; the risk factors are static per crop.",
		),
		mcp.WithString(
			"borrower_id",
			mcp.Required(),
			mcp.Description("Borrower ID in the format B<number>, e.g. B001"),
		),
		mcp.WithString(
			"season",
			mcp.Description("Season to project, e.g. spring; defaults to current"),
		),
		mcp.WithReadOnlyHintAnnotation(true),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		borrowerID, errResult, err := requireBorrowerID(req)
		if errResult != nil || err != nil {
			return errResult, err
		}

		season := trimString(req.GetString("season", ""))
		assessment, err := deps.Analytics.CropYieldRisk(ctx, borrowerID, season)
		if err != nil {
			return serviceErrorResult(err)
		}
		return jsonResult(assessment)
	})
}

func registerMarketPriceImpactTool(s *server.MCPServer, deps *AnalyticsToolDeps) {
	tool := mcp.NewTool(
		"analyze_market_price_impact",
		mcp.WithDescription(
			"Analyze how commodity price volatility and trend affect loan serviceability "+
				"for producers of that commodity.",
		),
		mcp.WithString(
			"commodity",
			mcp.Required(),
			mcp.Description("Commodity name, e.g. corn, wheat, soybeans, cattle, dairy"),
		),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithIdempotentHintAnnotation(true),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		commodity, err := req.RequireString("commodity")
		if err != nil {
			return nil, err
		}
		commodity = trimString(commodity)
		if commodity == "" {
			return NewErrorResult("invalid_parameters", "parameter 'commodity' cannot be empty"), nil
		}

		impact, err := deps.Analytics.MarketPriceImpact(ctx, commodity)
		if err != nil {
			return serviceErrorResult(err)
		}
		return jsonResult(impact)
	})
}

func registerRestructuringOptionsTool(s *server.MCPServer, deps *AnalyticsToolDeps) {
	tool := mcp.NewTool(
		"get_restructuring_options",
		mcp.WithDescription(
			"Compute ranked restructuring options for a loan (rate reductions and term "+
				"extensions) using standard amortization math.",
		),
		mcp.WithString(
			"loan_id",
			mcp.Required(),
			mcp.Description("Loan ID in the format L<number>, e.g. L001"),
		),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithIdempotentHintAnnotation(true),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		loanID, errResult, err := requireLoanID(req)
		if errResult != nil || err != nil {
			return errResult, err
		}

		plan, err := deps.Analytics.RestructuringOptions(ctx, loanID)
		if err != nil {
			return serviceErrorResult(err)
		}
		return jsonResult(plan)
	})
}
