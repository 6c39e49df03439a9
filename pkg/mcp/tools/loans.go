package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/agrilend/agrilend-engine/pkg/services"
)

// LoanToolDeps contains dependencies for loan portfolio tools.
type LoanToolDeps struct {
	Lending services.LendingService
	Logger  *zap.Logger
}

// RegisterLoanTools registers the loan portfolio MCP tools.
func RegisterLoanTools(s *server.MCPServer, deps *LoanToolDeps) {
	registerGetLoanDetailsTool(s, deps)
	registerGetActiveLoansTool(s, deps)
	registerGetLoanSummaryTool(s, deps)
	registerGetLoanPaymentsTool(s, deps)
	registerGetLoanCollateralTool(s, deps)
}

// requireLoanID extracts and trims the loan_id parameter.
func requireLoanID(req mcp.CallToolRequest) (string, *mcp.CallToolResult, error) {
	loanID, err := req.RequireString("loan_id")
	if err != nil {
		return "", nil, err
	}
	loanID = trimString(loanID)
	if loanID == "" {
		return "", NewErrorResult("invalid_parameters", "parameter 'loan_id' cannot be empty"), nil
	}
	return loanID, nil, nil
}

func registerGetLoanDetailsTool(s *server.MCPServer, deps *LoanToolDeps) {
	tool := mcp.NewTool(
		"get_loan_details",
		mcp.WithDescription(
			"Get full details for a single loan: amount, rate, term, status, and borrower. "+
				"Example: get_loan_details(loan_id='L001').",
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

		loan, err := deps.Lending.GetLoan(ctx, loanID)
		if err != nil {
			return serviceErrorResult(err)
		}
		return jsonResult(loan)
	})
}

func registerGetActiveLoansTool(s *server.MCPServer, deps *LoanToolDeps) {
	tool := mcp.NewTool(
		"get_active_loans",
		mcp.WithDescription("List all loans currently in Active status."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithIdempotentHintAnnotation(true),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		loans, err := deps.Lending.ListActiveLoans(ctx)
		if err != nil {
			return serviceErrorResult(err)
		}
		return jsonResult(map[string]any{
			"loans": loans,
			"count": len(loans),
		})
	})
}

func registerGetLoanSummaryTool(s *server.MCPServer, deps *LoanToolDeps) {
	tool := mcp.NewTool(
		"get_loan_summary",
		mcp.WithDescription("Get portfolio-level loan summary statistics: counts, totals, averages, default rate."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithIdempotentHintAnnotation(true),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		summary, err := deps.Lending.LoanSummary(ctx)
		if err != nil {
			return serviceErrorResult(err)
		}
		return jsonResult(summary)
	})
}

func registerGetLoanPaymentsTool(s *server.MCPServer, deps *LoanToolDeps) {
	tool := mcp.NewTool(
		"get_loan_payments",
		mcp.WithDescription("List the payment history for a loan, including late-payment status per payment."),
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

		payments, err := deps.Lending.GetLoanPayments(ctx, loanID)
		if err != nil {
			return serviceErrorResult(err)
		}
		return jsonResult(map[string]any{
			"loan_id":  loanID,
			"payments": payments,
			"count":    len(payments),
		})
	})
}

func registerGetLoanCollateralTool(s *server.MCPServer, deps *LoanToolDeps) {
	tool := mcp.NewTool(
		"get_loan_collateral",
		mcp.WithDescription("List the collateral items pledged against a loan with their values."),
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

		items, err := deps.Lending.GetLoanCollateral(ctx, loanID)
		if err != nil {
			return serviceErrorResult(err)
		}

		total := 0.0
		for _, c := range items {
			total += c.Value
		}
		return jsonResult(map[string]any{
			"loan_id":     loanID,
			"collateral":  items,
			"total_value": total,
		})
	})
}
