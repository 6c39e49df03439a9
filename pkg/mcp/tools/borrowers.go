package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/agrilend/agrilend-engine/pkg/services"
)

// BorrowerToolDeps contains dependencies for borrower tools.
type BorrowerToolDeps struct {
	Lending services.LendingService
	Logger  *zap.Logger
}

// RegisterBorrowerTools registers the borrower MCP tools.
func RegisterBorrowerTools(s *server.MCPServer, deps *BorrowerToolDeps) {
	registerGetBorrowerDetailsTool(s, deps)
	registerGetBorrowerLoansTool(s, deps)
}

// requireBorrowerID extracts and trims the borrower_id parameter.
func requireBorrowerID(req mcp.CallToolRequest) (string, *mcp.CallToolResult, error) {
	borrowerID, err := req.RequireString("borrower_id")
	if err != nil {
		return "", nil, err
	}
	borrowerID = trimString(borrowerID)
	if borrowerID == "" {
		return "", NewErrorResult("invalid_parameters", "parameter 'borrower_id' cannot be empty"), nil
	}
	return borrowerID, nil, nil
}

func registerGetBorrowerDetailsTool(s *server.MCPServer, deps *BorrowerToolDeps) {
	tool := mcp.NewTool(
		"get_borrower_details",
		mcp.WithDescription(
			"Get a borrower's profile: credit score, income, farm size and type. "+
				"Example: get_borrower_details(borrower_id='B001').",
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

		borrower, err := deps.Lending.GetBorrower(ctx, borrowerID)
		if err != nil {
			return serviceErrorResult(err)
		}
		return jsonResult(borrower)
	})
}

func registerGetBorrowerLoansTool(s *server.MCPServer, deps *BorrowerToolDeps) {
	tool := mcp.NewTool(
		"get_borrower_loans",
		mcp.WithDescription("List all loans held by a borrower."),
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

		loans, err := deps.Lending.GetBorrowerLoans(ctx, borrowerID)
		if err != nil {
			return serviceErrorResult(err)
		}
		return jsonResult(map[string]any{
			"borrower_id": borrowerID,
			"loans":       loans,
			"count":       len(loans),
		})
	})
}
