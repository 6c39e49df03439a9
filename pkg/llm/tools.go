package llm

import "github.com/sashabaranov/go-openai"

// ToolDefinition defines a tool that can be called by the LLM.
type ToolDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// ParameterProperty defines a parameter property in JSON Schema format.
type ParameterProperty struct {
	Type        string   `json:"type"`
	Description string   `json:"description,omitempty"`
	Enum        []string `json:"enum,omitempty"`
}

// NewToolDefinition creates a new tool definition with standard JSON Schema parameters.
func NewToolDefinition(name, description string, properties map[string]ParameterProperty, required []string) ToolDefinition {
	props := make(map[string]any)
	for k, v := range properties {
		props[k] = map[string]any{
			"type":        v.Type,
			"description": v.Description,
		}
		if len(v.Enum) > 0 {
			props[k].(map[string]any)["enum"] = v.Enum
		}
	}

	return ToolDefinition{
		Name:        name,
		Description: description,
		Parameters: map[string]any{
			"type":       "object",
			"properties": props,
			"required":   required,
		},
	}
}

// FunctionDefinition converts the tool definition to the go-openai
// function-calling schema.
func (t ToolDefinition) FunctionDefinition() openai.FunctionDefinition {
	return openai.FunctionDefinition{
		Name:        t.Name,
		Description: t.Description,
		Parameters:  t.Parameters,
	}
}

// FunctionDefinitions converts a tool definition slice for a chat request.
func FunctionDefinitions(tools []ToolDefinition) []openai.FunctionDefinition {
	out := make([]openai.FunctionDefinition, 0, len(tools))
	for _, t := range tools {
		out = append(out, t.FunctionDefinition())
	}
	return out
}

// GetLendingTools returns the tool definitions exposed to the LLM. The
// names and argument schemas mirror the MCP tool surface so a model
// prompted through either entrypoint sees the same capabilities.
func GetLendingTools() []ToolDefinition {
	borrowerID := ParameterProperty{Type: "string", Description: "Borrower ID in the format B<number>, e.g. B001"}
	loanID := ParameterProperty{Type: "string", Description: "Loan ID in the format L<number>, e.g. L001"}

	return []ToolDefinition{
		NewToolDefinition(
			"get_loan_details",
			"Get full details for a single loan, including terms and status",
			map[string]ParameterProperty{"loan_id": loanID},
			[]string{"loan_id"},
		),
		NewToolDefinition(
			"get_borrower_details",
			"Get a borrower's profile: credit score, income, farm size and type",
			map[string]ParameterProperty{"borrower_id": borrowerID},
			[]string{"borrower_id"},
		),
		NewToolDefinition(
			"get_active_loans",
			"List all loans currently in Active status",
			map[string]ParameterProperty{},
			nil,
		),
		NewToolDefinition(
			"get_loan_summary",
			"Get portfolio-level loan summary statistics",
			map[string]ParameterProperty{},
			nil,
		),
		NewToolDefinition(
			"get_loan_payments",
			"List the payment history for a loan",
			map[string]ParameterProperty{"loan_id": loanID},
			[]string{"loan_id"},
		),
		NewToolDefinition(
			"get_loan_collateral",
			"List the collateral pledged against a loan",
			map[string]ParameterProperty{"loan_id": loanID},
			[]string{"loan_id"},
		),
		NewToolDefinition(
			"get_borrower_loans",
			"List all loans held by a borrower",
			map[string]ParameterProperty{"borrower_id": borrowerID},
			[]string{"borrower_id"},
		),
		NewToolDefinition(
			"get_borrower_default_risk",
			"Compute a borrower's default risk score with contributing factors",
			map[string]ParameterProperty{
				"borrower_id": borrowerID,
				"time_horizon": {
					Type:        "string",
					Description: "Projection horizon for the default probability",
					Enum:        []string{"short_term", "medium_term", "long_term"},
				},
			},
			[]string{"borrower_id"},
		),
		NewToolDefinition(
			"get_borrower_non_accrual_risk",
			"Compute a borrower's non-accrual risk score and recovery probability",
			map[string]ParameterProperty{"borrower_id": borrowerID},
			[]string{"borrower_id"},
		),
		NewToolDefinition(
			"evaluate_collateral_sufficiency",
			"Evaluate whether a loan's collateral is sufficient under given market conditions",
			map[string]ParameterProperty{
				"loan_id": loanID,
				"market_conditions": {
					Type:        "string",
					Description: "Current market conditions for collateral valuation",
					Enum:        []string{"stable", "declining", "improving"},
				},
			},
			[]string{"loan_id"},
		),
		NewToolDefinition(
			"get_high_risk_farmers",
			"List borrowers whose default risk score meets or exceeds a threshold",
			map[string]ParameterProperty{
				"threshold": {Type: "number", Description: "Minimum risk score, defaults to 70"},
			},
			nil,
		),
		NewToolDefinition(
			"predict_crop_yield_risk",
			"Estimate next-season crop yield risk for a borrower's farm",
			map[string]ParameterProperty{
				"borrower_id": borrowerID,
				"season":      {Type: "string", Description: "Season to project, e.g. spring"},
			},
			[]string{"borrower_id"},
		),
		NewToolDefinition(
			"analyze_market_price_impact",
			"Analyze how commodity price movement affects loan serviceability",
			map[string]ParameterProperty{
				"commodity": {Type: "string", Description: "Commodity name, e.g. corn, wheat, cattle"},
			},
			[]string{"commodity"},
		),
		NewToolDefinition(
			"get_restructuring_options",
			"Compute ranked loan restructuring options using amortization math",
			map[string]ParameterProperty{"loan_id": loanID},
			[]string{"loan_id"},
		),
	}
}
