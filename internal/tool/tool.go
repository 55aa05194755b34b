// Package tool maps proposed actions onto store operations. It coerces
// loosely-typed proposal parameters into typed argument structs, executes the
// operation, and normalizes the outcome into a uniform result envelope.
package tool

// Action names understood by the dispatcher.
const (
	ActionListProducts     = "list_products"
	ActionAddToBasket      = "add_to_basket"
	ActionViewBasket       = "view_basket"
	ActionRemoveFromBasket = "remove_from_basket"
	ActionCheckoutBasket   = "checkout_basket"
)

// HTTP-like status codes carried in the result envelope.
const (
	StatusOK            = 200
	StatusDomainFailure = 400
)

// Result is the uniform envelope for an executed action: either a success
// payload or a structured domain failure. Caller-contract failures (unknown
// action, uncoercible parameters) are not Results; Dispatch returns those as
// Go errors.
type Result struct {
	Success    bool   `json:"success"`
	StatusCode int    `json:"status_code"`
	Payload    any    `json:"payload,omitempty"`
	ErrorCode  string `json:"error_code,omitempty"`
	Error      string `json:"error,omitempty"`

	// Err is the typed domain error behind ErrorCode, kept for structured
	// inspection by proposers. Not serialized.
	Err error `json:"-"`
}

// Ack is the payload of actions that acknowledge without returning data.
type Ack struct {
	Message string `json:"message"`
}

// Definition describes an action for external decision-makers: its name, a
// human-readable description, and a JSON Schema for its parameters.
type Definition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// Definitions returns the full action catalog in dispatch order.
func Definitions() []Definition {
	return []Definition{
		{
			Name:        ActionListProducts,
			Description: "Lists available products with pagination. Pages are capped at 3 entries; next_offset is -1 on the last page.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"offset": map[string]any{
						"type":        "integer",
						"description": "Starting index for pagination (default: 0)",
					},
					"limit": map[string]any{
						"type":        "integer",
						"description": "Maximum number of products to return (max: 3)",
					},
				},
			},
		},
		{
			Name:        ActionAddToBasket,
			Description: "Adds a product to the shopping basket. Inventory is not checked until checkout.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"sku": map[string]any{
						"type":        "string",
						"description": "Stock keeping unit of the product to add",
					},
					"amount": map[string]any{
						"type":        "integer",
						"description": "Quantity to add (positive)",
					},
				},
				"required": []string{"sku", "amount"},
			},
		},
		{
			Name:        ActionViewBasket,
			Description: "Views current basket contents.",
			Parameters: map[string]any{
				"type":       "object",
				"properties": map[string]any{},
			},
		},
		{
			Name:        ActionRemoveFromBasket,
			Description: "Removes up to the given quantity of a product from the basket.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"sku": map[string]any{
						"type":        "string",
						"description": "Stock keeping unit of the product to remove",
					},
					"amount": map[string]any{
						"type":        "integer",
						"description": "Quantity to remove (positive)",
					},
				},
				"required": []string{"sku", "amount"},
			},
		},
		{
			Name:        ActionCheckoutBasket,
			Description: "Commits the basket against inventory, all-or-nothing.",
			Parameters: map[string]any{
				"type":       "object",
				"properties": map[string]any{},
			},
		},
	}
}
