// Wire models of the admin REST API and of the dashboard's JSON view.
package rest

// LoginRequest is the body of POST /admin/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the bearer token issued by the backend.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type,omitempty"`
}

// ErrorDetail is the failure body returned by the admin API. Detail is shown
// to the operator when present.
type ErrorDetail struct {
	Detail any `json:"detail"`
}

// DealsPage is the payload of the json view of the dashboard.
type DealsPage struct {
	Filter      string         `json:"filter"`
	Query       string         `json:"query"`
	Total       int            `json:"total"`
	Counts      map[string]int `json:"counts"`
	ActioningID string         `json:"actioning_id,omitempty"`
	Error       string         `json:"error,omitempty"`
	Deals       []Deal         `json:"deals"`
}

type Deal struct {
	ID              string   `json:"id"`
	Status          string   `json:"status"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	Location        string   `json:"location,omitempty"`
	Currency        string   `json:"currency"`
	OpPrice         string   `json:"op_price"`
	AskingPrice     string   `json:"asking_price"`
	DiscountPercent *float64 `json:"discount_percent"`
	Images          int      `json:"images"`
	Documents       int      `json:"documents"`
}
