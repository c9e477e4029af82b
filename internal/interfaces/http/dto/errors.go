// Package dto holds the request and response bodies of the HTTP API.
package dto

// Error messages returned by the API. Clients match on these strings.
const (
	MsgQuestionRequired    = "Question is required"
	MsgProcessQuestion     = "Failed to process question"
	MsgFetchStats          = "Failed to fetch stats"
	MsgFetchInvoices       = "Failed to fetch invoices"
	MsgFetchInvoiceTrends  = "Failed to fetch invoice trends"
	MsgFetchTopVendors     = "Failed to fetch top vendors"
	MsgFetchCategorySpend  = "Failed to fetch category spend"
	MsgFetchCashOutflow    = "Failed to fetch cash outflow"
	MsgInternalServerError = "Internal server error"
	MsgRequestBodyTooLarge = "Request body too large"
	MsgTooManyRequests     = "Too many requests"
)

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// NewErrorResponse creates an error body without details
func NewErrorResponse(message string) ErrorResponse {
	return ErrorResponse{Error: message}
}

// NewErrorResponseWithDetails creates an error body carrying details
func NewErrorResponseWithDetails(message string, details any) ErrorResponse {
	return ErrorResponse{Error: message, Details: details}
}
