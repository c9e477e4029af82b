package dto

// ChatRequest is the body of POST /api/chat
type ChatRequest struct {
	Question string `json:"question"`
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}
