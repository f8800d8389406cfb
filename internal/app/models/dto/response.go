package dto

// SuccessResponse is the body of every successful mutation.
type SuccessResponse struct {
	Success bool        `json:"success" example:"true"`
	Message string      `json:"message,omitempty" example:"Moved 3 fees to overdue"`
	Data    interface{} `json:"data,omitempty"`
}

// NewSuccessResponse creates a success body carrying data.
func NewSuccessResponse(data interface{}) SuccessResponse {
	return SuccessResponse{Success: true, Data: data}
}

// HealthResponse reports store reachability.
type HealthResponse struct {
	Status            string `json:"status" example:"healthy"`
	SupabaseConnected bool   `json:"supabase_connected" example:"true"`
	StudentsCount     *int64 `json:"students_count,omitempty" example:"42"`
	Error             string `json:"error,omitempty"`
}
