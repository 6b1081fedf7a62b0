package models

// Response is the uniform envelope wrapped around every API response.
// Error carries the underlying failure detail and is only populated
// outside production.
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// OK builds a success envelope with a payload.
func OK(data any) Response {
	return Response{Success: true, Data: data}
}

// OKWithMessage builds a success envelope with a payload and a message.
func OKWithMessage(data any, message string) Response {
	return Response{Success: true, Data: data, Message: message}
}

// Fail builds a failure envelope with a user-facing message.
func Fail(message string) Response {
	return Response{Success: false, Message: message}
}
