package dto

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ValidationErrorResponse cuerpo 400 con el detalle por campo.
type ValidationErrorResponse struct {
	Code    string             `json:"code"`
	Message string             `json:"message"`
	Details []ValidationDetail `json:"details"`
}

// ValidationDetail error de un campo.
type ValidationDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}
