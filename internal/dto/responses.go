package dto

// StatusResponse is returned by the health check.
type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// RootResponse describes the API on GET /.
type RootResponse struct {
	Message   string            `json:"message"`
	Endpoints map[string]string `json:"endpoints"`
}

// ErrorResponse is the body of every non-2xx JSON reply.
type ErrorResponse struct {
	Detail string `json:"detail"`
}
