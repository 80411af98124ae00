package types

// SuccessEnvelope is the wire shape for every successful response.
type SuccessEnvelope struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// ErrorEnvelope is the wire shape for every failed response. Code is the
// stable machine-readable identifier, not the HTTP status.
type ErrorEnvelope struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Details any    `json:"details,omitempty"`
}
