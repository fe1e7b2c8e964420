package transport

import "encoding/json"

// Envelope is the standard API response wrapper used for both success and
// error payloads. The message field doubles as the transient notification
// text shown after each mutation attempt.
type Envelope struct {
	Status  string      `json:"status"`
	Code    string      `json:"code,omitempty"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   interface{} `json:"error,omitempty"`
}

// NewSuccess returns a success envelope with an optional notification message.
func NewSuccess(data interface{}, message string) Envelope {
	return Envelope{
		Status:  "success",
		Message: message,
		Data:    data,
	}
}

// NewError returns an error envelope.
func NewError(code string, err interface{}) Envelope {
	return Envelope{
		Status: "error",
		Code:   code,
		Error:  err,
	}
}

// String returns the JSON representation (best-effort) for logging purposes.
func (e Envelope) String() string {
	out, err := json.Marshal(e)
	if err != nil {
		return "{}"
	}
	return string(out)
}
