package transport

import "encoding/json"

// Envelope is the uniform response wrapper every endpoint returns. The
// HTTP status code always equals Status; Success is true exactly when
// Status is in the 2xx range; Data is an empty object on failure.
// Message is a string except for validation failures, which carry the
// full violation list.
type Envelope struct {
	Data    interface{} `json:"data"`
	Success bool        `json:"success"`
	Status  int         `json:"status"`
	Message interface{} `json:"message"`
}

// New builds an envelope, enforcing both invariants: Success is derived
// from the status and non-2xx envelopes never carry data.
func New(status int, data interface{}, message interface{}) Envelope {
	success := status >= 200 && status < 300
	if !success || data == nil {
		data = map[string]interface{}{}
	}
	return Envelope{
		Data:    data,
		Success: success,
		Status:  status,
		Message: message,
	}
}

// OK builds a 200 envelope.
func OK(data interface{}, message string) Envelope {
	return New(200, data, message)
}

// Failure builds a non-2xx envelope with an empty data object.
func Failure(status int, message interface{}) Envelope {
	return New(status, nil, message)
}

// String returns the JSON representation (best-effort) for logging purposes.
func (e Envelope) String() string {
	out, err := json.Marshal(e)
	if err != nil {
		return "{}"
	}
	return string(out)
}
