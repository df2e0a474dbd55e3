package transport

import "encoding/json"

// Envelope wraps every JSON response. Exports are the one exception: they stream the raw
// backup document.
type Envelope struct {
	Status    string      `json:"status"`
	Code      string      `json:"code,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Error     interface{} `json:"error,omitempty"`
	Meta      interface{} `json:"meta,omitempty"`
	RequestID string      `json:"requestId,omitempty"`
}

func NewSuccess(data interface{}, meta interface{}) Envelope {
	return Envelope{
		Status: "success",
		Data:   data,
		Meta:   meta,
	}
}

// NewError builds an error envelope; code is a domain.ErrorCode or a transport-level code
// such as RATE_LIMITED or DEGRADED.
func NewError(code string, err interface{}, meta interface{}) Envelope {
	return Envelope{
		Status: "error",
		Code:   code,
		Error:  err,
		Meta:   meta,
	}
}

// WithRequestID returns a copy carrying the request id.
func (e Envelope) WithRequestID(id string) Envelope {
	e.RequestID = id
	return e
}

// String returns the JSON encoding, or "{}" when the payload cannot be marshalled.
func (e Envelope) String() string {
	out, err := json.Marshal(e)
	if err != nil {
		return "{}"
	}
	return string(out)
}
