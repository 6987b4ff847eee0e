package apperr

import (
	"encoding/json"
	"net/http"
)

type FieldError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`    // e.g. "invalid", "out_of_range"
	Message string `json:"message"` // human readable
}

type Problem struct {
	Type        string       `json:"type,omitempty"`   // RFC7807 type URI
	Title       string       `json:"title"`            // short summary
	Status      int          `json:"status"`           // HTTP status code
	Code        string       `json:"code,omitempty"`   // stable machine-readable id
	Detail      string       `json:"detail,omitempty"` // human details
	Instance    string       `json:"instance,omitempty"`
	RequestID   string       `json:"request_id,omitempty"`
	FieldErrors []FieldError `json:"field_errors,omitempty"`
}

func Write(w http.ResponseWriter, r *http.Request, p Problem) {
	if p.Status == 0 {
		p.Status = http.StatusInternalServerError
	}
	if p.Title == "" {
		p.Title = http.StatusText(p.Status)
	}
	if p.Instance == "" && r != nil {
		p.Instance = r.URL.Path
	}
	if p.RequestID == "" && r != nil {
		// set by the RequestID middleware
		p.RequestID = r.Header.Get("X-Request-ID")
	}
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(p.Status)
	_ = json.NewEncoder(w).Encode(p)
}

// Convenience: fast write with just status+code+detail
func WriteStatus(w http.ResponseWriter, r *http.Request, status int, code, detail string) {
	Write(w, r, Problem{Status: status, Code: code, Detail: detail})
}

// Fields writes a 400 listing every offending field.
func Fields(w http.ResponseWriter, r *http.Request, errs []FieldError) {
	Write(w, r, Problem{
		Status:      http.StatusBadRequest,
		Code:        "invalid_input",
		Detail:      "one or more fields are invalid",
		FieldErrors: errs,
	})
}
