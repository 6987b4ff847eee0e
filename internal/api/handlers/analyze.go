package handlers

import (
	"errors"
	"net/http"

	"github.com/5w1tchy/passforge/internal/api/apperr"
	"github.com/5w1tchy/passforge/internal/api/httpx"
	"github.com/5w1tchy/passforge/internal/metrics/usage"
	"github.com/5w1tchy/passforge/internal/security/password"
)

type AnalyzeRequest struct {
	Password *string `json:"password"`
}

// Analyze scores the submitted password. An empty password is a valid input
// and yields the "empty" report.
func Analyze(rec *usage.Recorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AnalyzeRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			writeDecodeErr(w, r, err)
			return
		}
		if req.Password == nil {
			apperr.Fields(w, r, []apperr.FieldError{{
				Field: "password", Code: "required", Message: "password is required",
			}})
			return
		}
		report := password.Analyze(*req.Password)
		if !report.Empty {
			rec.Record(usage.KindAnalyze, report.Tier)
		}
		httpx.OK(w, report)
	}
}

func writeDecodeErr(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, httpx.ErrBodyTooLarge) {
		apperr.WriteStatus(w, r, http.StatusRequestEntityTooLarge, "body_too_large", err.Error())
		return
	}
	apperr.WriteStatus(w, r, http.StatusBadRequest, "bad_request", err.Error())
}
