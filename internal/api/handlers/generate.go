package handlers

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/5w1tchy/passforge/internal/api/apperr"
	"github.com/5w1tchy/passforge/internal/api/httpx"
	"github.com/5w1tchy/passforge/internal/metrics/usage"
	"github.com/5w1tchy/passforge/internal/security/password"
	"github.com/5w1tchy/passforge/internal/validate"
	"go.uber.org/zap"
)

const maxCount = 20

// GenerateRequest: omitted fields fall back to the server defaults. An
// explicit empty classes list is kept and rejected as an invalid policy.
type GenerateRequest struct {
	Length         *int     `json:"length"`
	Classes        []string `json:"classes"`
	ExcludeSimilar *bool    `json:"exclude_similar"`
	Count          int      `json:"count"`
	Analyze        bool     `json:"analyze"`
}

type GenerateResponse struct {
	Passwords []string          `json:"passwords"`
	Policy    password.Policy   `json:"policy"`
	Analysis  []password.Report `json:"analysis,omitempty"`
}

// Generate serves both POST (JSON body) and GET (query string) requests.
func Generate(d password.Defaults, src password.RandomSource, rec *usage.Recorder, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req GenerateRequest
		if r.Method == http.MethodGet {
			var ferrs []apperr.FieldError
			req, ferrs = parseGenerateQuery(r.URL.Query())
			if len(ferrs) > 0 {
				apperr.Fields(w, r, ferrs)
				return
			}
		} else if err := httpx.DecodeJSON(r, &req); err != nil {
			writeDecodeErr(w, r, err)
			return
		}

		policy, count, ferrs := buildPolicy(d, req)
		if len(ferrs) > 0 {
			apperr.Fields(w, r, ferrs)
			return
		}

		resp := GenerateResponse{Policy: policy, Passwords: make([]string, 0, count)}
		for i := 0; i < count; i++ {
			pwd, err := password.Generate(policy, src)
			if errors.Is(err, password.ErrInvalidPolicy) {
				apperr.WriteStatus(w, r, http.StatusUnprocessableEntity, "invalid_policy", err.Error())
				return
			}
			if err != nil {
				log.Error("generate failed", zap.Error(err))
				apperr.WriteStatus(w, r, http.StatusInternalServerError, "generation_failed", "could not generate password")
				return
			}
			resp.Passwords = append(resp.Passwords, pwd)
			report := password.Analyze(pwd)
			rec.Record(usage.KindGenerate, report.Tier)
			if req.Analyze {
				resp.Analysis = append(resp.Analysis, report)
			}
		}
		httpx.OK(w, resp)
	}
}

func buildPolicy(d password.Defaults, req GenerateRequest) (password.Policy, int, []apperr.FieldError) {
	var ferrs []apperr.FieldError

	var classes []password.Class
	if req.Classes != nil {
		classes = make([]password.Class, 0, len(req.Classes))
		for _, name := range req.Classes {
			c, err := password.ParseClass(name)
			if err != nil {
				ferrs = append(ferrs, apperr.FieldError{Field: "classes", Code: "invalid", Message: err.Error()})
				continue
			}
			classes = append(classes, c)
		}
	}

	policy := d.Policy(0, classes, req.ExcludeSimilar)
	if req.Length != nil {
		// below 1 is left to the engine, which reports it as an invalid policy
		policy.Length = *req.Length
		if policy.Length > d.MaxLength {
			ferrs = append(ferrs, apperr.FieldError{
				Field: "length", Code: "out_of_range",
				Message: "length must be at most " + strconv.Itoa(d.MaxLength),
			})
		}
	}

	count := req.Count
	if count == 0 {
		count = 1
	}
	if err := validate.InRange("count", count, 1, maxCount); err != nil {
		ferrs = append(ferrs, apperr.FieldError{Field: "count", Code: "out_of_range", Message: err.Error()})
	}
	return policy, count, ferrs
}

func parseGenerateQuery(q url.Values) (GenerateRequest, []apperr.FieldError) {
	var (
		req   GenerateRequest
		ferrs []apperr.FieldError
	)
	invalid := func(field string, err error) {
		ferrs = append(ferrs, apperr.FieldError{Field: field, Code: "invalid", Message: err.Error()})
	}

	if n, ok, err := validate.OptionalInt("length", q.Get("length")); err != nil {
		invalid("length", err)
	} else if ok {
		req.Length = &n
	}
	if q.Has("classes") {
		req.Classes = validate.SplitCSV(q.Get("classes"))
	}
	if b, ok, err := validate.OptionalBool("exclude_similar", q.Get("exclude_similar")); err != nil {
		invalid("exclude_similar", err)
	} else if ok {
		req.ExcludeSimilar = &b
	}
	if n, _, err := validate.OptionalInt("count", q.Get("count")); err != nil {
		invalid("count", err)
	} else {
		req.Count = n
	}
	if b, _, err := validate.OptionalBool("analyze", q.Get("analyze")); err != nil {
		invalid("analyze", err)
	} else {
		req.Analyze = b
	}
	return req, ferrs
}
