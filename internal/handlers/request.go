package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/fintrack/fintrack/internal/models"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// MsgValidationFailed is the message of every 400 that carries field details.
const MsgValidationFailed = "Validation failed"

// ==========================
// Validator
// ==========================

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their JSON names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterValidation("payment_method", func(fl validator.FieldLevel) bool {
		return models.PaymentMethod(fl.Field().String()).Valid()
	})
	return v
}

// validationFields turns validator errors into a field -> message map.
func validationFields(err error) map[string]string {
	fields := make(map[string]string)
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		fields["body"] = err.Error()
		return fields
	}
	for _, fe := range verrs {
		fields[fe.Field()] = fieldMessage(fe)
	}
	return fields
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "payment_method":
		return "must be one of: " + paymentMethodList()
	default:
		return "is invalid"
	}
}

func paymentMethodList() string {
	names := make([]string, len(models.PaymentMethods))
	for i, m := range models.PaymentMethods {
		names[i] = string(m)
	}
	return strings.Join(names, ", ")
}

// ==========================
// Body decoding
// ==========================

// requestError is a client error found while reading a request.
type requestError struct {
	status  int
	message string
}

func (e *requestError) Error() string { return e.message }

// decodeJSON reads exactly one JSON object into dst. Unknown fields, trailing
// data and oversized bodies are rejected.
func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return &requestError{http.StatusBadRequest, "Request body is required"}
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return &requestError{http.StatusRequestEntityTooLarge, "Request body too large"}
		case errors.Is(err, io.EOF):
			return &requestError{http.StatusBadRequest, "Request body is required"}
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			field := strings.TrimPrefix(err.Error(), "json: unknown field ")
			return &requestError{http.StatusBadRequest, "Unknown field " + field}
		default:
			return &requestError{http.StatusBadRequest, "Invalid JSON"}
		}
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return &requestError{http.StatusBadRequest, "Request body must contain a single JSON object"}
	}
	return nil
}

// readBody decodes into dst and writes the error response itself. It reports
// whether the handler should continue.
func readBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	err := decodeJSON(r, dst)
	if err == nil {
		return true
	}
	var re *requestError
	if errors.As(err, &re) {
		JSONError(w, re.message, re.status)
		return false
	}
	JSONError(w, "Invalid JSON", http.StatusBadRequest)
	return false
}

// structFields runs the struct tag rules on v and returns the failing fields.
// The map is never nil so callers can add their own findings.
func structFields(v any) map[string]string {
	if err := validate.Struct(v); err != nil {
		return validationFields(err)
	}
	return make(map[string]string)
}

// ==========================
// Field parsing
// ==========================

const dateOnly = "2006-01-02"

// parseDate accepts RFC 3339 timestamps and plain dates (midnight UTC).
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(dateOnly, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("must be an ISO-8601 date (YYYY-MM-DD or RFC 3339)")
}

// Amount bounds. decimal accepts any int32 exponent, so both scale and
// magnitude are capped before the value is printed or stored.
const (
	maxAmountScale = 8
	maxAmountLen   = 32
)

var maxAmount = decimal.New(1, 15)

// checkAmount applies the same rule on create and update: a JSON number,
// present, >= 0, below 1e15 and with at most 8 decimal places.
func checkAmount(raw json.RawMessage, fields map[string]string) decimal.Decimal {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		fields["amount"] = "is required"
		return decimal.Zero
	}
	if s[0] == '"' || len(s) > maxAmountLen {
		fields["amount"] = "must be a number"
		return decimal.Zero
	}
	amount, err := decimal.NewFromString(s)
	if err != nil {
		fields["amount"] = "must be a number"
		return decimal.Zero
	}
	switch {
	case amount.IsNegative():
		fields["amount"] = "must be greater than or equal to 0"
	case amount.Exponent() < -maxAmountScale:
		fields["amount"] = fmt.Sprintf("must have at most %d decimal places", maxAmountScale)
	case amount.Exponent() > 15 || amount.Cmp(maxAmount) >= 0:
		fields["amount"] = "must be less than 1e15"
	default:
		return amount
	}
	return decimal.Zero
}

func checkDate(s string, fields map[string]string) time.Time {
	if strings.TrimSpace(s) == "" {
		fields["date"] = "is required"
		return time.Time{}
	}
	d, err := parseDate(s)
	if err != nil {
		fields["date"] = err.Error()
	}
	return d
}
