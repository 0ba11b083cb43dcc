package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"meudinheiro/internal/aggregate"
	"meudinheiro/internal/core"
)

// errBadRequest marks malformed requests: bodies that are not JSON, bad
// query parameters.
var errBadRequest = errors.New("bad request")

func badRequest(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errBadRequest, fmt.Sprintf(format, args...))
}

// decodeJSON reads a single JSON object from the request body into dst.
// Unknown fields and trailing data are rejected.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return badRequest("empty body")
		case errors.As(err, &maxErr):
			return badRequest("body exceeds %d bytes", maxErr.Limit)
		case errors.Is(err, core.ErrInvalidAmount):
			return badRequest("amounts must be integer cents")
		default:
			return badRequest("invalid JSON: %v", err)
		}
	}
	if dec.More() {
		return badRequest("body must contain a single JSON object")
	}
	return nil
}

// transactionRequest accepts the amount either as integer cents or as a
// decimal text such as "1.234,56".
type transactionRequest struct {
	core.Transaction
	AmountText string `json:"amountText,omitempty"`
}

func (req transactionRequest) toTransaction() (core.Transaction, error) {
	tx := req.Transaction
	if text := strings.TrimSpace(req.AmountText); text != "" {
		cents, err := core.ParseDecimalToCents(text)
		if err != nil {
			return core.Transaction{}, badRequest("amountText %q: %v", text, err)
		}
		tx.Amount = core.Money{Cents: cents}
	}
	return tx, nil
}

// parseRange reads start and end (YYYY-MM-DD). Missing values fall back to
// the given default window.
func parseRange(q url.Values, def aggregate.DateRange) (aggregate.DateRange, error) {
	r := def
	if v := strings.TrimSpace(q.Get("start")); v != "" {
		d, err := core.ParseDate(v)
		if err != nil {
			return r, badRequest("start %q: %v", v, err)
		}
		r.Start = d
	}
	if v := strings.TrimSpace(q.Get("end")); v != "" {
		d, err := core.ParseDate(v)
		if err != nil {
			return r, badRequest("end %q: %v", v, err)
		}
		r.End = d
	}
	return r, nil
}

// parseCents reads an optional signed integer-cents parameter.
func parseCents(q url.Values, key string, def core.Money) (core.Money, error) {
	v := strings.TrimSpace(q.Get(key))
	if v == "" {
		return def, nil
	}
	cents, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return def, badRequest("%s must be integer cents", key)
	}
	return core.Money{Cents: cents}, nil
}
