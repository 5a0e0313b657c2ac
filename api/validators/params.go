package validators

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	pkgerrors "github.com/tanakritw/officestock-backend/pkg/errors"
)

const dateLayout = "2006-01-02"

// ParseIDParam reads a positive integer URL parameter.
func ParseIDParam(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "invalid "+name).
			WithDetails(map[string]any{name: raw})
	}
	return id, nil
}

// ParseDateQuery reads an optional YYYY-MM-DD query parameter.
func ParseDateQuery(r *http.Request, name string) (*time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, name+" must be YYYY-MM-DD").
			WithDetails(map[string]any{name: raw})
	}
	return &parsed, nil
}
