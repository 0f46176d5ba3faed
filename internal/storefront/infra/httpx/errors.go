package httpx

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/jcmexdev/storefront-api/internal/storefront/core/domain/apperrors"
)

type errorDetail struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type errorEnvelope struct {
	Errors map[string]errorDetail `json:"errors"`
}

func writeErrorEnvelope(w http.ResponseWriter, status int, scope, code, name string) {
	writeJSON(w, status, errorEnvelope{
		Errors: map[string]errorDetail{
			scope: {Code: code, Name: name},
		},
	})
}

func writeRequestError(w http.ResponseWriter, e *apperrors.RequestError) {
	writeErrorEnvelope(w, http.StatusUnprocessableEntity, e.Scope, string(e.Code), e.Name)
}

// writeServiceError maps a service failure onto the wire. Processor
// rejections pass through with the remote status and body untouched; unknown
// orders answer 404 with an empty body.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var reqErr *apperrors.RequestError
	if errors.As(err, &reqErr) {
		writeRequestError(w, reqErr)
		return
	}

	var gwErr *apperrors.GatewayError
	if errors.As(err, &gwErr) {
		writeJSON(w, gwErr.StatusCode, gwErr.Body)
		return
	}

	if errors.Is(err, apperrors.ErrNotFound) {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	if errors.Is(err, apperrors.ErrUpstreamUnavailable) {
		slog.ErrorContext(r.Context(), "payment processor unreachable", "error", err)
		writeErrorEnvelope(w, http.StatusBadGateway, "order", "upstream-unavailable",
			"Le service de paiement est temporairement injoignable")
		return
	}

	slog.ErrorContext(r.Context(), "request failed", "error", err)
	w.WriteHeader(http.StatusInternalServerError)
}
