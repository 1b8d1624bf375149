package rest

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sort"

	"github.com/yamdb/yamdb/internal/common"
)

type detail struct {
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(data)
}

// writeError maps service errors onto HTTP statuses and bodies. Anything
// unrecognised is logged and answered with a generic 500.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *common.ValidationError

	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, fieldErrors(verr))
	case errors.Is(err, common.ErrorInvalidCode):
		writeJSON(w, http.StatusBadRequest, map[string]string{"confirmation_code": "incorrect"})
	case errors.Is(err, common.ErrorAlreadyExists):
		writeJSON(w, http.StatusBadRequest, detail{"Object already exists."})
	case errors.Is(err, common.ErrorNotFound):
		writeJSON(w, http.StatusNotFound, detail{"Not found."})
	case errors.Is(err, common.ErrInvalidToken):
		w.Header().Set("WWW-Authenticate", common.AuthScheme+` realm="api"`)
		writeJSON(w, http.StatusUnauthorized, detail{"Given token not valid."})
	case errors.Is(err, common.ErrorUnauthorized):
		w.Header().Set("WWW-Authenticate", common.AuthScheme+` realm="api"`)
		writeJSON(w, http.StatusUnauthorized, detail{"Authentication credentials were not provided."})
	case errors.Is(err, common.ErrorForbidden):
		writeJSON(w, http.StatusForbidden, detail{"You do not have permission to perform this action."})
	default:
		h.logger.Error(r.Context(), "request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, detail{"Internal server error."})
	}
}

// fieldErrors renders a validation error as {"field": ["message", ...]}.
func fieldErrors(verr *common.ValidationError) map[string][]string {
	keys := make([]string, 0, len(verr.Fields))
	for k := range verr.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make(map[string][]string, len(keys))
	for _, k := range keys {
		out[k] = []string{verr.Fields[k]}
	}
	return out
}

var errBadJSON = common.NewValidationError("non_field_errors", "malformed JSON body")

// decode reads a JSON body into v. An empty body leaves v untouched.
func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return errBadJSON
	}
	return nil
}
