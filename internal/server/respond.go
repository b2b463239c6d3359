package server

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strings"

	"github.com/mhuels/gridpack/pkg/errors"
	"github.com/mhuels/gridpack/pkg/grid"
	"github.com/mhuels/gridpack/pkg/store"
)

// maxRequestBody caps JSON request bodies. Dashboard documents are small;
// anything near this limit is malformed or hostile.
const maxRequestBody = 1 << 20

// errorResponse is the JSON error envelope for all failure responses.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// decodeJSON decodes a request body, translating decode failures into
// INVALID_INPUT errors so they map to 400 responses.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	body := http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		return errors.New(errors.ErrCodeInvalidInput, "invalid request body: %v", err)
	}
	return nil
}

// writeError maps an error to the HTTP envelope. Server-side failures are
// logged; client errors are only reported to the caller.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := classifyError(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
	}
	writeJSON(w, status, errorResponse{Error: errors.UserMessage(err), Code: string(code)})
}

// classifyError picks the status code and stable error code for a
// failure. Unrecognized errors are internal.
func classifyError(err error) (int, errors.Code) {
	switch {
	case stderrors.Is(err, store.ErrNotFound):
		return http.StatusNotFound, errors.ErrCodeDashboardNotFound
	case errors.IsNotFound(err):
		return http.StatusNotFound, errors.GetCode(err)
	case stderrors.Is(err, grid.ErrInvalidSpec),
		stderrors.Is(err, grid.ErrOutOfBounds),
		stderrors.Is(err, grid.ErrOverlap),
		stderrors.Is(err, grid.ErrFullWidthRow):
		return http.StatusBadRequest, errors.ErrCodeInvalidSpec
	}

	if code := errors.GetCode(err); strings.HasPrefix(string(code), "INVALID_") {
		return http.StatusBadRequest, code
	}
	return http.StatusInternalServerError, errors.ErrCodeInternal
}
