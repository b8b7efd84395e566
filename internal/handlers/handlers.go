package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/charmbracelet/log"

	"todos/internal/models"
	"todos/internal/store"
)

// maxBodySize caps request bodies.
const maxBodySize = 1 << 20

// Handlers holds the HTTP handlers and their dependencies.
type Handlers struct {
	store  store.Store
	logger *log.Logger
}

// New creates a new Handlers instance.
func New(s store.Store, logger *log.Logger) *Handlers {
	return &Handlers{
		store:  s,
		logger: logger,
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// respondJSON writes v as a JSON response with the given status code.
func (h *Handlers) respondJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

// respondError sends an error response.
func (h *Handlers) respondError(w http.ResponseWriter, code int, message string) {
	h.respondJSON(w, code, errorResponse{Error: message})
}

func (h *Handlers) respondServerError(w http.ResponseWriter, err error) {
	h.logger.Error("internal server error", "error", err)
	h.respondError(w, http.StatusInternalServerError, "internal server error")
}

// respondStoreError maps domain errors onto HTTP statuses.
func (h *Handlers) respondStoreError(w http.ResponseWriter, err error) {
	var ve *models.ValidationError
	switch {
	case errors.As(err, &ve):
		h.respondError(w, http.StatusBadRequest, ve.Error())
	case errors.Is(err, store.ErrNotFound):
		h.respondError(w, http.StatusNotFound, err.Error())
	default:
		h.respondServerError(w, err)
	}
}

// decodeBody reads a JSON request body, checks its shape against the
// request schema and decodes it into dst. An empty body leaves dst
// untouched.
func decodeBody(r *http.Request, dst interface{}) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize+1))
	if err != nil {
		return fmt.Errorf("failed to read request body: %w", err)
	}
	if len(body) > maxBodySize {
		return &models.ValidationError{Message: "request body too large"}
	}
	if len(body) == 0 {
		return nil
	}

	if err := models.CheckRequestShape(body); err != nil {
		return err
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return &models.ValidationError{Message: "invalid json"}
	}
	return nil
}
