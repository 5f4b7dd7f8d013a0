package common

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/sngm3741/video-interview/api/internal/assessment/domain"
)

// MsgServerError is the only message clients see for unclassified failures.
const MsgServerError = "Server Error"

// Envelope is the body shape of every API response.
type Envelope struct {
	Success    bool `json:"success"`
	Data       any  `json:"data,omitempty"`
	Error      any  `json:"error,omitempty"`
	Count      *int `json:"count,omitempty"`
	Pagination any  `json:"pagination,omitempty"`
}

// WriteJSON serializes payload to JSON with status and logs on failure.
func WriteJSON(logger *log.Logger, w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil && logger != nil {
		logger.Printf("JSON エンコードに失敗: %v", err)
	}
}

// WriteData writes a successful envelope around data.
func WriteData(logger *log.Logger, w http.ResponseWriter, status int, data any) {
	WriteJSON(logger, w, status, Envelope{Success: true, Data: data})
}

// WriteList writes a successful envelope carrying count alongside the items.
func WriteList(logger *log.Logger, w http.ResponseWriter, data any, count int, pagination any) {
	WriteJSON(logger, w, http.StatusOK, Envelope{Success: true, Data: data, Count: &count, Pagination: pagination})
}

// WriteFailure writes an unsuccessful envelope. message is a string or a list of strings.
func WriteFailure(logger *log.Logger, w http.ResponseWriter, status int, message any) {
	WriteJSON(logger, w, status, Envelope{Success: false, Error: message})
}

// StatusFor maps an error kind onto its HTTP status.
func StatusFor(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindValidation, domain.KindDuplicate:
		return http.StatusBadRequest
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// WriteError maps err onto the taxonomy. Internal causes are logged and never returned.
func WriteError(logger *log.Logger, w http.ResponseWriter, r *http.Request, err error) {
	var de *domain.Error
	if !errors.As(err, &de) || de.Kind == domain.KindInternal {
		if logger != nil {
			logger.Printf("%s %s failed: %v", r.Method, r.URL.Path, err)
		}
		WriteFailure(logger, w, http.StatusInternalServerError, MsgServerError)
		return
	}
	if de.Kind == domain.KindValidation && len(de.Details) > 0 {
		WriteFailure(logger, w, http.StatusBadRequest, de.Details)
		return
	}
	WriteFailure(logger, w, StatusFor(de.Kind), de.Message)
}
