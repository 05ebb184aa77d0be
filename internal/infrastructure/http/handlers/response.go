package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

// maxBodyBytes caps JSON request bodies; the largest storefront request is a
// registration form.
const maxBodyBytes = 1 << 20

var errEmptyBody = errors.New("request body is empty")

// errorBody is the envelope for every non-2xx answer.
type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// writeErr answers status with message. An empty errCode is derived from status.
func writeErr(w http.ResponseWriter, status int, errCode, message string) {
	if errCode == "" {
		errCode = statusErrCode[status]
	}
	if errCode == "" {
		errCode = ErrCodeInternal
	}
	writeJSON(w, status, errorBody{Error: message, Code: errCode})
}

var statusErrCode = map[int]string{
	http.StatusBadRequest:      ErrCodeInvalidRequest,
	http.StatusUnauthorized:    ErrCodeUnauthorized,
	http.StatusNotFound:        ErrCodeNotFound,
	http.StatusConflict:        ErrCodeConflict,
	http.StatusTooManyRequests: ErrCodeRateLimited,
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// decodeJSON reads a single bounded JSON value into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errEmptyBody
		}
		return err
	}
	if dec.More() {
		return errors.New("request body must hold a single JSON object")
	}
	return nil
}
