package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/ndewijer/Stock-Portfolio-Analyzer-Backend/internal/api/response"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// parseJSON decodes the request body into T. Unknown fields are ignored.
func parseJSON[T any](r *http.Request) (T, error) {
	var req T

	body := http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return req, errors.New("request body is empty")
		}
		return req, err
	}
	return req, nil
}

// respondJSON sends a JSON response with the given status code
func respondJSON(w http.ResponseWriter, status int, data any) {
	response.RespondJSON(w, status, data)
}
