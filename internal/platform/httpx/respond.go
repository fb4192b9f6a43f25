// Package httpx provides the JSON response envelope shared by every handler.
package httpx

import (
	"encoding/json"
	"net/http"
)

// Envelope is the wire format the mobile client expects.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Total   *int   `json:"total,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// JSON writes a raw JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// OK wraps data in a success envelope.
func OK(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, Envelope{Success: true, Data: data})
}

// Created wraps data in a success envelope with a message and 201.
func Created(w http.ResponseWriter, data any, message string) {
	JSON(w, http.StatusCreated, Envelope{Success: true, Data: data, Message: message})
}

// OKMessage responds success with a message and no data.
func OKMessage(w http.ResponseWriter, message string) {
	JSON(w, http.StatusOK, Envelope{Success: true, Message: message})
}

// OKList wraps a slice in a success envelope carrying its length.
func OKList(w http.ResponseWriter, data any, total int) {
	JSON(w, http.StatusOK, Envelope{Success: true, Data: data, Total: &total})
}

// Fail writes a failure envelope with the given status.
func Fail(w http.ResponseWriter, status int, message string) {
	JSON(w, status, Envelope{Success: false, Error: message})
}

// DecodeJSON decodes the request body into target.
func DecodeJSON(r *http.Request, target any) error {
	return json.NewDecoder(r.Body).Decode(target)
}
