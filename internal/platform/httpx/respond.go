// Package httpx provides JSON response utilities shared by the resource API.
package httpx

import (
	"encoding/json"
	"net/http"
)

// Envelope is the uniform mutation response shape: a falsy Status marks a
// business rejection even when the HTTP status is 200.
type Envelope struct {
	Status  bool   `json:"status"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// ListEnvelope wraps list payloads.
type ListEnvelope struct {
	Data  any `json:"data"`
	Total int `json:"total"`
}

// JSON sends a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// OK sends a success envelope.
func OK(w http.ResponseWriter, data any, message string) {
	JSON(w, http.StatusOK, Envelope{Status: true, Data: data, Message: message})
}

// Created sends a success envelope with a 201 status.
func Created(w http.ResponseWriter, data any, message string) {
	JSON(w, http.StatusCreated, Envelope{Status: true, Data: data, Message: message})
}

// List sends a list envelope.
func List(w http.ResponseWriter, data any, total int) {
	JSON(w, http.StatusOK, ListEnvelope{Data: data, Total: total})
}

// Fail sends a rejection envelope with the given HTTP status.
func Fail(w http.ResponseWriter, status int, message string) {
	JSON(w, status, Envelope{Status: false, Message: message})
}

// DecodeJSON decodes a JSON request body into the target struct.
func DecodeJSON(r *http.Request, target any) error {
	return json.NewDecoder(r.Body).Decode(target)
}

// Attachment streams a binary payload as a browser download.
func Attachment(w http.ResponseWriter, filename, contentType string, payload []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload)
}
