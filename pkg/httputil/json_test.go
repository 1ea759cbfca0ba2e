package httputil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/matzehuels/vectorstudio/pkg/errors"
)

func TestWriteError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		code    errors.Code
		message string
	}{
		{"invalid color", errors.New(errors.ErrCodeInvalidColor, "bad color"), 400, errors.ErrCodeInvalidColor, "bad color"},
		{"not found", errors.New(errors.ErrCodeNotFound, "no layer x"), 404, errors.ErrCodeNotFound, "no layer x"},
		{"unsupported", errors.New(errors.ErrCodeUnsupported, "no rsvg"), 501, errors.ErrCodeUnsupported, "no rsvg"},
		{"plain", fmt.Errorf("boom"), 500, errors.ErrCodeInternal, "internal error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteError(rec, nil, tt.err)
			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
			var body ErrorBody
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatal(err)
			}
			if body.Error.Code != tt.code || body.Error.Message != tt.message {
				t.Errorf("body = %+v", body)
			}
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	type req struct {
		Name string `json:"name"`
	}
	tests := []struct {
		name    string
		body    string
		ctype   string
		max     int64
		wantErr bool
	}{
		{"valid", `{"name":"a"}`, "application/json", 0, false},
		{"no content type", `{"name":"a"}`, "", 0, false},
		{"unknown field", `{"nom":"a"}`, "application/json", 0, true},
		{"trailing data", `{"name":"a"} {}`, "application/json", 0, true},
		{"wrong type", `{"name":"a"}`, "text/plain", 0, true},
		{"too large", `{"name":"` + strings.Repeat("x", 100) + `"}`, "application/json", 16, true},
		{"malformed", `{`, "application/json", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			if tt.ctype != "" {
				r.Header.Set("Content-Type", tt.ctype)
			}
			var v req
			err := DecodeJSON(httptest.NewRecorder(), r, &v, tt.max)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("err code = %s, want INVALID_INPUT", errors.GetCode(err))
			}
		})
	}
}

func TestReadBody(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("abcdef"))
	if _, err := ReadBody(httptest.NewRecorder(), r, 3); err == nil {
		t.Error("oversized body should fail")
	}
	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
	if _, err := ReadBody(httptest.NewRecorder(), r, 3); err == nil {
		t.Error("empty body should fail")
	}
}

func TestAttachment(t *testing.T) {
	rec := httptest.NewRecorder()
	Attachment(rec, "vector-design.png", "image/png", 42)
	h := rec.Header()
	if got := h.Get("Content-Disposition"); got != "attachment; filename=vector-design.png" {
		t.Errorf("Content-Disposition = %q", got)
	}
	if h.Get("Content-Type") != "image/png" || h.Get("Content-Length") != "42" {
		t.Errorf("headers = %v", h)
	}
}
