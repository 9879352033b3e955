package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJSONResponse_OmitsUnsetPayloadKeys(t *testing.T) {
	rec := httptest.NewRecorder()
	JSONResponse(rec, http.StatusOK, Payload{Message: "Note deleted successfully"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":false,"message":"Note deleted successfully"}`, rec.Body.String())
}

func TestJSONResponse_EmptyNotesListIsKept(t *testing.T) {
	rec := httptest.NewRecorder()
	JSONResponse(rec, http.StatusOK, Payload{Notes: []string{}, Message: "ok"})

	assert.JSONEq(t, `{"error":false,"message":"ok","notes":[]}`, rec.Body.String())
}

func TestErrorResponse(t *testing.T) {
	rec := httptest.NewRecorder()
	ErrorResponse(rec, http.StatusNotFound, "Note not found")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":true,"message":"Note not found"}`, rec.Body.String())
}

func TestRandomToken(t *testing.T) {
	a, err := RandomToken(16)
	assert.NoError(t, err)
	b, err := RandomToken(16)
	assert.NoError(t, err)

	assert.Len(t, a, 22)
	assert.NotEqual(t, a, b)
}
