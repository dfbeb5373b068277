package info

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHandler_ServeHTTP(t *testing.T) {
	rec := httptest.NewRecorder()
	New("Cyber Stack", "1.0.0").ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"appName":"Cyber Stack","version":"1.0.0"}`, rec.Body.String())
}
