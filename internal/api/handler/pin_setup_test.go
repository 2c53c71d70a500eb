package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPINSetupPage(t *testing.T) {
	rec := httptest.NewRecorder()
	PINSetupPage(rec, httptest.NewRequest(http.MethodGet, "/setup-pin?phone=%2B14155550100&token=abc", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	body := rec.Body.String()
	assert.Contains(t, body, `"/registrations/" + encodeURIComponent(phone) + "/pin"`)
	assert.Contains(t, body, `params.get("token")`)
}
