package main

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gin-gonic/gin"
)

func ctxWithID(t *testing.T, raw string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/?id="+url.QueryEscape(raw), nil)
	return c, w
}

// Nicht-numerische id-Werte würden von gorm als rohe SQL-Condition
// interpretiert; sie müssen an der Grenze mit 400 abgewiesen werden.
func TestQueryIDRejectsNonNumericInput(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []string{
		"",
		"abc",
		"1 OR 1=1",
		"1; DROP TABLE questions",
		"1 OR EXISTS (SELECT password FROM admin_accounts)",
		"-1",
		"0",
		"1.5",
	}
	for _, raw := range cases {
		c, w := ctxWithID(t, raw)
		if _, ok := queryID(c); ok {
			t.Errorf("queryID(%q) accepted, want rejection", raw)
		}
		if w.Code != http.StatusBadRequest {
			t.Errorf("queryID(%q) wrote status %d, want %d", raw, w.Code, http.StatusBadRequest)
		}
	}
}

func TestQueryIDAcceptsNumericInput(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c, w := ctxWithID(t, "42")
	id, ok := queryID(c)
	if !ok {
		t.Fatalf("queryID rejected a numeric id, status %d", w.Code)
	}
	if id != 42 {
		t.Errorf("queryID returned %d, want 42", id)
	}
}
