package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestRequireAuthRejectsMissingToken(t *testing.T) {
	cases := []struct {
		name  string
		authz string
	}{
		{"no header", ""},
		{"wrong scheme", "Basic abc"},
		{"empty bearer", "Bearer "},
	}
	m := &AuthMiddleware{}
	next := func(c echo.Context) error {
		t.Fatal("next handler reached without a token")
		return nil
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/api/me/matches", nil)
			if tc.authz != "" {
				req.Header.Set("Authorization", tc.authz)
			}
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			if err := m.RequireAuth(next)(c); err != nil {
				t.Fatalf("middleware error: %v", err)
			}
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("status=%d want 401", rec.Code)
			}
			var resp struct {
				Error struct {
					Code    string `json:"code"`
					Message string `json:"message"`
				} `json:"error"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Error.Code != "unauthorized" || resp.Error.Message == "" {
				t.Fatalf("unexpected envelope: %+v", resp)
			}
		})
	}
}

func TestBearerToken(t *testing.T) {
	cases := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"Bearer abc123", "abc123", true},
		{"Bearer  padded ", "padded", true},
		{"bearer abc123", "", false},
		{"Bearer ", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := bearerToken(tc.in)
		if got != tc.want || ok != tc.wantOK {
			t.Fatalf("bearerToken(%q)=(%q,%v) want (%q,%v)", tc.in, got, ok, tc.want, tc.wantOK)
		}
	}
}
