package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/clinic-appointments/internal/utils"
)

const testSecret = "test-secret-key-for-unit-tests"

// newGateServer mounts the gate in front of a handler that echoes the
// claim email.
func newGateServer() *echo.Echo {
	e := echo.New()
	e.GET("/protected", func(c echo.Context) error {
		email, _ := ClaimEmail(c)
		return c.JSON(http.StatusOK, echo.Map{"email": email})
	}, VerifyJWT(testSecret))
	return e
}

func doGet(e *echo.Echo, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authorization != "" {
		req.Header.Set(echo.HeaderAuthorization, authorization)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v, body=%s", err, rec.Body.String())
	}
	return body
}

func TestVerifyJWT(t *testing.T) {
	t.Parallel()

	valid, err := utils.IssueAccessToken(testSecret, map[string]any{"email": "a@x.com"}, time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email": "a@x.com",
		"exp":   time.Now().Add(-time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	tests := []struct {
		name          string
		authorization string
		wantStatus    int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"scheme only", "Bearer", http.StatusForbidden},
		{"malformed token", "Bearer abc.def.ghi", http.StatusForbidden},
		{"expired token", "Bearer " + expired, http.StatusForbidden},
		{"valid token", "Bearer " + valid.Token, http.StatusOK},
		{"scheme is not checked", "Token " + valid.Token, http.StatusOK},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := doGet(newGateServer(), tt.authorization)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d, body=%s", rec.Code, tt.wantStatus, rec.Body.String())
			}
			body := decodeBody(t, rec)
			if tt.wantStatus == http.StatusOK {
				if body["email"] != "a@x.com" {
					t.Errorf("email = %v, want a@x.com", body["email"])
				}
				return
			}
			if body["error"] != true || body["message"] != MsgUnauthorizeAccess {
				t.Errorf("body = %v", body)
			}
		})
	}
}

func TestClaimEmailWithoutGate(t *testing.T) {
	t.Parallel()

	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	if got, ok := ClaimEmail(c); got != "" || ok {
		t.Errorf("ClaimEmail = %q, %v, want empty, false", got, ok)
	}
	if HasClaim(c, "email") {
		t.Error("HasClaim should be false without the gate")
	}
	if Decoded(c) != nil {
		t.Error("Decoded should be nil without the gate")
	}
}

func TestClaimEmailTypes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		claims    jwt.MapClaims
		wantEmail string
		wantOK    bool
		wantHas   bool
	}{
		{"string", jwt.MapClaims{"email": "a@x.com"}, "a@x.com", true, true},
		{"empty string", jwt.MapClaims{"email": ""}, "", true, true},
		{"number", jwt.MapClaims{"email": float64(5)}, "", false, true},
		{"null", jwt.MapClaims{"email": nil}, "", false, true},
		{"absent", jwt.MapClaims{"name": "Ann"}, "", false, false},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
			c.Set(decodedKey, tt.claims)

			email, ok := ClaimEmail(c)
			if email != tt.wantEmail || ok != tt.wantOK {
				t.Errorf("ClaimEmail = %q, %v, want %q, %v", email, ok, tt.wantEmail, tt.wantOK)
			}
			if got := HasClaim(c, "email"); got != tt.wantHas {
				t.Errorf("HasClaim = %v, want %v", got, tt.wantHas)
			}
		})
	}
}
