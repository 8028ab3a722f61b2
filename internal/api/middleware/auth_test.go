package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func validClaims() jwt.MapClaims {
	return jwt.MapClaims{
		"sub":      "usr_1",
		"username": "alice",
		"role":     "user",
		"exp":      time.Now().Add(time.Hour).Unix(),
	}
}

func invoke(t *testing.T, mw echo.MiddlewareFunc, authHeader string) (echo.Context, *httptest.ResponseRecorder, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := mw(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	err := handler(c)
	return c, rec, err
}

func TestAuth_ValidToken(t *testing.T) {
	token := signToken(t, testSecret, validClaims())
	c, rec, err := invoke(t, Auth(testSecret), "Bearer "+token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := c.Get("user_id"); got != "usr_1" {
		t.Errorf("user_id: want usr_1, got %v", got)
	}
	if got := c.Get("role"); got != "user" {
		t.Errorf("role: want user, got %v", got)
	}
	if got := c.Get("username"); got != "alice" {
		t.Errorf("username: want alice, got %v", got)
	}
}

func TestAuth_MissingHeader(t *testing.T) {
	_, _, err := invoke(t, Auth(testSecret), "")
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
}

func TestAuth_MalformedHeader(t *testing.T) {
	for _, header := range []string{"Token abc", "Bearer", "abc"} {
		_, _, err := invoke(t, Auth(testSecret), header)
		httpErr, ok := err.(*echo.HTTPError)
		if !ok || httpErr.Code != http.StatusUnauthorized {
			t.Errorf("header %q: expected 401 HTTPError, got %v", header, err)
		}
	}
}

func TestAuth_WrongSecret(t *testing.T) {
	token := signToken(t, "other-secret", validClaims())
	_, _, err := invoke(t, Auth(testSecret), "Bearer "+token)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
}

func TestAuth_ExpiredToken(t *testing.T) {
	claims := validClaims()
	claims["exp"] = time.Now().Add(-time.Hour).Unix()
	token := signToken(t, testSecret, claims)

	_, _, err := invoke(t, Auth(testSecret), "Bearer "+token)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
}

func TestOptionalAuth_NoHeaderIsAnonymous(t *testing.T) {
	c, rec, err := invoke(t, OptionalAuth(testSecret), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if c.Get("user_id") != nil {
		t.Error("anonymous request must not carry a user_id")
	}
}

func TestOptionalAuth_InvalidTokenIsAnonymous(t *testing.T) {
	c, rec, err := invoke(t, OptionalAuth(testSecret), "Bearer not-a-token")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if c.Get("user_id") != nil {
		t.Error("invalid token on optional route must degrade to anonymous")
	}
}

func TestOptionalAuth_ValidTokenInjectsIdentity(t *testing.T) {
	token := signToken(t, testSecret, validClaims())
	c, _, err := invoke(t, OptionalAuth(testSecret), "Bearer "+token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := c.Get("user_id"); got != "usr_1" {
		t.Errorf("user_id: want usr_1, got %v", got)
	}
}
