package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/parking-garage-api/internal/model"
	"github.com/iliyamo/parking-garage-api/internal/utils"
)

const testSecret = "unit-test-secret"

// do runs a request through TokenAuth (and optionally RequireAdmin) into
// a probe handler that records the context claims.
func do(t *testing.T, token string, withAdminGate bool) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/garages", nil)
	if token != "" {
		req.Header.Set(HeaderAuthToken, token)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	probe := func(c echo.Context) error { return c.String(http.StatusOK, "ok") }
	h := TokenAuth(testSecret)(probe)
	if withAdminGate {
		h = TokenAuth(testSecret)(RequireAdmin()(probe))
	}
	require.NoError(t, h(c))
	return rec, c
}

func TestTokenAuthMissingToken(t *testing.T) {
	rec, _ := do(t, "", false)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "no token provided")
}

func TestTokenAuthGarbageToken(t *testing.T) {
	rec, _ := do(t, "not.a.jwt", false)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestTokenAuthWrongSecret(t *testing.T) {
	token, err := utils.NewAuthToken("other-secret", model.User{ID: 1, Admin: true}, 0)
	require.NoError(t, err)
	rec, _ := do(t, token, false)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestTokenAuthExpiredToken(t *testing.T) {
	claims := jwt.MapClaims{
		"sub":        float64(1),
		"first_name": "Old",
		"last_name":  "Token",
		"admin":      false,
		"iat":        time.Now().Add(-2 * time.Hour).Unix(),
		"exp":        time.Now().Add(-time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	rec, _ := do(t, token, false)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestTokenAuthNonExpiringToken(t *testing.T) {
	// ttl 0 issues a token without an exp claim; it must keep working.
	token, err := utils.NewAuthToken(testSecret, model.User{ID: 1}, 0)
	require.NoError(t, err)

	rec, _ := do(t, token, false)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestTokenAuthPopulatesContext(t *testing.T) {
	u := model.User{ID: 9, FirstName: "Ada", LastName: "Lovelace", Admin: false}
	token, err := utils.NewAuthToken(testSecret, u, 0)
	require.NoError(t, err)

	rec, c := do(t, token, false)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint64(9), c.Get(CtxUserID))
	assert.Equal(t, "Ada", c.Get(CtxFirstName))
	assert.Equal(t, "Lovelace", c.Get(CtxLastName))
	assert.Equal(t, false, c.Get(CtxIsAdmin))
}

func TestRequireAdminForbidsNonAdmin(t *testing.T) {
	token, err := utils.NewAuthToken(testSecret, model.User{ID: 2, FirstName: "No", LastName: "Body"}, 0)
	require.NoError(t, err)

	rec, _ := do(t, token, true)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "restricted to admin")
}

func TestRequireAdminAllowsAdmin(t *testing.T) {
	token, err := utils.NewAuthToken(testSecret, model.User{ID: 3, FirstName: "Root", LastName: "User", Admin: true}, 0)
	require.NoError(t, err)

	rec, _ := do(t, token, true)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireAdminWithoutAuthContext(t *testing.T) {
	// RequireAdmin without a preceding TokenAuth finds no admin flag and
	// must deny rather than allow.
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := RequireAdmin()(func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	require.NoError(t, h(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
