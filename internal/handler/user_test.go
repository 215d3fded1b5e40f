package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/parking-garage-api/internal/config"
	"github.com/iliyamo/parking-garage-api/internal/middleware"
	"github.com/iliyamo/parking-garage-api/internal/model"
	"github.com/iliyamo/parking-garage-api/internal/utils"
)

func testUserCfg() config.Config {
	return config.Config{JWTSecret: "unit-test-secret", BcryptCost: 4}
}

const registerBody = `{"first_name": "Ada", "last_name": "Lovelace", "email": "Ada@Example.com", "password": "secret1"}`

func TestUserRegister(t *testing.T) {
	store := newFakeUserStore()
	h := NewUserHandler(testUserCfg(), store)

	c, rec := newJSONContext(t, http.MethodPost, "/api/users", registerBody, "")
	require.NoError(t, h.Register(c))
	require.Equal(t, http.StatusOK, rec.Code)

	// Token is delivered in the response header, not the body.
	assert.NotEmpty(t, rec.Header().Get(middleware.HeaderAuthToken))

	var got model.SanitizedUser
	decodeBody(t, rec, &got)
	assert.NotZero(t, got.ID)
	assert.Equal(t, "ada@example.com", got.Email) // lowercased
	assert.False(t, got.Admin)
	assert.NotContains(t, rec.Body.String(), "password")

	// The stored credential is a bcrypt hash, never the plaintext.
	stored, err := store.GetByID(context.Background(), got.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", stored.PasswordHash)
	assert.True(t, utils.VerifyPassword(stored.PasswordHash, "secret1"))
}

func TestUserRegisterDuplicateEmail(t *testing.T) {
	store := newFakeUserStore()
	h := NewUserHandler(testUserCfg(), store)

	c, rec := newJSONContext(t, http.MethodPost, "/api/users", registerBody, "")
	require.NoError(t, h.Register(c))
	require.Equal(t, http.StatusOK, rec.Code)

	// Same address, different case: still a duplicate.
	c, rec = newJSONContext(t, http.MethodPost, "/api/users", registerBody, "")
	require.NoError(t, h.Register(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "user already exists", errMessage(t, rec))
}

func TestUserRegisterValidation(t *testing.T) {
	store := newFakeUserStore()
	h := NewUserHandler(testUserCfg(), store)

	c, rec := newJSONContext(t, http.MethodPost, "/api/users", `{"first_name": "A", "last_name": "Lovelace", "email": "bad", "password": "pw"}`, "")
	require.NoError(t, h.Register(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	// Only the first violation is reported.
	assert.Contains(t, errMessage(t, rec), "first_name")
}

func TestUserLogin(t *testing.T) {
	store := newFakeUserStore()
	h := NewUserHandler(testUserCfg(), store)

	c, rec := newJSONContext(t, http.MethodPost, "/api/users", registerBody, "")
	require.NoError(t, h.Register(c))
	require.Equal(t, http.StatusOK, rec.Code)

	c, rec = newJSONContext(t, http.MethodPost, "/api/users/login", `{"email": "ada@example.com", "password": "secret1"}`, "")
	require.NoError(t, h.Login(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var got map[string]string
	decodeBody(t, rec, &got)
	assert.NotEmpty(t, got["token"])
}

func TestUserLoginWrongCredentials(t *testing.T) {
	store := newFakeUserStore()
	h := NewUserHandler(testUserCfg(), store)

	c, rec := newJSONContext(t, http.MethodPost, "/api/users", registerBody, "")
	require.NoError(t, h.Register(c))
	require.Equal(t, http.StatusOK, rec.Code)

	// Wrong password and unknown email answer identically.
	c, rec = newJSONContext(t, http.MethodPost, "/api/users/login", `{"email": "ada@example.com", "password": "wrong1"}`, "")
	require.NoError(t, h.Login(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid email or password", errMessage(t, rec))

	c, rec = newJSONContext(t, http.MethodPost, "/api/users/login", `{"email": "nobody@example.com", "password": "secret1"}`, "")
	require.NoError(t, h.Login(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid email or password", errMessage(t, rec))
}

func TestUserListAndGetSanitized(t *testing.T) {
	store := newFakeUserStore()
	h := NewUserHandler(testUserCfg(), store)

	c, rec := newJSONContext(t, http.MethodPost, "/api/users", registerBody, "")
	require.NoError(t, h.Register(c))
	require.Equal(t, http.StatusOK, rec.Code)

	c, rec = newJSONContext(t, http.MethodGet, "/api/users", "", "")
	require.NoError(t, h.List(c))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password")

	c, rec = newJSONContext(t, http.MethodGet, "/api/users/1", "", "1")
	require.NoError(t, h.Get(c))
	require.Equal(t, http.StatusOK, rec.Code)
	var got model.SanitizedUser
	decodeBody(t, rec, &got)
	assert.Equal(t, "Ada", got.FirstName)
}

func TestUserUpdateNames(t *testing.T) {
	store := newFakeUserStore()
	h := NewUserHandler(testUserCfg(), store)

	c, rec := newJSONContext(t, http.MethodPost, "/api/users", registerBody, "")
	require.NoError(t, h.Register(c))
	require.Equal(t, http.StatusOK, rec.Code)

	c, rec = newJSONContext(t, http.MethodPut, "/api/users/1", `{"first_name": "Augusta"}`, "1")
	require.NoError(t, h.Update(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var got model.SanitizedUser
	decodeBody(t, rec, &got)
	assert.Equal(t, "Augusta", got.FirstName)
	assert.Equal(t, "Lovelace", got.LastName)
	assert.Equal(t, "ada@example.com", got.Email)
}

func TestUserResetPassword(t *testing.T) {
	store := newFakeUserStore()
	h := NewUserHandler(testUserCfg(), store)

	c, rec := newJSONContext(t, http.MethodPost, "/api/users", registerBody, "")
	require.NoError(t, h.Register(c))
	require.Equal(t, http.StatusOK, rec.Code)

	c, rec = newJSONContext(t, http.MethodPut, "/api/users/new/password", `{"email": "ada@example.com", "password": "changed1"}`, "")
	require.NoError(t, h.ResetPassword(c))
	require.Equal(t, http.StatusOK, rec.Code)

	// Old password stops working, the new one logs in.
	c, rec = newJSONContext(t, http.MethodPost, "/api/users/login", `{"email": "ada@example.com", "password": "secret1"}`, "")
	require.NoError(t, h.Login(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	c, rec = newJSONContext(t, http.MethodPost, "/api/users/login", `{"email": "ada@example.com", "password": "changed1"}`, "")
	require.NoError(t, h.Login(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUserResetPasswordUnknownEmail(t *testing.T) {
	store := newFakeUserStore()
	h := NewUserHandler(testUserCfg(), store)

	c, rec := newJSONContext(t, http.MethodPut, "/api/users/new/password", `{"email": "ghost@example.com", "password": "whatever1"}`, "")
	require.NoError(t, h.ResetPassword(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "the user with the given email was not found", errMessage(t, rec))
}

func TestUserDelete(t *testing.T) {
	store := newFakeUserStore()
	h := NewUserHandler(testUserCfg(), store)

	c, rec := newJSONContext(t, http.MethodPost, "/api/users", registerBody, "")
	require.NoError(t, h.Register(c))
	require.Equal(t, http.StatusOK, rec.Code)

	c, rec = newJSONContext(t, http.MethodDelete, "/api/users/1", "", "1")
	require.NoError(t, h.Delete(c))
	require.Equal(t, http.StatusOK, rec.Code)

	c, rec = newJSONContext(t, http.MethodGet, "/api/users/1", "", "1")
	require.NoError(t, h.Get(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
