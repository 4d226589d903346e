// internal/handlers/user_test.go
package handlers

import (
	"net/http"
	"testing"

	"github.com/deepanshu089/linkedin-lite/internal/auth"
	"github.com/deepanshu089/linkedin-lite/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterLoginAndProfile(t *testing.T) {
	ts := newTestServer(t)

	body := []byte(`{"email":"dana@example.com","password":"s3cret","name":"Dana","bio":"hi"}`)
	w := ts.do(http.MethodPost, "/api/users/register", "", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[models.Profile](t, w)
	assert.Equal(t, "Dana", created.Name)
	assert.NotContains(t, w.Body.String(), "s3cret")

	w = ts.do(http.MethodPost, "/api/users/register", "", body)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = ts.do(http.MethodPost, "/api/users/login", "", []byte(`{"email":"dana@example.com","password":"wrong"}`))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = ts.do(http.MethodPost, "/api/users/login", "", []byte(`{"email":"dana@example.com","password":"s3cret"}`))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	login := decode[loginResponse](t, w)
	assert.Equal(t, created.ID, login.User.ID)

	var cookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == auth.CookieName {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	assert.Equal(t, login.Token, cookie.Value)

	w = ts.do(http.MethodGet, "/api/users/"+created.ID.String(), login.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "hi", decode[models.Profile](t, w).Bio)

	w = ts.do(http.MethodGet, "/api/users/"+uuid.NewString(), login.Token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRegisterValidation(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(http.MethodPost, "/api/users/register", "", []byte(`{"email":"","password":"x"}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = ts.do(http.MethodPost, "/api/users/register", "", []byte(`not json`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	w := ts.do(http.MethodGet, "/api/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", decode[map[string]string](t, w)["status"])
}
