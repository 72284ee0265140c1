package group

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/fkhayef/secretsanta/internal/apperr"
	"github.com/fkhayef/secretsanta/internal/testutil"
	"github.com/fkhayef/secretsanta/pkg/middleware"
	"github.com/fkhayef/secretsanta/pkg/response"
)

func (f *fixture) handler(t *testing.T) http.Handler {
	t.Helper()
	return NewHandler(f.service(t, f.store, nil), language.BrazilianPortuguese).Routes()
}

func (f *fixture) do(h http.Handler, r *http.Request, signedIn bool) *httptest.ResponseRecorder {
	if signedIn {
		r = r.WithContext(f.ctx)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	return rec
}

func groupForm(names, emails []string) *http.Request {
	form := url.Values{"groupName": {"Família"}, "name": names, "email": emails}
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return r
}

func formState(t *testing.T, rec *httptest.ResponseRecorder) response.FormState {
	t.Helper()
	var state response.FormState
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&state))
	require.NotNil(t, state.Success)
	return state
}

func TestHandlerCreateRedirects(t *testing.T) {
	f := newFixture(t)
	h := f.handler(t)

	rec := f.do(h, groupForm([]string{"Ana", "Bia"}, []string{"ana@example.com", "bia@example.com"}), true)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	location := rec.Header().Get("Location")
	assert.True(t, strings.HasPrefix(location, "/groups/"), location)
	assert.Equal(t, 1, testutil.CountRows(t, f.db, "groups"))
	assert.Len(t, f.sender.sent, 2)
}

func TestHandlerCreateNotificationFailure(t *testing.T) {
	f := newFixture(t)
	f.sender.err = errors.New("provider rejected")
	h := f.handler(t)

	rec := f.do(h, groupForm([]string{"Ana", "Bia"}, []string{"ana@example.com", "bia@example.com"}), true)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	state := formState(t, rec)
	assert.False(t, *state.Success)
	assert.Equal(t, "Ocorreu um erro ao enviar os emails.", state.Message)
	assert.Equal(t, 1, testutil.CountRows(t, f.db, "groups"))
}

func TestHandlerCreateMismatchedArrays(t *testing.T) {
	f := newFixture(t)
	h := f.handler(t)

	rec := f.do(h, groupForm(
		[]string{"Ana", "Bia", "Caio"},
		[]string{"ana@example.com", "bia@example.com"},
	), true)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	state := formState(t, rec)
	assert.False(t, *state.Success)
	assert.Equal(t, apperr.Message(language.BrazilianPortuguese, apperr.CodeValidation), state.Message)
	assert.Zero(t, testutil.CountRows(t, f.db, "groups"))
	assert.Empty(t, f.sender.sent)
}

func TestHandlerCreateAnonymous(t *testing.T) {
	f := newFixture(t)
	h := f.handler(t)

	r := groupForm([]string{"Ana", "Bia"}, []string{"ana@example.com", "bia@example.com"})
	r.Header.Set("Accept-Language", "en")
	rec := f.do(h, r, false)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	state := formState(t, rec)
	assert.Equal(t, apperr.Message(language.English, apperr.CodeAuth), state.Message)
}

func TestHandlerCreateJSON(t *testing.T) {
	f := newFixture(t)
	h := f.handler(t)

	body := `{"name":"Amigos","participants":[{"name":"Ana","email":"ana@example.com"},{"name":"Bia","email":"bia@example.com"},{"name":"Caio","email":"caio@example.com"}]}`
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	rec := f.do(h, r, true)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Len(t, f.sender.sent, 3)
}

func TestHandlerGetByID(t *testing.T) {
	f := newFixture(t)
	h := f.handler(t)

	rec := f.do(h, groupForm([]string{"Ana", "Bia"}, []string{"ana@example.com", "bia@example.com"}), true)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	id := strings.TrimPrefix(rec.Header().Get("Location"), "/groups/")

	rec = f.do(h, httptest.NewRequest(http.MethodGet, "/"+id, nil), true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "assigned_to")

	var body struct {
		Data GroupResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "Família", body.Data.Name)
	require.Len(t, body.Data.Participants, 2)
	for _, p := range body.Data.Participants {
		assert.True(t, p.Drawn)
	}

	other := httptest.NewRequest(http.MethodGet, "/"+id, nil)
	other = other.WithContext(middleware.WithIdentity(context.Background(), &middleware.Identity{UserID: "someone-else"}))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, other)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(h, httptest.NewRequest(http.MethodGet, "/"+id, nil), false)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandlerList(t *testing.T) {
	f := newFixture(t)
	h := f.handler(t)

	for i := 0; i < 3; i++ {
		rec := f.do(h, groupForm([]string{"Ana", "Bia"}, []string{"ana@example.com", "bia@example.com"}), true)
		require.Equal(t, http.StatusSeeOther, rec.Code)
	}

	rec := f.do(h, httptest.NewRequest(http.MethodGet, "/?page=2&per_page=2", nil), true)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Success bool             `json:"success"`
		Data    []*GroupResponse `json:"data"`
		Meta    response.Meta    `json:"meta"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.True(t, body.Success)
	assert.Len(t, body.Data, 1)
	assert.Equal(t, 3, body.Meta.Total)
	assert.Equal(t, 2, body.Meta.TotalPages)
}

func TestHandlerCreateAnonymousMismatchedArrays(t *testing.T) {
	f := newFixture(t)
	h := f.handler(t)

	rec := f.do(h, groupForm(
		[]string{"Ana", "Bia", "Caio"},
		[]string{"ana@example.com", "bia@example.com"},
	), false)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	state := formState(t, rec)
	assert.Equal(t, apperr.Message(language.BrazilianPortuguese, apperr.CodeAuth), state.Message)
}

func TestHandlerCreateTooManyParticipants(t *testing.T) {
	f := newFixture(t)
	h := f.handler(t)

	var names, emails []string
	for i := 0; i <= MaxParticipants; i++ {
		names = append(names, fmt.Sprintf("P%d", i))
		emails = append(emails, fmt.Sprintf("p%d@example.com", i))
	}

	rec := f.do(h, groupForm(names, emails), true)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, apperr.Message(language.BrazilianPortuguese, apperr.CodeValidation), formState(t, rec).Message)
	assert.Zero(t, testutil.CountRows(t, f.db, "groups"))
	assert.Empty(t, f.sender.sent)
}
