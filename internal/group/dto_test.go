package group

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormPairsArrays(t *testing.T) {
	req, err := ParseForm("Família", []string{"Ana", "Bia"}, []string{"ana@example.com", "bia@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "Família", req.Name)
	assert.Equal(t, []ParticipantInput{
		{Name: "Ana", Email: "ana@example.com"},
		{Name: "Bia", Email: "bia@example.com"},
	}, req.Participants)
}

func TestParseFormRejectsMismatchedArrays(t *testing.T) {
	_, err := ParseForm("Família", []string{"Ana", "Bia", "Caio"}, []string{"ana@example.com", "bia@example.com"})
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestNormalize(t *testing.T) {
	req := &CreateGroupRequest{
		GroupName: "  Trabalho ",
		Participants: []ParticipantInput{
			{Name: " Ana ", Email: "Ana@Example.com"},
			{Name: "Bia", Email: "bia@example.com "},
		},
	}

	out, err := req.Normalize()
	require.NoError(t, err)
	assert.Equal(t, "Trabalho", out.Name)
	assert.Equal(t, "Ana", out.Participants[0].Name)
	assert.Equal(t, "ana@example.com", out.Participants[0].Email)
	assert.Equal(t, "bia@example.com", out.Participants[1].Email)
	assert.Equal(t, " Ana ", req.Participants[0].Name, "input must not change")
}

func TestNormalizeRejects(t *testing.T) {
	two := []ParticipantInput{{Name: "Ana", Email: "ana@example.com"}, {Name: "Bia", Email: "bia@example.com"}}

	tests := []struct {
		name string
		req  CreateGroupRequest
	}{
		{"no group name", CreateGroupRequest{Participants: two}},
		{"one participant", CreateGroupRequest{Name: "G", Participants: two[:1]}},
		{"no participants", CreateGroupRequest{Name: "G"}},
		{"blank participant name", CreateGroupRequest{Name: "G", Participants: []ParticipantInput{
			{Name: " ", Email: "ana@example.com"}, two[1],
		}}},
		{"invalid e-mail", CreateGroupRequest{Name: "G", Participants: []ParticipantInput{
			two[0], {Name: "Bia", Email: "bia-at-example"},
		}}},
		{"repeated e-mail", CreateGroupRequest{Name: "G", Participants: []ParticipantInput{
			two[0], {Name: "Ana 2", Email: "ANA@example.com"},
		}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.req.Normalize()
			assert.ErrorIs(t, err, ErrInvalidRequest)
		})
	}
}

func decode(r *http.Request) *CreateGroupRequest {
	return DecodeCreateRequest(httptest.NewRecorder(), r)
}

func TestDecodeCreateRequestForm(t *testing.T) {
	form := url.Values{
		"groupName": {"Família"},
		"name":      {"Ana", "Bia"},
		"email":     {"ana@example.com", "bia@example.com"},
	}
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	req, err := decode(r).Normalize()
	require.NoError(t, err)
	assert.Equal(t, "Família", req.Name)
	assert.Len(t, req.Participants, 2)
}

func TestDecodeCreateRequestBracketFields(t *testing.T) {
	form := url.Values{
		"groupName": {"Família"},
		"name[]":    {"Ana", "Bia"},
		"email[]":   {"ana@example.com"},
	}
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	_, err := decode(r).Normalize()
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestDecodeCreateRequestJSON(t *testing.T) {
	body := `{"name":"Amigos","participants":[{"name":"Ana","email":"ana@example.com"},{"name":"Bia","email":"bia@example.com"}]}`
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json; charset=utf-8")

	req := decode(r)
	assert.Equal(t, "Amigos", req.Name)
	assert.Equal(t, "bia@example.com", req.Participants[1].Email)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{"))
	r.Header.Set("Content-Type", "application/json")
	_, err := decode(r).Normalize()
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestDecodeCreateRequestBodyLimit(t *testing.T) {
	body := `{"name":"Grande","participants":[` + strings.Repeat(`{"name":"x","email":"x@example.com"},`, maxBodyBytes/20) + `]}`
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")

	_, err := decode(r).Normalize()
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestNormalizeRejectsTooManyParticipants(t *testing.T) {
	req := &CreateGroupRequest{Name: "Estádio"}
	for i := 0; i <= MaxParticipants; i++ {
		req.Participants = append(req.Participants, ParticipantInput{
			Name:  fmt.Sprintf("P%d", i),
			Email: fmt.Sprintf("p%d@example.com", i),
		})
	}

	_, err := req.Normalize()
	assert.ErrorIs(t, err, ErrInvalidRequest)

	req.Participants = req.Participants[:MaxParticipants]
	_, err = req.Normalize()
	assert.NoError(t, err)
}

func TestParticipantResponseHidesAssignment(t *testing.T) {
	to := "someone"
	resp := (&Participant{ID: "p1", Name: "Ana", Email: "ana@example.com", AssignedTo: &to}).ToResponse()
	assert.True(t, resp.Drawn)
	assert.Equal(t, "p1", resp.ID)
}
