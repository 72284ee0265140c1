package group

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strings"

	"github.com/fkhayef/secretsanta/internal/user"
)

// ErrInvalidRequest is wrapped by every validation failure of a create request
var ErrInvalidRequest = errors.New("invalid group request")

const (
	// MaxParticipants bounds the size of a single draw
	MaxParticipants = 200

	maxBodyBytes = 1 << 20
)

// ParticipantInput is one participant as submitted by the client
type ParticipantInput struct {
	Name  string `json:"name" example:"Maria"`
	Email string `json:"email" example:"maria@example.com"`
}

// CreateGroupRequest represents the request to create and draw a new group.
// GroupName is accepted as an alias of Name to match the form field.
type CreateGroupRequest struct {
	Name         string             `json:"name" example:"Família"`
	GroupName    string             `json:"groupName,omitempty"`
	Participants []ParticipantInput `json:"participants"`

	decodeErr error
}

// GroupResponse represents the response for a group
type GroupResponse struct {
	ID           string                 `json:"id"`
	Name         string                 `json:"name"`
	OwnerID      string                 `json:"owner_id"`
	CreatedAt    string                 `json:"created_at"`
	Participants []*ParticipantResponse `json:"participants,omitempty"`
}

// ParticipantResponse represents a participant in a group response.
// Assignments are never exposed; Drawn only tells whether the participant
// has one.
type ParticipantResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Drawn bool   `json:"drawn"`
}

// ToResponse converts a Group model to a GroupResponse DTO
func (g *Group) ToResponse() *GroupResponse {
	return &GroupResponse{
		ID:        g.ID,
		Name:      g.Name,
		OwnerID:   g.OwnerID,
		CreatedAt: g.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
}

// ToResponse converts a Participant model to a ParticipantResponse DTO
func (p *Participant) ToResponse() *ParticipantResponse {
	return &ParticipantResponse{
		ID:    p.ID,
		Name:  p.Name,
		Email: p.Email,
		Drawn: p.AssignedTo != nil,
	}
}

// DecodeCreateRequest reads a create request from a JSON body or from a form
// with a groupName field and parallel name/email fields. The body is limited
// to maxBodyBytes. A malformed body does not fail here: it is kept on the
// request and reported by Normalize, after the caller has been identified.
func DecodeCreateRequest(w http.ResponseWriter, r *http.Request) *CreateGroupRequest {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		var req CreateGroupRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return &CreateGroupRequest{decodeErr: fmt.Errorf("%w: malformed body: %v", ErrInvalidRequest, err)}
		}
		return &req
	}

	if err := r.ParseMultipartForm(maxBodyBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return &CreateGroupRequest{decodeErr: fmt.Errorf("%w: malformed form: %v", ErrInvalidRequest, err)}
	}
	req, err := ParseForm(r.PostForm.Get("groupName"), formValues(r, "name"), formValues(r, "email"))
	if err != nil {
		return &CreateGroupRequest{decodeErr: err}
	}
	return req
}

// ParseForm pairs the positional name and email arrays of the group form.
// Arrays of different lengths are rejected rather than truncated.
func ParseForm(groupName string, names, emails []string) (*CreateGroupRequest, error) {
	if len(names) != len(emails) {
		return nil, fmt.Errorf("%w: %d names but %d e-mails", ErrInvalidRequest, len(names), len(emails))
	}

	req := &CreateGroupRequest{Name: groupName}
	for i := range names {
		req.Participants = append(req.Participants, ParticipantInput{Name: names[i], Email: emails[i]})
	}
	return req, nil
}

// Normalize validates the request and returns a copy with trimmed names and
// normalized e-mails.
func (req *CreateGroupRequest) Normalize() (*CreateGroupRequest, error) {
	if req.decodeErr != nil {
		return nil, req.decodeErr
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = strings.TrimSpace(req.GroupName)
	}
	if name == "" {
		return nil, fmt.Errorf("%w: group name is required", ErrInvalidRequest)
	}
	if len(req.Participants) < 2 {
		return nil, fmt.Errorf("%w: at least two participants are required", ErrInvalidRequest)
	}
	if len(req.Participants) > MaxParticipants {
		return nil, fmt.Errorf("%w: at most %d participants are allowed, got %d", ErrInvalidRequest, MaxParticipants, len(req.Participants))
	}

	out := &CreateGroupRequest{Name: name, Participants: make([]ParticipantInput, 0, len(req.Participants))}
	seen := make(map[string]bool, len(req.Participants))
	for i, p := range req.Participants {
		pName := strings.TrimSpace(p.Name)
		if pName == "" {
			return nil, fmt.Errorf("%w: participant %d has no name", ErrInvalidRequest, i+1)
		}
		email, err := user.NormalizeEmail(p.Email)
		if err != nil {
			return nil, fmt.Errorf("%w: participant %d: %v", ErrInvalidRequest, i+1, err)
		}
		if seen[email] {
			return nil, fmt.Errorf("%w: e-mail %s is repeated", ErrInvalidRequest, email)
		}
		seen[email] = true
		out.Participants = append(out.Participants, ParticipantInput{Name: pName, Email: email})
	}
	return out, nil
}

// formValues returns the posted values of key, also accepting the key[]
// spelling used by array-style form fields.
func formValues(r *http.Request, key string) []string {
	if values, ok := r.PostForm[key]; ok {
		return values
	}
	return r.PostForm[key+"[]"]
}
