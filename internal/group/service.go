package group

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/fkhayef/secretsanta/internal/apperr"
	"github.com/fkhayef/secretsanta/internal/group/draw"
	"github.com/fkhayef/secretsanta/internal/metrics"
	"github.com/fkhayef/secretsanta/internal/notification"
	"github.com/fkhayef/secretsanta/pkg/middleware"
)

// Common errors
var (
	ErrGroupNotFound = errors.New("group not found")
)

// Authenticator resolves the caller of a request
type Authenticator interface {
	CurrentUser(ctx context.Context) (*middleware.Identity, error)
}

// Notifier tells drawn participants who they give a gift to
type Notifier interface {
	Notify(ctx context.Context, recipients []notification.Recipient, groupName string) error
}

// SourceFunc returns the randomness for one draw
type SourceFunc func() (draw.Source, error)

// Service handles group business logic
type Service struct {
	store     Store
	auth      Authenticator
	notifier  Notifier
	strategy  draw.Strategy
	newSource SourceFunc
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

// NewService creates a new group service. A nil newSource draws from a
// ChaCha8 source seeded by crypto/rand on every call.
func NewService(
	store Store,
	auth Authenticator,
	notifier Notifier,
	strategy draw.Strategy,
	newSource SourceFunc,
	m *metrics.Metrics,
	logger *slog.Logger,
) *Service {
	if newSource == nil {
		newSource = func() (draw.Source, error) { return draw.NewRandomSource() }
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:     store,
		auth:      auth,
		notifier:  notifier,
		strategy:  strategy,
		newSource: newSource,
		metrics:   m,
		logger:    logger,
	}
}

// CreateGroup creates a group owned by the caller, adds the participants,
// draws who gives a gift to whom and e-mails everyone their assignment.
//
// The group, its participants and the draw are written in one transaction.
// Notification runs after commit: when it fails the group is returned along
// with a NOTIFICATION_ERROR. Every error is an *apperr.Error.
func (s *Service) CreateGroup(ctx context.Context, req *CreateGroupRequest) (*Group, error) {
	caller, err := s.auth.CurrentUser(ctx)
	if err != nil {
		return nil, s.fail(ctx, apperr.CodeAuth, err)
	}

	input, err := req.Normalize()
	if err != nil {
		return nil, s.fail(ctx, apperr.CodeValidation, err)
	}

	var (
		group        *Group
		participants []*Participant
	)
	err = s.store.InTx(ctx, func(store Store) error {
		group, err = store.CreateGroup(ctx, input.Name, caller.UserID)
		if err != nil {
			return apperr.Wrap(apperr.CodeGroupCreation, err)
		}

		participants, err = store.CreateParticipants(ctx, group.ID, input.Participants)
		if err != nil {
			return apperr.Wrap(apperr.CodeParticipantCreation, err)
		}

		if err := s.drawAssignments(participants); err != nil {
			return apperr.Wrap(apperr.CodeAssignmentPersist, err)
		}

		if err := store.UpsertAssignments(ctx, participants); err != nil {
			return apperr.Wrap(apperr.CodeAssignmentPersist, err)
		}
		return nil
	})
	if err != nil {
		code := apperr.CodeOf(err)
		if code == "" {
			code = apperr.CodeGroupCreation
		}
		return nil, s.fail(ctx, code, err)
	}

	if err := s.notifier.Notify(ctx, toRecipients(participants), group.Name); err != nil {
		return group, s.fail(ctx, apperr.CodeNotification, err)
	}

	s.metrics.GroupCreated()
	s.logger.InfoContext(ctx, "Group created",
		"group_id", group.ID,
		"owner_id", group.OwnerID,
		"participants", len(participants),
		"strategy", s.strategy.Type(),
	)
	return group, nil
}

// GetByID retrieves a group with its participants. Groups owned by someone
// else are reported as not found.
func (s *Service) GetByID(ctx context.Context, ownerID, id string) (*Group, []*Participant, error) {
	group, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if group == nil || group.OwnerID != ownerID {
		return nil, nil, ErrGroupNotFound
	}

	participants, err := s.store.ListParticipants(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	return group, participants, nil
}

// ListByOwner retrieves a page of the groups a user owns
func (s *Service) ListByOwner(ctx context.Context, ownerID string, page, perPage int) ([]*Group, int, error) {
	offset := (page - 1) * perPage
	return s.store.ListByOwner(ctx, ownerID, perPage, offset)
}

func (s *Service) drawAssignments(participants []*Participant) error {
	src, err := s.newSource()
	if err != nil {
		return err
	}

	ids := make([]string, len(participants))
	for i, p := range participants {
		ids[i] = p.ID
	}

	receivers, err := draw.Assign(s.strategy, ids, src)
	if err != nil {
		return fmt.Errorf("draw: %w", err)
	}

	for i, p := range participants {
		p.AssignedTo = &receivers[i]
	}
	return nil
}

func (s *Service) fail(ctx context.Context, code apperr.Code, err error) error {
	s.metrics.GroupFailed(string(code))
	s.logger.WarnContext(ctx, "Group creation failed", "code", code, "error", err)

	var appErr *apperr.Error
	if errors.As(err, &appErr) && appErr.Code == code {
		return appErr
	}
	return apperr.Wrap(code, err)
}

func toRecipients(participants []*Participant) []notification.Recipient {
	recipients := make([]notification.Recipient, len(participants))
	for i, p := range participants {
		recipients[i] = notification.Recipient{
			ID:    p.ID,
			Name:  p.Name,
			Email: p.Email,
		}
		if p.AssignedTo != nil {
			recipients[i].AssignedTo = *p.AssignedTo
		}
	}
	return recipients
}
