package notification

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/resend/resend-go/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	mu       sync.Mutex
	sent     []Message
	failFor  map[string]error
	delay    time.Duration
	inFlight atomic.Int32
	maxSeen  atomic.Int32
}

func (s *recordingSender) Send(_ context.Context, msg Message) error {
	n := s.inFlight.Add(1)
	defer s.inFlight.Add(-1)
	for {
		seen := s.maxSeen.Load()
		if n <= seen || s.maxSeen.CompareAndSwap(seen, n) {
			break
		}
	}
	if s.delay > 0 {
		time.Sleep(s.delay)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failFor[msg.To]; err != nil {
		return err
	}
	s.sent = append(s.sent, msg)
	return nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func drawnTrio() []Recipient {
	return []Recipient{
		{ID: "a", Name: "Ana", Email: "ana@example.com", AssignedTo: "b"},
		{ID: "b", Name: "Bruno", Email: "bruno@example.com", AssignedTo: "c"},
		{ID: "c", Name: "Carla", Email: "carla@example.com", AssignedTo: "a"},
	}
}

func TestNotifySendsOneEmailPerParticipant(t *testing.T) {
	sender := &recordingSender{}
	d := NewDispatcher(sender, "santa@example.com", 4, nil, quietLogger())

	require.NoError(t, d.Notify(context.Background(), drawnTrio(), "Natal 2026"))
	require.Len(t, sender.sent, 3)

	byRecipient := map[string]Message{}
	for _, msg := range sender.sent {
		byRecipient[msg.To] = msg
	}
	ana := byRecipient["ana@example.com"]
	assert.Equal(t, "santa@example.com", ana.From)
	assert.Equal(t, "Sorteio de Amigo Secreto - Natal 2026", ana.Subject)
	assert.Contains(t, ana.HTML, "Bruno")
	assert.Contains(t, ana.HTML, "Natal 2026")
	assert.Contains(t, byRecipient["carla@example.com"].HTML, "Ana")
}

func TestNotifyReportsSingleFailure(t *testing.T) {
	sender := &recordingSender{failFor: map[string]error{
		"bruno@example.com": errors.New("mailbox unavailable"),
	}}
	d := NewDispatcher(sender, "santa@example.com", 4, nil, quietLogger())

	err := d.Notify(context.Background(), drawnTrio(), "Natal")
	require.ErrorIs(t, err, ErrNotificationFailed)
	assert.Contains(t, err.Error(), "bruno@example.com")
	// the other sends still went out
	assert.Len(t, sender.sent, 2)
}

func TestNotifyRejectsUnknownAssignee(t *testing.T) {
	sender := &recordingSender{}
	d := NewDispatcher(sender, "santa@example.com", 4, nil, quietLogger())

	recipients := drawnTrio()
	recipients[2].AssignedTo = "ghost"

	err := d.Notify(context.Background(), recipients, "Natal")
	require.ErrorIs(t, err, ErrNotificationFailed)
	assert.ErrorIs(t, err, ErrUnknownAssignee)
	assert.Empty(t, sender.sent)
}

func TestNotifyRespectsConcurrencyLimit(t *testing.T) {
	sender := &recordingSender{delay: 10 * time.Millisecond}
	d := NewDispatcher(sender, "santa@example.com", 2, nil, quietLogger())

	var recipients []Recipient
	names := []string{"a", "b", "c", "d", "e", "f"}
	for i, id := range names {
		recipients = append(recipients, Recipient{
			ID:         id,
			Name:       id,
			Email:      id + "@example.com",
			AssignedTo: names[(i+1)%len(names)],
		})
	}

	require.NoError(t, d.Notify(context.Background(), recipients, "Natal"))
	assert.Len(t, sender.sent, 6)
	assert.LessOrEqual(t, sender.maxSeen.Load(), int32(2))
}

func TestDrawMessageEscapesNames(t *testing.T) {
	msg, err := ComposeDrawMessage("santa@example.com",
		Recipient{Email: "ana@example.com"}, `<script>alert(1)</script>`, "Natal & Cia")
	require.NoError(t, err)

	assert.NotContains(t, msg.HTML, "<script>")
	assert.Contains(t, msg.HTML, "&lt;script&gt;")
	assert.Contains(t, msg.HTML, "Natal &amp; Cia")
	assert.Equal(t, "Sorteio de Amigo Secreto - Natal & Cia", msg.Subject)
}

func TestSendLoginLink(t *testing.T) {
	sender := &recordingSender{}
	d := NewDispatcher(sender, "santa@example.com", 1, nil, quietLogger())

	require.NoError(t, d.SendLoginLink(context.Background(), "ana@example.com", "Ana",
		"http://localhost:8080/auth/callback?token=abc", "15m0s"))
	require.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent[0].HTML, "http://localhost:8080/auth/callback?token=abc")
	assert.Contains(t, sender.sent[0].HTML, "Ana")
}

type fakeEmails struct {
	got *resend.SendEmailRequest
	err error
}

func (f *fakeEmails) SendWithContext(_ context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error) {
	f.got = params
	if f.err != nil {
		return nil, f.err
	}
	return &resend.SendEmailResponse{}, nil
}

func TestResendSenderMapsMessage(t *testing.T) {
	api := &fakeEmails{}
	s := &ResendSender{emails: api}

	err := s.Send(context.Background(), Message{
		From: "santa@example.com", To: "ana@example.com", Subject: "Oi", HTML: "<p>oi</p>",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"ana@example.com"}, api.got.To)
	assert.Equal(t, "<p>oi</p>", api.got.Html)

	api.err = errors.New("401 unauthorized")
	assert.ErrorContains(t, s.Send(context.Background(), Message{To: "x@example.com"}), "resend:")
}

func TestLogSender(t *testing.T) {
	var buf bytes.Buffer
	s := NewLogSender(slog.New(slog.NewTextHandler(&buf, nil)))

	require.NoError(t, s.Send(context.Background(), Message{To: "ana@example.com", Subject: "Oi"}))
	assert.Contains(t, buf.String(), "ana@example.com")
}
