package testhelpers

import (
	"context"
	"io"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/pageza/linkbio/backend/internal/models"
)

// SentMail is one message captured by RecordingMailer.
type SentMail struct {
	Kind  string
	To    string
	Token string
}

// RecordingMailer captures outgoing mail instead of sending it.
type RecordingMailer struct {
	mu   sync.Mutex
	Sent []SentMail
	Err  error
}

func (m *RecordingMailer) SendResetPasswordEmail(user *models.User, token string) error {
	return m.record("reset", user, token)
}

func (m *RecordingMailer) SendVerificationEmail(user *models.User, token string) error {
	return m.record("verify", user, token)
}

func (m *RecordingMailer) record(kind string, user *models.User, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Sent = append(m.Sent, SentMail{Kind: kind, To: user.Email, Token: token})
	return nil
}

// Last returns the most recent message, or false when nothing was sent.
func (m *RecordingMailer) Last() (SentMail, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Sent) == 0 {
		return SentMail{}, false
	}
	return m.Sent[len(m.Sent)-1], true
}

// MockAssetStore is a mock implementation of the asset store
type MockAssetStore struct {
	mock.Mock
}

func (m *MockAssetStore) Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error) {
	args := m.Called(ctx, key, body, contentType)
	return args.String(0), args.Error(1)
}
