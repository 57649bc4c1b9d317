// File: /services/email_service_test.go
package services

import (
	"bytes"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"friends-api/config"
)

// fakeSender captures rendered messages instead of dialing SMTP.
type fakeSender struct {
	mutex    sync.Mutex
	messages []string
}

func (s *fakeSender) DialAndSend(msgs ...*gomail.Message) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	for _, m := range msgs {
		var buf bytes.Buffer
		if _, err := m.WriteTo(&buf); err != nil {
			return err
		}
		s.messages = append(s.messages, buf.String())
	}
	return nil
}

func (s *fakeSender) all() []string {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return append([]string(nil), s.messages...)
}

func emailTestConfig() *config.Config {
	return &config.Config{
		FromEmail:      "noreply@friends.local",
		FromName:       "Friends",
		EmailQueueSize: 8,
	}
}

func TestEmailServiceDeliversQueuedTemplates(t *testing.T) {
	sender := &fakeSender{}
	service := NewEmailServiceWithSender(emailTestConfig(), sender)

	service.Enqueue(TemplateFriendRequest, "bob@example.com", map[string]string{"username": "alice"})
	service.Enqueue(TemplateFriendRequestAccepted, "alice@example.com", map[string]string{"username": "bob"})
	service.Enqueue(TemplateFriendRequestRejected, "alice@example.com", map[string]string{"username": "bob"})

	// Close drains the queue before returning.
	service.Close()

	messages := sender.all()
	require.Len(t, messages, 3)
	assert.Contains(t, messages[0], "alice")
	assert.Contains(t, messages[0], "friend request")
	assert.Contains(t, messages[0], "To: bob@example.com")
	assert.Contains(t, messages[1], "accepted")
	assert.Contains(t, messages[2], "declined")
}

func TestEmailServiceSwallowsUnknownTemplate(t *testing.T) {
	sender := &fakeSender{}
	service := NewEmailServiceWithSender(emailTestConfig(), sender)

	service.Enqueue("NoSuchTemplate", "bob@example.com", nil)
	service.Close()

	assert.Empty(t, sender.all(), "unknown templates are logged and dropped")
}

func TestEmailServiceCloseIsIdempotent(t *testing.T) {
	service := NewEmailServiceWithSender(emailTestConfig(), &fakeSender{})

	service.Close()
	assert.NotPanics(t, func() { service.Close() })
}
