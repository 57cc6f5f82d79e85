package mailer

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
)

type fakeSender struct {
	mu       sync.Mutex
	sent     []string
	failures int
}

func (f *fakeSender) Send(ctx context.Context, to, subject, htmlBody, textBody string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failures > 0 {
		f.failures--
		return errors.New("transient failure")
	}
	f.sent = append(f.sent, to+": "+subject)
	return nil
}

func (f *fakeSender) sentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

func TestMailerDelivers(t *testing.T) {
	sender := &fakeSender{}
	m := New(sender, slog.Default())

	m.SendVerificationCode("user@example.com", "Alex", "123456")
	m.SendWelcome("user@example.com", "Alex")
	m.Close()

	if got := sender.sentCount(); got != 2 {
		t.Errorf("sent = %d, want 2", got)
	}
}

func TestMailerRetriesTransientFailure(t *testing.T) {
	sender := &fakeSender{failures: 2}
	m := New(sender, slog.Default())

	m.SendVerificationCode("user@example.com", "Alex", "123456")
	m.Close()

	if got := sender.sentCount(); got != 1 {
		t.Errorf("sent = %d, want 1 after retries", got)
	}
}

func TestDisabledSenderIsNoop(t *testing.T) {
	s, err := NewSESSender(context.Background(), "us-east-1", "", "", slog.Default())
	if err != nil {
		t.Fatalf("new sender: %v", err)
	}
	if err := s.Send(context.Background(), "user@example.com", "subject", "", "body"); err != nil {
		t.Errorf("disabled send should be a no-op, got %v", err)
	}
}
