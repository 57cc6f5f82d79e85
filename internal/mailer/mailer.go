package mailer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sethvargo/go-retry"
)

type message struct {
	to       string
	subject  string
	htmlBody string
	textBody string
}

// Mailer queues email behind a single worker goroutine so callers never
// block on delivery. A failed send retries with exponential backoff and is
// then dropped with a log line; registration and verification flows must
// not fail because SES hiccuped.
type Mailer struct {
	sender Sender
	queue  chan message
	done   chan struct{}
	logger *slog.Logger
}

func New(sender Sender, logger *slog.Logger) *Mailer {
	m := &Mailer{
		sender: sender,
		queue:  make(chan message, 64),
		done:   make(chan struct{}),
		logger: logger.With("component", "mailer"),
	}
	go m.work()
	return m
}

func (m *Mailer) work() {
	defer close(m.done)
	for msg := range m.queue {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		backoff := retry.WithMaxRetries(3, retry.NewExponential(time.Second))
		err := retry.Do(ctx, backoff, func(ctx context.Context) error {
			if err := m.sender.Send(ctx, msg.to, msg.subject, msg.htmlBody, msg.textBody); err != nil {
				return retry.RetryableError(err)
			}
			return nil
		})
		cancel()
		if err != nil {
			m.logger.Error("giving up on email", "to", msg.to, "subject", msg.subject, "error", err)
		}
	}
}

// Close stops accepting mail and waits for the queue to drain.
func (m *Mailer) Close() {
	close(m.queue)
	<-m.done
}

func (m *Mailer) enqueue(msg message) {
	select {
	case m.queue <- msg:
	default:
		m.logger.Error("email queue full, dropping message", "to", msg.to, "subject", msg.subject)
	}
}

// SendVerificationCode emails a one-time code for registration or password
// reset.
func (m *Mailer) SendVerificationCode(to, name, code string) {
	subject := "Your verification code"
	text := fmt.Sprintf(`Hi %s,

Your verification code is: %s

The code expires in 15 minutes. If you didn't request it, you can ignore
this email.
`, name, code)
	html := fmt.Sprintf(`<p>Hi %s,</p>
<p>Your verification code is: <strong>%s</strong></p>
<p>The code expires in 15 minutes. If you didn't request it, you can ignore this email.</p>
`, name, code)
	m.enqueue(message{to: to, subject: subject, htmlBody: html, textBody: text})
}

// SendWelcome emails new users after their address is verified.
func (m *Mailer) SendWelcome(to, name string) {
	subject := "Welcome aboard"
	text := fmt.Sprintf(`Hi %s,

Your account is ready. Create a household group or join one with an invite
code, and start tracking your fridge and shopping lists.
`, name)
	html := fmt.Sprintf(`<p>Hi %s,</p>
<p>Your account is ready. Create a household group or join one with an invite code, and start tracking your fridge and shopping lists.</p>
`, name)
	m.enqueue(message{to: to, subject: subject, htmlBody: html, textBody: text})
}
