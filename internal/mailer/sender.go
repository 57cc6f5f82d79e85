package mailer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

// Sender delivers a single email.
type Sender interface {
	Send(ctx context.Context, to, subject, htmlBody, textBody string) error
}

// SESSender sends mail through Amazon SES. With no from address configured
// it runs disabled and logs sends instead, so local setups need no AWS
// credentials.
type SESSender struct {
	client    *sesv2.Client
	fromEmail string
	fromName  string
	enabled   bool
	logger    *slog.Logger
}

func NewSESSender(ctx context.Context, region, fromEmail, fromName string, logger *slog.Logger) (*SESSender, error) {
	logger = logger.With("component", "mailer")

	if fromEmail == "" {
		logger.Info("email delivery disabled, from address not configured")
		return &SESSender{enabled: false, logger: logger}, nil
	}

	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	logger.Info("email delivery enabled", "from", fromEmail, "region", region)
	return &SESSender{
		client:    sesv2.NewFromConfig(cfg),
		fromEmail: fromEmail,
		fromName:  fromName,
		enabled:   true,
		logger:    logger,
	}, nil
}

func (s *SESSender) Send(ctx context.Context, to, subject, htmlBody, textBody string) error {
	if !s.enabled {
		s.logger.Info("skipping email send, delivery disabled", "to", to, "subject", subject)
		return nil
	}

	from := s.fromEmail
	if s.fromName != "" {
		from = fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(from),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(subject),
					Charset: aws.String("UTF-8"),
				},
				Body: &types.Body{
					Html: &types.Content{
						Data:    aws.String(htmlBody),
						Charset: aws.String("UTF-8"),
					},
					Text: &types.Content{
						Data:    aws.String(textBody),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	}

	if _, err := s.client.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("send email to %s: %w", to, err)
	}
	s.logger.Info("email sent", "to", to, "subject", subject)
	return nil
}
