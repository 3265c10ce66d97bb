// Package notify delivers the post-submission confirmation to the
// candidate. Delivery is best effort; the submission has already succeeded
// by the time this runs.
package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"

	"candidate-intake/internal/common/logger"
)

// EmailSender sends one email.
type EmailSender interface {
	SendEmail(ctx context.Context, input *ses.SendEmailInput) (*ses.SendEmailOutput, error)
}

// SMSSender publishes one SMS message.
type SMSSender interface {
	Publish(ctx context.Context, input *sns.PublishInput) (*sns.PublishOutput, error)
}

// Service sends submission confirmations over email and SMS.
type Service struct {
	email       EmailSender
	sms         SMSSender
	fromAddress string
	log         logger.Logger
}

// New creates a notification service. Either sender may be nil to disable
// that channel.
func New(email EmailSender, sms SMSSender, fromAddress string, log logger.Logger) *Service {
	return &Service{email: email, sms: sms, fromAddress: fromAddress, log: log}
}

// NotifySubmitted sends the confirmation on every configured channel. All
// channels are attempted even when one fails; the combined failure is
// returned for logging only.
func (s *Service) NotifySubmitted(ctx context.Context, email, phone, jobOpeningID string) error {
	var errs []error

	if s.email != nil && email != "" {
		if err := s.sendEmail(ctx, email, jobOpeningID); err != nil {
			s.log.Warn("confirmation email failed", map[string]interface{}{
				"error": err.Error(),
			})
			errs = append(errs, err)
		}
	}

	if s.sms != nil && phone != "" {
		if err := s.sendSMS(ctx, phone, jobOpeningID); err != nil {
			s.log.Warn("confirmation sms failed", map[string]interface{}{
				"error": err.Error(),
			})
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func (s *Service) sendEmail(ctx context.Context, to, jobOpeningID string) error {
	subject := "Your application has been received"
	body := fmt.Sprintf(
		"Thank you for applying. Your application for opening %s has been received and is under review.",
		jobOpeningID,
	)

	_, err := s.email.SendEmail(ctx, &ses.SendEmailInput{
		Source: aws.String(s.fromAddress),
		Destination: &sestypes.Destination{
			ToAddresses: []string{to},
		},
		Message: &sestypes.Message{
			Subject: &sestypes.Content{Data: aws.String(subject)},
			Body: &sestypes.Body{
				Text: &sestypes.Content{Data: aws.String(body)},
			},
		},
	})
	return err
}

func (s *Service) sendSMS(ctx context.Context, phone, jobOpeningID string) error {
	message := fmt.Sprintf("Your application for opening %s has been received.", jobOpeningID)

	_, err := s.sms.Publish(ctx, &sns.PublishInput{
		PhoneNumber: aws.String(phone),
		Message:     aws.String(message),
	})
	return err
}
