// Package contact handles contact-form submissions.
package contact

import (
	"strings"

	"tailorcv/internal/infrastructure/email"
	apperrors "tailorcv/internal/shared/errors"
	"tailorcv/internal/shared/logger"
)

const maxMessageLength = 5000

type Service struct {
	sender email.Sender
	logger logger.Interface
}

func NewService(sender email.Sender, log logger.Interface) *Service {
	return &Service{sender: sender, logger: log}
}

type SubmitCommand struct {
	Email   string
	Subject string
	Message string
}

func (s *Service) Submit(cmd SubmitCommand) error {
	cmd.Email = strings.TrimSpace(cmd.Email)
	cmd.Subject = strings.TrimSpace(cmd.Subject)
	cmd.Message = strings.TrimSpace(cmd.Message)

	if cmd.Email == "" || !strings.Contains(cmd.Email, "@") {
		return apperrors.NewValidationError("A valid email address is required.")
	}
	if cmd.Message == "" {
		return apperrors.NewValidationError("Message is required.")
	}
	if len(cmd.Message) > maxMessageLength {
		return apperrors.NewValidationError("Message is too long.")
	}
	if cmd.Subject == "" {
		cmd.Subject = "Website inquiry"
	}

	if err := s.sender.SendContactMessage(cmd.Email, cmd.Subject, cmd.Message); err != nil {
		s.logger.Errorw("failed to deliver contact message", "error", err)
		return apperrors.NewInternalError("Could not send your message. Please try again later.")
	}

	s.logger.Infow("contact message delivered", "subject", cmd.Subject)
	return nil
}
