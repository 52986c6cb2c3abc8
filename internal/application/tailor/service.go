// Package tailor turns a job description and a resume into tailored
// application documents via the completion API.
package tailor

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"tailorcv/internal/infrastructure/ai"
	apperrors "tailorcv/internal/shared/errors"
	"tailorcv/internal/shared/logger"
)

// Result is the parsed tailoring output. Resume stays raw JSON so the
// rendering layer owns its schema.
type Result struct {
	Resume        json.RawMessage `json:"resume"`
	CoverLetter   string          `json:"coverLetter"`
	FollowUpEmail string          `json:"followUpEmail"`
}

// Service orchestrates one tailoring call.
type Service struct {
	client    ai.CompletionClient
	sanitizer *bluemonday.Policy
	logger    logger.Interface
}

func NewService(client ai.CompletionClient, log logger.Interface) *Service {
	return &Service{
		client:    client,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    log,
	}
}

type TailorCommand struct {
	JobDescription string
	ResumeText     string
}

// Execute validates inputs, calls the model, and parses the reply. Input
// validation errors happen before the model call; callers use that split to
// decide whether the attempt consumed quota.
func (s *Service) Execute(ctx context.Context, cmd TailorCommand) (*Result, error) {
	if strings.TrimSpace(cmd.JobDescription) == "" {
		return nil, apperrors.NewValidationError("Job description is required.")
	}
	if strings.TrimSpace(cmd.ResumeText) == "" {
		return nil, apperrors.NewValidationError("Resume text is required.")
	}

	reply, err := s.client.Complete(ctx, systemPrompt, buildUserPrompt(cmd.JobDescription, cmd.ResumeText))
	if errors.Is(err, ai.ErrAuthFailed) {
		s.logger.Errorw("completion api rejected credentials")
		return nil, apperrors.NewUpstreamError("AI service authentication failed.")
	}
	if errors.Is(err, ai.ErrRateLimited) {
		return nil, apperrors.NewUpstreamError("AI service is busy. Please try again in a moment.")
	}
	if err != nil {
		s.logger.Errorw("completion call failed", "error", err)
		return nil, apperrors.NewUpstreamError("AI service is unavailable. Please try again.")
	}

	result, err := parseReply(reply)
	if err != nil {
		s.logger.Errorw("unparsable completion reply", "error", err)
		return nil, apperrors.NewInternalError("Could not process the AI response.")
	}

	result.CoverLetter = s.sanitizer.Sanitize(result.CoverLetter)
	result.FollowUpEmail = s.sanitizer.Sanitize(result.FollowUpEmail)
	return result, nil
}

// parseReply extracts the first JSON object from the model output. Models
// occasionally wrap the object in markdown fences or prose despite the
// instructions.
func parseReply(reply string) (*Result, error) {
	start := strings.IndexByte(reply, '{')
	end := strings.LastIndexByte(reply, '}')
	if start < 0 || end <= start {
		return nil, errors.New("no JSON object in completion reply")
	}

	var result Result
	if err := json.Unmarshal([]byte(reply[start:end+1]), &result); err != nil {
		return nil, err
	}
	if len(result.Resume) == 0 {
		return nil, errors.New("completion reply missing resume")
	}
	return &result, nil
}
