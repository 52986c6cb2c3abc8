package tailor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tailorcv/internal/infrastructure/ai"
	apperrors "tailorcv/internal/shared/errors"
	"tailorcv/internal/shared/logger"
)

type stubCompletion struct {
	reply string
	err   error

	lastUserPrompt string
}

func (s *stubCompletion) Complete(_ context.Context, _, userPrompt string) (string, error) {
	s.lastUserPrompt = userPrompt
	return s.reply, s.err
}

const validReply = `{"resume":{"name":"Jane Doe","skills":["Go"]},"coverLetter":"Dear team,","followUpEmail":"Hi, following up."}`

func validCommand() TailorCommand {
	return TailorCommand{
		JobDescription: "Backend engineer, Go, payments.",
		ResumeText:     "Jane Doe. 5 years Go.",
	}
}

func TestService_Execute(t *testing.T) {
	stub := &stubCompletion{reply: validReply}
	svc := NewService(stub, logger.NewLogger())

	result, err := svc.Execute(context.Background(), validCommand())

	require.NoError(t, err)
	assert.Equal(t, "Dear team,", result.CoverLetter)
	assert.Equal(t, "Hi, following up.", result.FollowUpEmail)
	assert.Contains(t, string(result.Resume), "Jane Doe")

	assert.Contains(t, stub.lastUserPrompt, "Backend engineer")
	assert.Contains(t, stub.lastUserPrompt, "Jane Doe")
}

func TestService_ValidatesInputs(t *testing.T) {
	svc := NewService(&stubCompletion{reply: validReply}, logger.NewLogger())

	tests := []struct {
		name string
		cmd  TailorCommand
	}{
		{"missing job description", TailorCommand{ResumeText: "resume"}},
		{"missing resume", TailorCommand{JobDescription: "job"}},
		{"whitespace only", TailorCommand{JobDescription: "  ", ResumeText: "\n"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Execute(context.Background(), tt.cmd)
			require.Error(t, err)
			assert.True(t, apperrors.IsValidationError(err))
		})
	}
}

func TestService_ExtractsFencedJSON(t *testing.T) {
	stub := &stubCompletion{reply: "Here you go:\n```json\n" + validReply + "\n```"}
	svc := NewService(stub, logger.NewLogger())

	result, err := svc.Execute(context.Background(), validCommand())

	require.NoError(t, err)
	assert.Equal(t, "Dear team,", result.CoverLetter)
}

func TestService_StripsHTMLFromLetters(t *testing.T) {
	stub := &stubCompletion{reply: `{"resume":{"name":"Jane"},"coverLetter":"<script>alert(1)</script>Dear <b>team</b>,","followUpEmail":"<img src=x onerror=alert(1)>Hello"}`}
	svc := NewService(stub, logger.NewLogger())

	result, err := svc.Execute(context.Background(), validCommand())

	require.NoError(t, err)
	assert.Equal(t, "Dear team,", result.CoverLetter)
	assert.Equal(t, "Hello", result.FollowUpEmail)
}

func TestService_UpstreamErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"auth failure", ai.ErrAuthFailed},
		{"rate limited", ai.ErrRateLimited},
		{"generic failure", ai.ErrEmptyCompletion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(&stubCompletion{err: tt.err}, logger.NewLogger())

			_, err := svc.Execute(context.Background(), validCommand())

			require.Error(t, err)
			assert.True(t, apperrors.IsUpstreamError(err))
		})
	}
}

func TestService_MalformedReply(t *testing.T) {
	tests := []struct {
		name  string
		reply string
	}{
		{"no json", "I cannot help with that."},
		{"broken json", `{"resume": `},
		{"missing resume", `{"coverLetter":"hi"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(&stubCompletion{reply: tt.reply}, logger.NewLogger())

			_, err := svc.Execute(context.Background(), validCommand())

			require.Error(t, err)
			appErr := apperrors.GetAppError(err)
			require.NotNil(t, appErr)
			assert.Equal(t, apperrors.ErrorTypeInternal, appErr.Type)
		})
	}
}
