package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/phrazzld/scry-study/internal/generation"
	"google.golang.org/genai"
)

// responseText joins the text parts of the first candidate. Safety blocks
// and empty responses are reported as errors.
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", fmt.Errorf("%w: nil response", generation.ErrInvalidResponse)
	}
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return "", fmt.Errorf("%w: prompt blocked (%s)", generation.ErrContentBlocked, resp.PromptFeedback.BlockReason)
	}
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: no content generated", generation.ErrInvalidResponse)
	}

	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return "", fmt.Errorf("%w: content blocked by safety filters", generation.ErrContentBlocked)
	}
	if candidate.Content == nil {
		return "", fmt.Errorf("%w: empty content in response", generation.ErrInvalidResponse)
	}

	var b strings.Builder
	for _, part := range candidate.Content.Parts {
		if part != nil {
			b.WriteString(part.Text)
		}
	}
	text := stripCodeFence(b.String())
	if text == "" {
		return "", fmt.Errorf("%w: response has no text", generation.ErrInvalidResponse)
	}
	return text, nil
}

// stripCodeFence removes a surrounding Markdown code fence, including any
// language tag on the opening line. Text without a fence is only trimmed.
func stripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	start := strings.Index(text, "\n") + 1
	end := strings.LastIndex(text, "```")
	if start <= 0 || end < start {
		return text
	}
	return strings.TrimSpace(text[start:end])
}

// mapError translates a failed SDK call into the generation package's errors.
// callCtx is the per-request context; parent is the caller's.
func mapError(parent, callCtx context.Context, err error) error {
	if parent.Err() != nil {
		return parent.Err()
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(callCtx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", generation.ErrTimeout, err)
	}

	code, status, message, ok := apiErrorDetails(err)
	if !ok {
		return fmt.Errorf("%w: %v", generation.ErrGenerationFailed, err)
	}
	switch {
	case code == http.StatusTooManyRequests || status == "RESOURCE_EXHAUSTED":
		return fmt.Errorf("%w: %s", generation.ErrRateLimited, message)
	case code == http.StatusGatewayTimeout || status == "DEADLINE_EXCEEDED":
		return fmt.Errorf("%w: %s", generation.ErrTimeout, message)
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return fmt.Errorf("%w: %s", generation.ErrInvalidConfig, message)
	case code == http.StatusBadRequest:
		return fmt.Errorf("%w: %s", generation.ErrInvalidRequest, message)
	default:
		return fmt.Errorf("%w: HTTP %d: %s", generation.ErrGenerationFailed, code, message)
	}
}

// apiErrorDetails extracts the provider's error code, status and message.
func apiErrorDetails(err error) (int, string, string, bool) {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code, apiErr.Status, apiMessage(apiErr), true
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return apiErrPtr.Code, apiErrPtr.Status, apiMessage(*apiErrPtr), true
	}
	return 0, "", "", false
}

func apiMessage(e genai.APIError) string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("HTTP %d - check your API key and try again", e.Code)
}
