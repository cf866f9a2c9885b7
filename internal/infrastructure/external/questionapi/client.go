package questionapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	apperrors "github.com/johnquangdev/mock-interview/errors"
	usecaseErrors "github.com/johnquangdev/mock-interview/internal/usecase/errors"
	"github.com/johnquangdev/mock-interview/internal/usecase/interview"
)

const questionsPath = "/v1/questions"

// StatusError is returned for any non-200 response
type StatusError struct {
	StatusCode int
	Code       apperrors.ErrorCode
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Message)
}

// Client fetches session scripts from a remote question service
type Client struct {
	baseURL string
	client  *http.Client
}

var _ interview.ScriptProvider = (*Client)(nil)

// NewClient creates a client for the question service at baseURL
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  httpClient,
	}
}

type envelope struct {
	Code    apperrors.ErrorCode `json:"code"`
	Message string              `json:"message"`
	Data    json.RawMessage     `json:"data"`
}

type dialog struct {
	Text     string `json:"dialog"`
	Category string `json:"category"`
}

type questionSet struct {
	Introduction *dialog  `json:"introduction"`
	Questions    []dialog `json:"questions"`
}

// FetchScript implements interview.ScriptProvider
func (c *Client) FetchScript(ctx context.Context) (interview.SessionScript, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+questionsPath, nil)
	if err != nil {
		return interview.SessionScript{}, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return interview.SessionScript{}, fmt.Errorf("failed to fetch questions: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return interview.SessionScript{}, fmt.Errorf("failed to read questions: %w", err)
	}

	var env envelope
	decodeErr := json.Unmarshal(body, &env)

	if resp.StatusCode != http.StatusOK {
		statusErr := &StatusError{StatusCode: resp.StatusCode}
		if decodeErr == nil {
			statusErr.Code = env.Code
			statusErr.Message = env.Message
		}
		if statusErr.Code == apperrors.ErrorCode_NO_INTRODUCTION {
			return interview.SessionScript{}, fmt.Errorf("%w: %v", usecaseErrors.ErrNoIntroduction, statusErr)
		}
		return interview.SessionScript{}, statusErr
	}
	if decodeErr != nil {
		return interview.SessionScript{}, fmt.Errorf("malformed question payload: %w", decodeErr)
	}

	var set questionSet
	if err := json.Unmarshal(env.Data, &set); err != nil {
		return interview.SessionScript{}, fmt.Errorf("malformed question payload: %w", err)
	}

	script := interview.SessionScript{Questions: make([]interview.DialogItem, 0, len(set.Questions))}
	if set.Introduction != nil {
		script.Introduction = &interview.DialogItem{Text: set.Introduction.Text}
	}
	for _, q := range set.Questions {
		script.Questions = append(script.Questions, interview.DialogItem{Text: q.Text})
	}
	if err := script.Validate(); err != nil {
		return interview.SessionScript{}, err
	}
	return script, nil
}
