package domain

import "fmt"

// EnrichmentJob carries everything the background pipeline needs. It lives
// only while the job is in flight and holds no reference to the request
// that scheduled it.
type EnrichmentJob struct {
	OwnerEmail string
	PostID     int64
	PostURL    string
	Prompt     string
}

// GenerationResult is the decoded body of a successful generator call.
type GenerationResult struct {
	ID        string `json:"id"`
	OutputURL string `json:"output_url"`
}

// GenerationAPIError covers every failure of the external generator: non-2xx
// responses, unusable bodies and transport errors.
type GenerationAPIError struct {
	StatusCode int
	Parse      bool
	Err        error
}

func (e *GenerationAPIError) Error() string {
	switch {
	case e.StatusCode != 0:
		return fmt.Sprintf("API request failed with status code %d", e.StatusCode)
	case e.Parse:
		return "API response parsing failed"
	default:
		return fmt.Sprintf("API request failed: %v", e.Err)
	}
}

func (e *GenerationAPIError) Unwrap() error { return e.Err }

// NewParseError reports a response body that could not be decoded or lacks
// the output URL.
func NewParseError(cause error) *GenerationAPIError {
	return &GenerationAPIError{Parse: true, Err: cause}
}
