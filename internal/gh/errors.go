package gh

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/go-github/v82/github"
)

// AuthError indicates the credential was rejected or the API rate limit was
// exhausted (GitHub answers both with 401/403 semantics).
type AuthError struct {
	StatusCode int
	err        error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("github authentication failed (status %d): %v", e.StatusCode, e.err)
}

func (e *AuthError) Unwrap() error {
	return e.err
}

// NotFoundError indicates the organization does not exist or is not visible
// with the current credential.
type NotFoundError struct {
	Org string
	err error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("organization %q not found or not accessible", e.Org)
}

func (e *NotFoundError) Unwrap() error {
	return e.err
}

// NetworkError wraps a transport-level failure while talking to the API.
type NetworkError struct {
	Operation string
	err       error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Operation, e.err)
}

func (e *NetworkError) Unwrap() error {
	return e.err
}

// classifyListError maps go-github errors onto the fetch error taxonomy.
func classifyListError(org string, err error) error {
	var rateLimitErr *github.RateLimitError
	if errors.As(err, &rateLimitErr) {
		return &AuthError{StatusCode: rateLimitErr.Response.StatusCode, err: err}
	}

	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return &AuthError{StatusCode: abuseErr.Response.StatusCode, err: err}
	}

	var respErr *github.ErrorResponse
	if errors.As(err, &respErr) && respErr.Response != nil {
		switch respErr.Response.StatusCode {
		case http.StatusNotFound:
			return &NotFoundError{Org: org, err: err}
		case http.StatusUnauthorized, http.StatusForbidden:
			return &AuthError{StatusCode: respErr.Response.StatusCode, err: err}
		}

		return fmt.Errorf("github api error: %w", err)
	}

	return &NetworkError{Operation: "list repositories", err: err}
}
