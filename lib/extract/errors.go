package extract

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by both platform pipelines. Handlers at the
// edge map these onto HTTP statuses with errors.Is / errors.As.
var (
	// ErrAuthFailed means the credential was bad or the login call failed.
	ErrAuthFailed = errors.New("login failed")
	// ErrTokenRejected means a token that previously worked was rejected
	// by the upstream mid-listing or mid-pagination.
	ErrTokenRejected = errors.New("invalid or expired token")
	// ErrNoContent means traversal completed but produced zero output.
	ErrNoContent = errors.New("no content found")
)

// UpstreamError is a non-auth non-success status from a collaborator.
// Pipelines treat it as "stop and keep what you have" rather than a
// hard failure.
type UpstreamError struct {
	Status int
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream returned status %d", e.Status)
}
