package oracle

import "context"

// Oracle judges word associations and seeds starting prompts.
// Implementations are expected to call out to an external service and may
// take arbitrarily long; callers pass a context to bound the wait.
type Oracle interface {
	// ValidateAssociation reports whether candidate is a valid continuation
	// of prior. It returns ErrOracleUnavailable when the judgment could not
	// be obtained; callers treat that the same as a false judgment.
	ValidateAssociation(ctx context.Context, prior string, candidate string, apiKey string) (bool, error)
	// GeneratePrompt returns a starting word for a new game.
	GeneratePrompt(ctx context.Context, apiKey string) (string, error)
}

// ErrOracleUnavailable indicates the validation service could not be
// reached or returned an unusable response.
type ErrOracleUnavailable struct {
	Reason string
}

func (e *ErrOracleUnavailable) Error() string {
	return "oracle unavailable: " + e.Reason
}

func IsOracleUnavailable(err error) bool {
	_, ok := err.(*ErrOracleUnavailable)
	return ok
}
