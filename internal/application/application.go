package application

import "context"

// UseCase is a single application operation driven by a command value.
type UseCase[C any, R any] interface {
	Execute(ctx context.Context, cmd C) (R, error)
}

// SpanPrefix starts the span name of every use case, e.g. "UC.PlaceOrder".
const SpanPrefix = "UC."

// Outcome values of the usecase_requests_total "outcome" label.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
	// OutcomePartial means the operation completed but a downstream listener failed.
	OutcomePartial = "partial"
)
