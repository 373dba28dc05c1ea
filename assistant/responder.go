// Package assistant answers the questions asked on the bus.
package assistant

import (
	"context"
)

// DefaultAnswer is what the canned responder says when nothing else is set.
const DefaultAnswer = "where is your god now?"

// Responder produces an answer for a question. Implementations must honor
// ctx cancellation for anything slow.
type Responder interface {
	Respond(ctx context.Context, question string) (string, error)
}

// ResponderFunc adapts a function to Responder.
type ResponderFunc func(ctx context.Context, question string) (string, error)

func (f ResponderFunc) Respond(ctx context.Context, question string) (string, error) {
	return f(ctx, question)
}

// CannedResponder gives the same answer to every question.
type CannedResponder struct {
	Answer string
}

func (c CannedResponder) Respond(ctx context.Context, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if c.Answer == "" {
		return DefaultAnswer, nil
	}
	return c.Answer, nil
}
