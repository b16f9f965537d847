package middleware

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const (
	ctxCustomerID contextKey = "customer_id"
	ctxEmail      contextKey = "customer_email"
	ctxSessionID  contextKey = "session_id"
)

func CustomerIDFromContext(ctx context.Context) uuid.UUID {
	if ctx == nil {
		return uuid.Nil
	}
	if v, ok := ctx.Value(ctxCustomerID).(uuid.UUID); ok {
		return v
	}
	return uuid.Nil
}

func EmailFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxEmail).(string); ok {
		return v
	}
	return ""
}

func SessionIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxSessionID).(string); ok {
		return v
	}
	return ""
}

// WithCustomerID injects the customer identifier into the context.
func WithCustomerID(ctx context.Context, customerID uuid.UUID) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxCustomerID, customerID)
}

// WithSessionID injects the anonymous cart session identifier.
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxSessionID, sessionID)
}
