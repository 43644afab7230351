package auth

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// contextKey is an unexported type to prevent key collisions in context.
type contextKey string

const (
	orgIDKey    contextKey = "org_id"
	operatorKey contextKey = "operator"
)

// ErrOrgIDNotFound is returned when no OrgID exists in the request context.
// Handlers should return 401 when this error occurs.
var ErrOrgIDNotFound = errors.New("org_id not found in context")

// ErrOperatorNotFound is returned when the request carries no operator identity.
var ErrOperatorNotFound = errors.New("operator not found in context")

// OrgIDFromCtx extracts the authenticated organization ID from the request context.
// Returns uuid.Nil and ErrOrgIDNotFound if no OrgID is set (unauthenticated request).
func OrgIDFromCtx(ctx context.Context) (uuid.UUID, error) {
	orgID, ok := ctx.Value(orgIDKey).(uuid.UUID)
	if !ok || orgID == uuid.Nil {
		return uuid.Nil, ErrOrgIDNotFound
	}
	return orgID, nil
}

// WithOrgID returns a new context with the given OrgID attached.
// Used by authentication middleware after validating the session.
func WithOrgID(ctx context.Context, orgID uuid.UUID) context.Context {
	return context.WithValue(ctx, orgIDKey, orgID)
}

// OperatorFromCtx returns the name of the signed-in operator. It is recorded
// on orders whose stock shortfall the operator acknowledged.
func OperatorFromCtx(ctx context.Context) (string, error) {
	op, ok := ctx.Value(operatorKey).(string)
	if !ok || op == "" {
		return "", ErrOperatorNotFound
	}
	return op, nil
}

// WithOperator returns a new context with the operator name attached.
func WithOperator(ctx context.Context, operator string) context.Context {
	return context.WithValue(ctx, operatorKey, operator)
}
