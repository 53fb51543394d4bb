package middleware

import "context"

type contextKey string

const (
	ctxOperatorID contextKey = "operator_id"
	ctxTerminalID contextKey = "terminal_id"
	ctxRole       contextKey = "operator_role"
)

func OperatorIDFromContext(ctx context.Context) string {
	return stringFromContext(ctx, ctxOperatorID)
}

func TerminalIDFromContext(ctx context.Context) string {
	return stringFromContext(ctx, ctxTerminalID)
}

func RoleFromContext(ctx context.Context) string {
	return stringFromContext(ctx, ctxRole)
}

// WithTerminalID injects the terminal identifier into the context.
func WithTerminalID(ctx context.Context, terminalID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxTerminalID, terminalID)
}

// WithOperator injects the operator identity and role into the context for downstream handlers.
func WithOperator(ctx context.Context, operatorID, role string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, ctxOperatorID, operatorID)
	return context.WithValue(ctx, ctxRole, role)
}

func stringFromContext(ctx context.Context, key contextKey) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(key).(string); ok {
		return v
	}
	return ""
}
