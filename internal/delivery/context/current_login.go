package context

import "context"

// WithCurrentLogin returns a new context carrying the authenticated login.
func WithCurrentLogin(ctx context.Context, login string) context.Context {
	return context.WithValue(ctx, KeyCurrentLogin, login)
}

// GetCurrentLogin extracts the authenticated login from the context.
// The second return value reports whether a login was present.
func GetCurrentLogin(ctx context.Context) (string, bool) {
	login, ok := ctx.Value(KeyCurrentLogin).(string)
	if !ok || login == "" {
		return "", false
	}

	return login, true
}
