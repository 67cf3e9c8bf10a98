package service

import (
	"context"

	"careid/internal/domain/entity"
)

// Security alert events pushed to the account owner's devices.
const (
	AlertPasswordChanged       = "password_changed"
	AlertPasswordResetComplete = "password_reset_completed"
)

// AlertNotifier pushes security alerts to the account owner when a
// credential changes. Alerts are best-effort: the lifecycle engine logs
// failures and never lets them fail the credential operation.
type AlertNotifier interface {
	PushSecurityAlert(ctx context.Context, user *entity.User, event string) error
}
