package domain

import "time"

// AuditAction identifies a security-relevant event.
type AuditAction string

const (
	AuditLoginSucceeded AuditAction = "login_succeeded"
	AuditLoginFailed    AuditAction = "login_failed"
	AuditLoginThrottled AuditAction = "login_throttled"
	AuditSignup         AuditAction = "signup"
	AuditUserBlocked    AuditAction = "user_blocked"
	AuditUserUnblocked  AuditAction = "user_unblocked"
)

// AuditEvent records who did what to which account.
type AuditEvent struct {
	ID        string
	Action    AuditAction
	Username  string // account the event is about
	ActorID   string // admin performing the action, empty for self-service
	Detail    string
	Timestamp time.Time
}
