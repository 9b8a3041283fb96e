package domain

import "time"

// SecurityEventKind labels an entry of the security audit trail.
type SecurityEventKind string

const (
	EventLoginFailed   SecurityEventKind = "login_failed"
	EventTokenRejected SecurityEventKind = "token_rejected"
	EventAccessDenied  SecurityEventKind = "access_denied"
	EventRateLimited   SecurityEventKind = "rate_limited"
	EventStepUpFailed  SecurityEventKind = "step_up_failed"
)

// SecurityEvent records a rejected request for later review.
type SecurityEvent struct {
	Kind      SecurityEventKind
	ClientIP  string
	Username  string
	Method    string
	Path      string
	Detail    string
	RequestID string
	At        time.Time
}
