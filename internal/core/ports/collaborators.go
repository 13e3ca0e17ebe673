package ports

import (
	"context"

	"github.com/mitraportal/partner-system/internal/core/domain"
)

// Mailer delivers transactional mail. Template rendering and delivery
// internals live behind this interface.
type Mailer interface {
	Send(to, subject, htmlBody string) error
}

// AuditSink receives records of identity-mutating operations. Record is
// fire-and-forget: it must never block the request path or surface errors
// into it.
type AuditSink interface {
	Record(entry domain.AuditEntry)
}

// PermissionCache caches role permission sets in front of the store.
// A miss returns (nil, nil); callers fall through to the repository.
type PermissionCache interface {
	Get(ctx context.Context, role string) ([]string, error)
	Set(ctx context.Context, role string, permissions []string) error
}
