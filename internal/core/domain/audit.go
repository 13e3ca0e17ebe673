package domain

// Audit actions recorded after identity-mutating operations.
const (
	AuditInsert = "insert"
	AuditUpdate = "update"
	AuditDelete = "delete"
)

// AuditEntry describes one identity-mutating operation for the audit sink.
// Entries are emitted fire-and-forget; a lost entry never fails the request
// that produced it.
type AuditEntry struct {
	RecordID string
	ActorID  string
	Table    string
	Change   map[string]any
	Action   string
}
