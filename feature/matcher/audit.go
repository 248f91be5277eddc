package matcher

import (
	"context"
	"time"

	"boardgame-sync/core/storage"

	"github.com/google/uuid"
)

// AuditPrefix is the object storage prefix of matcher exchanges.
const AuditPrefix = "audit/matcher/"

// Exchange is the audit record of one matcher call.
type Exchange struct {
	ID         string    `json:"id"`
	Time       time.Time `json:"time"`
	Model      string    `json:"model"`
	ItemsA     int       `json:"items_a"`
	ItemsB     int       `json:"items_b"`
	Prompt     string    `json:"prompt"`
	Response   string    `json:"response"`
	Method     Method    `json:"method"`
	Candidates int       `json:"candidates"`
	Error      string    `json:"error,omitempty"`
}

// Recorder stores matcher exchanges.
type Recorder interface {
	Record(ctx context.Context, ex Exchange) error
}

// AuditLog writes exchanges as JSON objects under AuditPrefix, one per call.
type AuditLog struct {
	client storage.Client
	bucket string
}

// NewAuditLog creates an audit log in the given bucket.
func NewAuditLog(client storage.Client, bucket string) *AuditLog {
	return &AuditLog{client: client, bucket: bucket}
}

// ObjectName returns the object key of an exchange.
func ObjectName(ex Exchange) string {
	return AuditPrefix + ex.Time.UTC().Format("2006/01/02") + "/" + ex.ID + ".json"
}

// Record uploads the exchange. An empty ID or time is filled in.
func (a *AuditLog) Record(ctx context.Context, ex Exchange) error {
	if ex.ID == "" {
		ex.ID = uuid.NewString()
	}
	if ex.Time.IsZero() {
		ex.Time = time.Now().UTC()
	}
	return storage.PutJSON(ctx, a.client, a.bucket, ObjectName(ex), ex)
}
