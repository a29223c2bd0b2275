package archive

import (
	"context"

	"github.com/loadsmile/AIchatbot/internal/domain"
)

// RecordArchiver streams delivered message records to an external sink
// for offline analysis. Archiving is strictly best-effort: an archive
// failure never affects room state or delivery.
type RecordArchiver interface {
	Archive(ctx context.Context, roomID string, rec domain.MessageRecord) error
	Close() error
}
