package archive

import (
	"context"

	"github.com/loadsmile/AIchatbot/internal/domain"
)

// NoopArchiver discards records. Used when kafka archiving is disabled.
type NoopArchiver struct{}

func NewNoopArchiver() NoopArchiver { return NoopArchiver{} }

func (NoopArchiver) Archive(ctx context.Context, roomID string, rec domain.MessageRecord) error {
	return nil
}

func (NoopArchiver) Close() error { return nil }
