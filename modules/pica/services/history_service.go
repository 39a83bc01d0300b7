package services

import (
	"context"

	"github.com/hseworks/picatrack/modules/pica/domain/entities/history"
)

// HistoryService exposes the read side of the ledger. There is deliberately
// no update or delete surface: entries are immutable once appended.
type HistoryService struct {
	ledger history.Repository
}

func NewHistoryService(ledger history.Repository) *HistoryService {
	return &HistoryService{ledger: ledger}
}

// ListForRecord returns the record's ledger newest-first, with actor names
// resolved where an actor is referenced.
func (s *HistoryService) ListForRecord(ctx context.Context, picaID uint) ([]*history.Entry, error) {
	return s.ledger.ListForRecord(ctx, picaID)
}
