package history

import "context"

// Repository is the append-only ledger store. ListForRecord returns entries
// newest-first with the referenced actor resolved when present.
type Repository interface {
	Append(ctx context.Context, e *Entry) (*Entry, error)
	ListForRecord(ctx context.Context, picaID uint) ([]*Entry, error)
}
