package store

import (
	"context"

	"github.com/sukibk/textractor/internal/waiver"
)

// Store is durable registry + ledger state. The core only needs sequential
// read access over existing registry rows and append access for new rows;
// both tables are append-only.
type Store interface {
	LoadRegistry(ctx context.Context) ([]waiver.RegistryRow, error)
	AppendRegistryRow(ctx context.Context, row waiver.RegistryRow) error
	AppendLedgerRow(ctx context.Context, row waiver.LedgerRow) error
	Close() error
}
