package activity

import (
	"context"
	"fmt"

	"github.com/arcagent/arcagent/internal/model"
	"github.com/arcagent/arcagent/internal/receipts"
)

// Receipts contains activities that archive payment receipts.
type Receipts struct {
	archiver receipts.Archiver
}

// NewReceipts creates a new Receipts activity struct.
func NewReceipts(archiver receipts.Archiver) *Receipts {
	return &Receipts{archiver: archiver}
}

// ArchiveReceipt stores a settled payment receipt and returns its object key.
func (a *Receipts) ArchiveReceipt(ctx context.Context, r model.Receipt) (string, error) {
	key, err := a.archiver.Archive(ctx, r)
	if err != nil {
		return "", fmt.Errorf("archive receipt %s: %w", r.TransactionID, err)
	}
	return key, nil
}
