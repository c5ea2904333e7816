package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/sukibk/textractor/internal/common"
	"github.com/sukibk/textractor/internal/extract"
	"github.com/sukibk/textractor/internal/registry"
	"github.com/sukibk/textractor/internal/store"
	"github.com/sukibk/textractor/internal/textract"
	"github.com/sukibk/textractor/internal/waiver"
)

// Processor coordinates extraction, identity resolution, and the ledger
// append for one document at a time. Documents are processed end to end,
// sequentially; the registry is the only shared mutable state and resolution
// owns it.
type Processor struct {
	Logger    *slog.Logger
	Extractor *extract.Extractor
	Registry  *registry.Registry
	Store     store.Store
}

func NewProcessor(logger *slog.Logger, ex *extract.Extractor, reg *registry.Registry, st store.Store) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{Logger: logger, Extractor: ex, Registry: reg, Store: st}
}

// ProcessResult decodes a stored Textract payload and runs the document
// through the pipeline. sourceKey identifies the payload in blob storage.
func (p *Processor) ProcessResult(ctx context.Context, sourceKey string, payload []byte) (waiver.Record, registry.Resolution, error) {
	res, err := textract.DecodeResult(payload)
	if err != nil {
		return waiver.Record{}, registry.Resolution{}, fmt.Errorf("decode %s: %w", sourceKey, err)
	}
	return p.ProcessDocument(ctx, sourceKey, res.TextBlocks())
}

// ProcessDocument runs extract -> resolve -> append for one block stream.
// The ledger row is written unconditionally; a registry row only when
// resolution allocated one. Reprocessing the same document appends a
// duplicate ledger row.
func (p *Processor) ProcessDocument(ctx context.Context, sourceKey string, blocks []waiver.TextBlock) (waiver.Record, registry.Resolution, error) {
	jobID := uuid.New()

	rec, err := p.Extractor.Extract(blocks, sourceKey)
	if err != nil {
		p.Logger.Error("processor.extract.failed", "job_id", jobID, "key", sourceKey, "err", err)
		return rec, registry.Resolution{}, err
	}
	p.Logger.Info("processor.extract.ok",
		"job_id", jobID,
		"key", sourceKey,
		"person", rec.ResponsiblePerson,
		"waiver_number", rec.WaiverNumber,
		"regulations", rec.WaivedRegulations.Len(),
	)

	res := p.Registry.Resolve(rec)
	if res.NewRow != nil {
		if err := p.Store.AppendRegistryRow(ctx, *res.NewRow); err != nil {
			return rec, res, common.NewAppError("STORE_ERROR", "append registry row: "+err.Error(), common.ErrStore)
		}
	}
	if res.OrphanCompanyID {
		// Computed for the ledger only; no registry row records it, so the
		// ID cannot be found by later lookups.
		p.Logger.Warn("processor.company.unregistered",
			"job_id", jobID,
			"company_id", res.CompanyID,
			"person", rec.ResponsiblePerson,
		)
	}

	ledger := BuildLedgerRow(rec, res)
	if err := p.Store.AppendLedgerRow(ctx, ledger); err != nil {
		return rec, res, common.NewAppError("STORE_ERROR", "append ledger row: "+err.Error(), common.ErrStore)
	}

	p.Logger.Info("processor.document.ok",
		"job_id", jobID,
		"key", sourceKey,
		"full_id", res.FullID,
		"new_registry_row", res.NewRow != nil,
	)
	return rec, res, nil
}

// BuildLedgerRow assembles the per-document ledger row from an extracted
// record and its resolved identity.
func BuildLedgerRow(rec waiver.Record, res registry.Resolution) waiver.LedgerRow {
	return waiver.LedgerRow{
		OperatorID:           res.OperatorID,
		CompanyID:            res.CompanyID,
		FullID:               res.FullID,
		EffectiveDate:        waiver.FormatDate(rec.EffectiveDate),
		ExpireDate:           waiver.FormatDate(rec.ExpireDate),
		WaiverNumber:         rec.WaiverNumber,
		SourceURL:            rec.SourceURL,
		WaivedRegulations:    rec.WaivedRegulations,
		OperationsAuthorized: rec.OperationsAuthorized,
	}
}
