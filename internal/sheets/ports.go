package sheets

import (
	"context"

	"ledger/internal/core"
)

// RecordHeader is the first row of every exported tab.
var RecordHeader = []string{"id", "type", "amount", "category", "date", "description"}

// Ports for outbound adapters.
type (
	// RecordWriter replaces the content of one tab with records.
	RecordWriter interface {
		WriteRecords(ctx context.Context, sheet string, records []core.Record) (rangeRef string, err error)
	}

	// RecordReader reads back a tab written by a RecordWriter.
	RecordReader interface {
		ReadRecords(ctx context.Context, sheet string) ([]core.Record, error)
	}
)
