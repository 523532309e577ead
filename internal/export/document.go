package export

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"ledger/internal/core"
)

// Metadata heads JSON and YAML exports.
type Metadata struct {
	ExportDate   string `json:"export_date" yaml:"export_date"`
	DataType     string `json:"data_type" yaml:"data_type"`
	TotalRecords int    `json:"total_records" yaml:"total_records"`
}

type jsonDocument struct {
	Metadata Metadata      `json:"metadata"`
	Data     []core.Record `json:"data"`
}

func newMetadata(now time.Time, n int) Metadata {
	return Metadata{
		ExportDate:   now.Format("2006-01-02 15:04:05"),
		DataType:     "transactions",
		TotalRecords: n,
	}
}

type JSONExporter struct {
	Now func() time.Time
}

func (JSONExporter) Format() Format { return FormatJSON }

func (e JSONExporter) Export(_ context.Context, records []core.Record, target string) (err error) {
	if err := checkRecords(records); err != nil {
		return err
	}
	doc := jsonDocument{Metadata: newMetadata(clock(e.Now), len(records)), Data: records}

	f, err := createFile(target)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode json export: %w", err)
	}
	return nil
}

type yamlDocument struct {
	Metadata Metadata     `yaml:"metadata"`
	Data     []yamlRecord `yaml:"data"`
}

type yamlRecord struct {
	ID          string     `yaml:"id"`
	Type        string     `yaml:"type"`
	Amount      yamlAmount `yaml:"amount"`
	Category    string     `yaml:"category"`
	Date        string     `yaml:"date"`
	Description *string    `yaml:"description"`
}

// yamlAmount keeps the two-decimal text while tagging it as a number.
type yamlAmount string

func (a yamlAmount) MarshalYAML() (any, error) {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: string(a)}, nil
}

type YAMLExporter struct {
	Now func() time.Time
}

func (YAMLExporter) Format() Format { return FormatYAML }

func (e YAMLExporter) Export(_ context.Context, records []core.Record, target string) (err error) {
	if err := checkRecords(records); err != nil {
		return err
	}
	doc := yamlDocument{Metadata: newMetadata(clock(e.Now), len(records))}
	for _, r := range records {
		doc.Data = append(doc.Data, yamlRecord{
			ID:          r.ID,
			Type:        r.Type,
			Amount:      yamlAmount(r.Amount),
			Category:    r.Category,
			Date:        r.Date,
			Description: r.Description,
		})
	}

	f, err := createFile(target)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode yaml export: %w", err)
	}
	return enc.Close()
}

func clock(now func() time.Time) time.Time {
	if now == nil {
		return time.Now()
	}
	return now()
}
