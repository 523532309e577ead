package google

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"ledger/internal/core"
	ports "ledger/internal/sheets"
)

// recordRows converts records into a values matrix with a header row.
func recordRows(records []core.Record) [][]any {
	rows := make([][]any, 0, len(records)+1)
	header := make([]any, len(ports.RecordHeader))
	for i, h := range ports.RecordHeader {
		header[i] = h
	}
	rows = append(rows, header)
	for _, r := range records {
		desc := ""
		if r.Description != nil {
			desc = *r.Description
		}
		rows = append(rows, []any{r.ID, r.Type, r.Amount.String(), r.Category, r.Date, desc})
	}
	return rows
}

// parseRecordRows converts a values matrix (as returned by Sheets API) back
// into records. Columns are located by header name; blank rows are skipped.
func parseRecordRows(values [][]any) ([]core.Record, error) {
	if len(values) == 0 {
		return nil, nil
	}
	headers := toStrings(values[0])
	cols := make(map[string]int, len(ports.RecordHeader))
	var missing []string
	for _, h := range ports.RecordHeader {
		idx := indexOf(headers, h)
		if idx == -1 && h != "description" {
			missing = append(missing, h)
		}
		cols[h] = idx
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("unexpected header: missing %s; got headers=%v", strings.Join(missing, ","), headers)
	}

	var out []core.Record
	for i := 1; i < len(values); i++ {
		row := toStrings(values[i])
		id := safeGet(row, cols["id"])
		if id == "" {
			continue
		}
		amt, err := parseAmount(safeGet(row, cols["amount"]))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		rec := core.Record{
			ID:       id,
			Type:     safeGet(row, cols["type"]),
			Amount:   amt,
			Category: safeGet(row, cols["category"]),
			Date:     safeGet(row, cols["date"]),
		}
		if desc := safeGet(row, cols["description"]); desc != "" {
			rec.Description = &desc
		}
		out = append(out, rec)
	}
	return out, nil
}

// parseAmount accepts plain numbers and a decimal comma.
func parseAmount(s string) (json.Number, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return "", fmt.Errorf("amount %q: %w", s, core.ErrInvalidAmount)
	}
	return json.Number(d.StringFixed(2)), nil
}

// quoteSheet quotes a tab name for use in A1 notation.
func quoteSheet(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}

func toStrings(in []any) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}

func indexOf(arr []string, target string) int {
	for i, v := range arr {
		if strings.EqualFold(strings.TrimSpace(v), strings.TrimSpace(target)) {
			return i
		}
	}
	return -1
}

func safeGet(arr []string, idx int) string {
	if idx < 0 || idx >= len(arr) {
		return ""
	}
	return arr[idx]
}
