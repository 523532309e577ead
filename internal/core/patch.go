package core

import "strings"

// Patch carries the optional new values of an update. A nil slot leaves the
// field untouched.
type Patch struct {
	Amount      *Money
	Category    *string
	Description *string
	Date        *Date
	Type        *Type
}

// IsEmpty reports whether no slot is set.
func (p Patch) IsEmpty() bool {
	return p.Amount == nil && p.Category == nil && p.Description == nil && p.Date == nil && p.Type == nil
}

// Apply returns a copy of t with the set slots replaced.
func (p Patch) Apply(t Transaction) Transaction {
	if p.Amount != nil {
		t.Amount = *p.Amount
	}
	if p.Category != nil {
		t.Category = *p.Category
	}
	if p.Description != nil {
		desc := *p.Description
		t.Description = &desc
	}
	if p.Date != nil {
		t.Date = *p.Date
	}
	if p.Type != nil {
		t.Type = *p.Type
	}
	return t
}

// PatchFromFields parses the recognised keys amount, category, description, date
// and type. Unknown keys are ignored and blank values count as not supplied.
func PatchFromFields(fields map[string]string) (Patch, error) {
	var p Patch
	for key, raw := range fields {
		value := strings.TrimSpace(raw)
		if value == "" {
			continue
		}
		switch strings.ToLower(key) {
		case "amount":
			m, err := ParseAmount(value)
			if err != nil {
				return Patch{}, err
			}
			p.Amount = &m
		case "category":
			p.Category = &value
		case "description":
			p.Description = &value
		case "date":
			d, err := ParseDate(value)
			if err != nil {
				return Patch{}, err
			}
			p.Date = &d
		case "type":
			t, err := ParseType(value)
			if err != nil {
				return Patch{}, err
			}
			p.Type = &t
		}
	}
	return p, nil
}
