package prompt

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ledger/internal/core"
)

// NewCategory is the answer that registers a new category during entry.
const NewCategory = "new"

// Categories is what the transaction form needs from the category registry.
type Categories interface {
	List(t core.Type) []string
	Validate(t core.Type, name string) (string, error)
	Add(ctx context.Context, t core.Type, name string) (bool, error)
}

// parsed builds a field whose answer must pass parse before then sees it.
func parsed[T any](label string, parse func(string) (T, error), then func(T) *field) *field {
	return &field{label: label, submit: func(s string) (*field, error) {
		v, err := parse(s)
		if err != nil {
			return nil, err
		}
		return then(v), nil
	}}
}

// draft collects the answers of the transaction form.
type draft struct {
	ctx   context.Context
	cats  Categories
	today core.Date
	added []string

	typ      core.Type
	amount   core.Money
	category string
	date     core.Date
	desc     *string
}

// Transaction walks the user through a new transaction. A blank date means
// today; answering "new" for the category registers one first.
func (p *Prompter) Transaction(ctx context.Context, cats Categories, now time.Time) (core.Transaction, error) {
	d := &draft{ctx: ctx, cats: cats, today: core.DateFromTime(now)}
	if err := p.run(ctx, d.typeField()); err != nil {
		return core.Transaction{}, err
	}
	for _, name := range d.added {
		fmt.Fprintf(p.out, "Added %s category %q\n", d.typ, name)
	}

	var opts []core.Option
	if d.desc != nil {
		opts = append(opts, core.WithDescription(*d.desc))
	}
	return core.NewTransaction(d.typ, d.amount, d.category, d.date, opts...), nil
}

func (d *draft) typeField() *field {
	var types []string
	for _, t := range core.Types() {
		types = append(types, t.String())
	}
	label := fmt.Sprintf("Type [%s]", strings.Join(types, "/"))
	return parsed(label, func(s string) (core.Type, error) {
		for _, t := range types {
			if strings.EqualFold(s, t) {
				return core.Type(t), nil
			}
		}
		return "", fmt.Errorf("choose one of: %s", strings.Join(types, ", "))
	}, func(t core.Type) *field {
		d.typ = t
		return d.amountField()
	})
}

func (d *draft) amountField() *field {
	return parsed("Amount", core.ParseAmount, func(m core.Money) *field {
		d.amount = m
		return d.categoryField()
	})
}

func (d *draft) categoryField() *field {
	label := fmt.Sprintf("Category (%s, or %q)", strings.Join(d.cats.List(d.typ), ", "), NewCategory)
	return &field{label: label, submit: func(s string) (*field, error) {
		if strings.EqualFold(s, NewCategory) {
			return d.newCategoryField(), nil
		}
		name, err := d.cats.Validate(d.typ, s)
		if err != nil {
			return nil, err
		}
		d.category = name
		return d.dateField(), nil
	}}
}

func (d *draft) newCategoryField() *field {
	return &field{label: "New category name", submit: func(s string) (*field, error) {
		if s == "" || strings.EqualFold(s, NewCategory) {
			return nil, core.ErrEmptyCategory
		}
		added, err := d.cats.Add(d.ctx, d.typ, s)
		if err != nil {
			return nil, err
		}
		if added {
			d.added = append(d.added, s)
		}
		d.category = s
		return d.dateField(), nil
	}}
}

func (d *draft) dateField() *field {
	label := fmt.Sprintf("Date (YYYY-MM-DD, blank for %s)", d.today)
	return parsed(label, func(s string) (core.Date, error) {
		if s == "" {
			return d.today, nil
		}
		return core.ParseDate(s)
	}, func(date core.Date) *field {
		d.date = date
		return d.descriptionField()
	})
}

func (d *draft) descriptionField() *field {
	return &field{label: "Description (optional)", submit: func(s string) (*field, error) {
		if s != "" {
			d.desc = &s
		}
		return nil, nil
	}}
}
