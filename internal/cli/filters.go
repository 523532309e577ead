package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"ledger/internal/core"
	"ledger/internal/filter"
)

// filterFlags are the selection flags shared by list, breakdown and export.
type filterFlags struct {
	typ      string
	category string
	date     string
	from     string
	to       string
	month    string
}

func (f *filterFlags) bind(cmd *cobra.Command, withType bool) {
	if withType {
		cmd.Flags().StringVarP(&f.typ, "type", "t", "", "Only income or expense")
	}
	cmd.Flags().StringVarP(&f.category, "category", "c", "", "Only this category")
	cmd.Flags().StringVar(&f.date, "date", "", "Exact date YYYY-MM-DD (overrides --from/--to and --month)")
	cmd.Flags().StringVar(&f.from, "from", "", "Range start YYYY-MM-DD, used with --to")
	cmd.Flags().StringVar(&f.to, "to", "", "Range end YYYY-MM-DD, used with --from")
	cmd.Flags().StringVarP(&f.month, "month", "m", "", "Month YYYY-MM")
}

// criteria validates the flags. Only the date dimension that wins precedence
// is checked; a lone --from or --to is ignored.
func (f *filterFlags) criteria() (filter.Criteria, error) {
	c := filter.Criteria{
		Category: f.category,
		Date:     core.Date(f.date),
		From:     core.Date(f.from),
		To:       core.Date(f.to),
		Month:    f.month,
	}
	if f.typ != "" && f.typ != "both" {
		t, err := core.ParseType(f.typ)
		if err != nil {
			return filter.Criteria{}, err
		}
		c.Type = t
	}

	var err error
	switch c.DateDimension() {
	case filter.DimensionExact:
		c.Date, err = core.ParseDate(f.date)
	case filter.DimensionRange:
		if c.From, err = core.ParseDate(f.from); err == nil {
			c.To, err = core.ParseDate(f.to)
		}
	case filter.DimensionMonth:
		c.Month, err = core.ParseMonth(f.month)
	}
	if err != nil {
		return filter.Criteria{}, err
	}
	return c, nil
}

// dimensionValue names the winning date filter for export file names.
func dimensionValue(c filter.Criteria) (string, string) {
	switch d := c.DateDimension(); d {
	case filter.DimensionExact:
		return string(d), string(c.Date)
	case filter.DimensionRange:
		return string(d), fmt.Sprintf("%s_to_%s", c.From, c.To)
	case filter.DimensionMonth:
		return string(d), c.Month
	default:
		return string(d), "all"
	}
}
