package printing

import (
	"fmt"

	"github.com/olekukonko/tablewriter"
)

// Table renders rows below a header line
func (p *Printer) Table(headers []string, rows [][]string) error {
	table := tablewriter.NewWriter(p.Out)

	header := make([]any, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	table.Header(header...)

	for _, row := range rows {
		if err := table.Append(row); err != nil {
			return fmt.Errorf("failed to add table row: %w", err)
		}
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}
	return nil
}
