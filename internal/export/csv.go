package export

import (
	"encoding/csv"
	"fmt"
	"io"
)

// WriteCSV writes one header row (the column union) and one row per
// record. Cells for metrics a record does not carry stay empty.
func WriteCSV(w io.Writer, rows []Row) error {
	if len(rows) == 0 {
		return nil
	}

	cols := Columns(rows)
	cw := csv.NewWriter(w)

	if err := cw.Write(cols); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	line := make([]string, len(cols))
	for _, row := range rows {
		for i, col := range cols {
			line[i] = row[col]
		}
		if err := cw.Write(line); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}
