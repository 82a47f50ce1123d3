package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/sadopc/remmeter/internal/store"
)

func WriteCSV(out io.Writer, sessions []store.Session) error {
	w := csv.NewWriter(out)

	if err := w.Write([]string{"ID", "UUID", "Status", "Position", "Display", "Start", "End", "Total (s)", "Elapsed (s)", "Duration"}); err != nil {
		return err
	}

	for _, s := range sessions {
		r := toRecord(s)
		row := []string{
			fmt.Sprintf("%d", r.ID),
			r.UUID,
			r.Status,
			r.Position,
			fmt.Sprintf("%d", r.Display),
			r.StartedAt,
			r.EndedAt,
			fmt.Sprintf("%d", r.TotalSec),
			fmt.Sprintf("%d", r.ElapsedSec),
			r.Duration,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}
