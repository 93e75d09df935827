package extract

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
)

// WriteCSV writes points to path as a two-column "stroke,force" CSV, ASCII,
// unix newlines, 6 significant figures per value (spec §6 outputs).
func WriteCSV(points []Point, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	w.UseCRLF = false

	if err := w.Write([]string{"stroke", "force"}); err != nil {
		return err
	}
	for _, p := range points {
		row := []string{
			strconv.FormatFloat(p.Stroke, 'g', 6, 64),
			strconv.FormatFloat(p.Force, 'g', 6, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("extract: write csv: %w", err)
	}
	return nil
}
