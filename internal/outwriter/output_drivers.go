package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/huangsam/mri/internal/contract"
	"github.com/huangsam/mri/schema"
)

// WriteDrivers outputs the driver catalog, dispatching based on the output format configured.
func WriteDrivers(w io.Writer, defs []schema.DriverDefinition, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeJSON(w, defs); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		err := writeCSVWithHeader(w, []string{"position", "key", "name", "weight"}, func(cw *csv.Writer) error {
			for i, d := range defs {
				row := []string{strconv.Itoa(i), string(d.Key), d.Name, strconv.FormatFloat(d.Weight, 'f', -1, 64)}
				if err := cw.Write(row); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		if err := writeDriversTable(w, defs, cfg); err != nil {
			return fmt.Errorf("error writing drivers table output: %w", err)
		}
	}
	return nil
}

func writeDriversTable(w io.Writer, defs []schema.DriverDefinition, cfg *contract.Config) error {
	if _, err := fmt.Fprintf(w, "%sMovement risk drivers\n", headerPrefix("⚙️ ", cfg)); err != nil {
		return err
	}

	var data [][]string
	var sum float64
	for i, d := range defs {
		sum += d.Weight
		data = append(data, []string{strconv.Itoa(i + 1), string(d.Key), d.Name, fmt.Sprintf("%.2f", d.Weight)})
	}
	if err := renderTable(w, []string{"#", "Key", "Name", "Weight"}, data); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "Role score = sum(weight * score / %d); weights sum to %.2f\n", schema.MaxOrdinal, sum)
	return err
}
