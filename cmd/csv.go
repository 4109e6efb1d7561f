/*
Copyright © 2025 Valentyn Solomko <valentyn.solomko@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/valpere/tlumach/internal/extract"
)

var (
	csvInputFile  string
	csvOutputFile string
	csvColumns    []int
	csvSkipHeader bool
)

type csvCounts struct {
	translated int
	cached     int
	failed     int
}

var csvCmd = &cobra.Command{
	Use:   "csv",
	Short: "Translate columns of a CSV file",
	Long: `Translate one or more columns in a CSV file.

By default all columns are translated. Use -l to select specific columns
(0-indexed). The flag may be repeated to select multiple columns.
Repeated cells are translated once. A cell that fails to translate keeps
its original text.

Example:
  tlumach translate csv -i data.csv -o out.csv -t Hindi -l 1 -l 3`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if csvInputFile == csvOutputFile {
			return fmt.Errorf("input file and output file cannot be the same")
		}

		f, err := os.Open(csvInputFile)
		if err != nil {
			return fmt.Errorf("failed to open input CSV: %w", err)
		}
		defer f.Close()

		reader := csv.NewReader(f)
		reader.FieldsPerRecord = -1
		records, err := reader.ReadAll()
		if err != nil {
			return fmt.Errorf("failed to read CSV: %w", err)
		}

		if len(records) == 0 {
			return fmt.Errorf("CSV file is empty")
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		s, err := newSession(cfg)
		if err != nil {
			return err
		}
		defer s.Close()

		out, counts := translateRecords(ctx, s, records, csvColumns, csvSkipHeader)

		outFile, err := os.Create(csvOutputFile)
		if err != nil {
			return fmt.Errorf("failed to create output CSV: %w", err)
		}
		defer outFile.Close()

		writer := csv.NewWriter(outFile)
		if err := writer.WriteAll(out); err != nil {
			return fmt.Errorf("failed to write output CSV: %w", err)
		}

		fmt.Printf("CSV translated successfully: %s\n", csvOutputFile)
		fmt.Printf("Cells translated: %d, repeated: %d, failed: %d\n", counts.translated, counts.cached, counts.failed)
		return nil
	},
}

// translateRecords returns a copy of records with the selected columns
// translated. Empty cells are left alone and failures keep the original.
func translateRecords(ctx context.Context, s *session, records [][]string, columns []int, skipHeader bool) ([][]string, csvCounts) {
	colSet := make(map[int]bool, len(columns))
	for _, c := range columns {
		colSet[c] = true
	}
	translateAll := len(columns) == 0

	var counts csvCounts
	out := make([][]string, len(records))
	for rowIdx, row := range records {
		out[rowIdx] = make([]string, len(row))
		copy(out[rowIdx], row)

		if skipHeader && rowIdx == 0 {
			continue
		}

		for colIdx, cell := range row {
			if !translateAll && !colSet[colIdx] {
				continue
			}
			if strings.TrimSpace(cell) == "" {
				continue
			}

			res, err := s.translate(ctx, extract.KindText, cell)
			if err != nil {
				slog.Warn("cell translation failed, keeping original", "row", rowIdx, "col", colIdx, "error", err)
				counts.failed++
				continue
			}

			out[rowIdx][colIdx] = res.Text
			if res.FromCache {
				counts.cached++
			} else {
				counts.translated++
			}
		}
	}
	return out, counts
}

func init() {
	translateCmd.AddCommand(csvCmd)

	addTranslationFlags(csvCmd.Flags())

	csvCmd.Flags().StringVarP(&csvInputFile, "input", "i", "", "Input CSV file (required)")
	csvCmd.Flags().StringVarP(&csvOutputFile, "output", "o", "", "Output CSV file (required)")
	csvCmd.Flags().IntSliceVarP(&csvColumns, "column", "l", nil, "Column index to translate (0-indexed, repeatable; default: all columns)")
	csvCmd.Flags().BoolVar(&csvSkipHeader, "skip-header", false, "Leave the first row untranslated")

	csvCmd.MarkFlagRequired("input")
	csvCmd.MarkFlagRequired("output")
}
