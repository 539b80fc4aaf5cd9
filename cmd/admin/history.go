package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/ogurasousui/resource-allocation-admin/internal/adapters/export/xlsx"
	"github.com/ogurasousui/resource-allocation-admin/internal/core/history"
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Work with the change history",
	}

	var (
		table     string
		day       string
		createdBy string
		maxRows   int
		outDir    string
	)
	export := &cobra.Command{
		Use:   "export",
		Short: "Export change history entries to an xlsx file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := depsFrom(cmd)
			if err != nil {
				return err
			}

			in := xlsx.ExportInput{CreatedBy: createdBy, MaxRows: maxRows}
			if table != "" {
				t := history.TableName(table)
				in.TableName = &t
			}
			if day != "" {
				parsed, err := time.Parse("2006-01-02", day)
				if err != nil {
					return fmt.Errorf("--day: expected YYYY-MM-DD: %w", err)
				}
				in.Day = &parsed
			}

			buf, name, err := d.exporter.Export(cmd.Context(), in)
			if err != nil {
				return err
			}

			path := filepath.Join(outDir, name)
			if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	}
	export.Flags().StringVar(&table, "table", "", "filter by table (employees, projects, employee_projects)")
	export.Flags().StringVar(&day, "day", "", "filter by day (YYYY-MM-DD, UTC)")
	export.Flags().StringVar(&createdBy, "created-by", "", "filter by author substring")
	export.Flags().IntVar(&maxRows, "max-rows", 0, "maximum number of rows (defaults to 10000)")
	export.Flags().StringVarP(&outDir, "out", "o", ".", "output directory")

	cmd.AddCommand(export)
	return cmd
}
