package main

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"record_service/internal/models"
	"record_service/internal/storage"
)

func newMigrateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or upgrade the record schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := ctx.ensure()
			if err != nil {
				return err
			}
			// Open 이 스키마를 적용함
			store, err := storage.Open(cmd.Context(), cfg.Storage.Path, logger)
			if err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			defer store.Close()
			logger.Info("schema up to date", zap.String("path", cfg.Storage.Path))
			fmt.Fprintf(cmd.OutOrStdout(), "schema up to date: %s\n", cfg.Storage.Path)
			return nil
		},
	}
}

func newRecordsCommand(ctx *commandContext) *cobra.Command {
	recordsCmd := &cobra.Command{
		Use:   "records",
		Short: "Inspect stored records",
	}

	var userIdx string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List every record owned by a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			userIdx = strings.TrimSpace(userIdx)
			if userIdx == "" {
				return fmt.Errorf("--user is required")
			}
			cfg, logger, err := ctx.ensure()
			if err != nil {
				return err
			}
			store, err := storage.Open(cmd.Context(), cfg.Storage.Path, logger)
			if err != nil {
				return err
			}
			defer store.Close()

			records, err := store.ListAll(cmd.Context(), userIdx)
			if err != nil {
				return fmt.Errorf("list records: %w", err)
			}
			if len(records) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No records")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderRecords(records))
			return nil
		},
	}
	listCmd.Flags().StringVar(&userIdx, "user", "", "Internal user idx")

	recordsCmd.AddCommand(listCmd)
	return recordsCmd
}

func renderRecords(records []models.Record) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Record", "Device", "Date", "Created", "Checked"})
	for _, r := range records {
		tw.AppendRow(table.Row{
			r.RecordIdx,
			r.DeviceType,
			r.CreatedDate,
			r.CreatedAt.Format("2006-01-02 15:04:05"),
			r.Checked,
		})
	}
	return tw.Render()
}
