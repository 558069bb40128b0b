package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"dmb-chatter/internal/analytics"
	"dmb-chatter/internal/app"
	"dmb-chatter/internal/records"
	"dmb-chatter/internal/storage"
)

var topUnknowns int

var unknownsCmd = &cobra.Command{
	Use:   "unknowns",
	Short: "Inspect the phrases the bot could not answer",
}

var unknownsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print unknown phrases, most frequent first with --top",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, unknowns, err := app.Stores(cfg, logger)
		if err != nil {
			return err
		}
		list := unknowns.List()
		if topUnknowns > 0 {
			list = records.MostFrequent(unknowns, topUnknowns)
		}
		for _, u := range list {
			fmt.Fprintln(cmd.OutOrStdout(), u.AsLine())
		}
		return nil
	},
}

var unknownsCountCmd = &cobra.Command{
	Use:   "count",
	Short: "Print the number of unknown phrases",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, unknowns, err := app.Stores(cfg, logger)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), unknowns.Count())
		return nil
	},
}

var unknownsRemoveCmd = &cobra.Command{
	Use:   "remove <question>",
	Short: "Drop an unknown phrase",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, unknowns, err := app.Stores(cfg, logger)
		if err != nil {
			return err
		}
		if err := unknowns.RemoveKey(args[0]); err != nil {
			if errors.Is(err, records.ErrNotFound) {
				return fmt.Errorf("unknown %q doesn't exist", args[0])
			}
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "removed %q\n", args[0])
		return nil
	},
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print today's report from the turn log",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, unknowns, err := app.Stores(cfg, logger)
		if err != nil {
			return err
		}
		rec, err := storage.NewFileRecorder(cfg.LogFilePath)
		if err != nil {
			return err
		}
		report, err := analytics.DailyReport(rec, unknowns, time.Now().UTC())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), report)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(unknownsCmd, reportCmd)
	unknownsCmd.AddCommand(unknownsListCmd, unknownsCountCmd, unknownsRemoveCmd)
	unknownsListCmd.Flags().IntVar(&topUnknowns, "top", 0, "only the n most frequent phrases")
}
