package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"dmb-chatter/internal/app"
	"dmb-chatter/internal/records"
)

var retortsCmd = &cobra.Command{
	Use:   "retorts",
	Short: "Inspect and edit the retorts file",
}

var retortsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print every retort",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		retorts, _, err := app.Stores(cfg, logger)
		if err != nil {
			return err
		}
		for _, r := range retorts.List() {
			fmt.Fprintln(cmd.OutOrStdout(), r.AsLine())
		}
		return nil
	},
}

var retortsCountCmd = &cobra.Command{
	Use:   "count",
	Short: "Print the number of retorts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		retorts, _, err := app.Stores(cfg, logger)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), retorts.Count())
		return nil
	},
}

var retortsAddCmd = &cobra.Command{
	Use:   "add <question> <answer>",
	Short: "Teach the bot an answer",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		retorts, _, err := app.Stores(cfg, logger)
		if err != nil {
			return err
		}
		r, err := retorts.Add(records.Retort{Question: args[0], Answer: args[1]})
		if err != nil {
			if errors.Is(err, records.ErrDuplicate) {
				return fmt.Errorf("retort %q already exists", args[0])
			}
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), r.AsLine())
		return nil
	},
}

var retortsRemoveCmd = &cobra.Command{
	Use:   "remove <question>",
	Short: "Forget an answer",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		retorts, _, err := app.Stores(cfg, logger)
		if err != nil {
			return err
		}
		if err := retorts.RemoveKey(args[0]); err != nil {
			if errors.Is(err, records.ErrNotFound) {
				return fmt.Errorf("retort %q doesn't exist", args[0])
			}
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "removed %q\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(retortsCmd)
	retortsCmd.AddCommand(retortsListCmd, retortsCountCmd, retortsAddCmd, retortsRemoveCmd)
}
