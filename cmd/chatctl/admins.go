package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"dmb-chatter/internal/app"
	"dmb-chatter/internal/auth"
)

var adminsCmd = &cobra.Command{
	Use:   "admins",
	Short: "Manage who may run admin commands",
}

var adminsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print admins from the environment and the admins file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		svc, err := app.AdminRegistry(cfg, logger)
		if err != nil {
			return err
		}
		for _, u := range svc.List() {
			if u.Username != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "%d @%s\n", u.ID, u.Username)
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d\n", u.ID)
		}
		return nil
	},
}

var adminsAddCmd = &cobra.Command{
	Use:   "add <user-id> [username]",
	Short: "Add an admin to the admins file",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("bad user id %q: %w", args[0], err)
		}
		svc, err := app.AdminRegistry(cfg, logger)
		if err != nil {
			return err
		}
		u := auth.User{ID: id}
		if len(args) == 2 {
			u.Username = args[1]
		}
		if err := svc.Upsert(u); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "admin %d added\n", id)
		return nil
	},
}

var adminsRemoveCmd = &cobra.Command{
	Use:   "remove <user-id>",
	Short: "Remove an admin from the admins file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("bad user id %q: %w", args[0], err)
		}
		svc, err := app.AdminRegistry(cfg, logger)
		if err != nil {
			return err
		}
		if err := svc.Remove(id); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "admin %d removed\n", id)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(adminsCmd)
	adminsCmd.AddCommand(adminsListCmd, adminsAddCmd, adminsRemoveCmd)
}
