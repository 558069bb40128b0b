package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"dmb-chatter/internal/config"
)

var (
	readOnly bool
	envFile  string

	cfg    *config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:               "chatctl",
	Short:             "Talk to the bot locally and maintain its stores",
	Long:              `chatctl runs a console conversation against the bot engine and edits the retorts, unknowns and admins files offline.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func loadConfig(cmd *cobra.Command, _ []string) error {
	// a missing .env is fine, the environment may already be set
	_ = godotenv.Load(envFile)
	c, err := config.Load()
	if err != nil {
		return err
	}
	if readOnly {
		c.ReadOnlyStores = true
	}
	cfg = c
	logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: c.SlogLevel()}))
	return nil
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&readOnly, "read-only", false, "never write the store files")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before the environment is read")
	rootCmd.SetErr(os.Stderr)
}

func Execute() error {
	return rootCmd.Execute()
}
