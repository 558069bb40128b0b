package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"dmb-chatter/internal/app"
	"dmb-chatter/internal/brain"
)

var noLLM bool

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Chat with the bot in the terminal",
	Long:  `Reads one utterance per line and prints the bot's reply. The console user is an admin. Type "exit" or send EOF to leave.`,
	Args:  cobra.NoArgs,
	RunE:  runConsole,
}

func init() {
	rootCmd.AddCommand(consoleCmd)
	consoleCmd.Flags().BoolVar(&noLLM, "no-llm", false, "do not ask the LLM about unknown phrases")
}

func runConsole(cmd *cobra.Command, _ []string) error {
	var opts []app.Option
	if noLLM {
		opts = append(opts, app.WithoutLLM())
	}
	a, err := app.New(cfg, logger, opts...)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	conversationID := uuid.NewString()
	fmt.Fprintf(out, "%s is listening (conversation %s)\n", cfg.BotName, conversationID)

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		fmt.Fprintf(out, "%s> ", cfg.UserName)
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := scanner.Text()
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "":
			continue
		case "exit", "quit":
			return nil
		}
		reply := a.Engine.Respond(cmd.Context(), brain.Input{
			ConversationID: conversationID,
			Text:           line,
			IsAdmin:        true,
		})
		fmt.Fprintf(out, "%s: %s\n", cfg.BotName, reply.Text)
	}
}
