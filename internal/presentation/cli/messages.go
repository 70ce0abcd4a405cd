package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var clearMessages bool

var messagesCmd = &cobra.Command{
	Use:   "messages",
	Short: "Show messages persisted by earlier runs",
	Long: `Prints the HeroService messages stored in Redis. Requires the
redis message sink (messages.sink = "redis").`,
	Args: cobra.NoArgs,
	RunE: runMessages,
}

func init() {
	messagesCmd.Flags().BoolVar(&clearMessages, "clear", false, "delete the stored messages after printing them")
	rootCmd.AddCommand(messagesCmd)
}

func runMessages(cmd *cobra.Command, args []string) error {
	if services.History == nil {
		return errors.New("message history requires the redis message sink")
	}

	ctx := commandContext(cmd)
	msgs, err := services.History.Messages(ctx)
	if err != nil {
		return err
	}
	if len(msgs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No messages.")
	}
	for _, msg := range msgs {
		fmt.Fprintln(cmd.OutOrStdout(), messagePrefix+msg)
	}

	if clearMessages {
		if err := services.History.Clear(ctx); err != nil {
			return fmt.Errorf("failed to clear messages: %w", err)
		}
	}
	return nil
}
