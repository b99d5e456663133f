package commands

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newChatCmd(e *env) *cobra.Command {
	var userID string

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Interactive session reading one message per line from stdin",
		Long: `chat keeps the conversation state between lines, so typing 即時資訊 and then
a crop name behaves like the bot. Type exit or quit to leave.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, closeFn, err := e.engine(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			out := cmd.OutOrStdout()
			scanner := bufio.NewScanner(cmd.InOrStdin())
			for {
				fmt.Fprint(out, "> ")
				if !scanner.Scan() {
					fmt.Fprintln(out)
					return scanner.Err()
				}
				line := strings.TrimSpace(scanner.Text())
				if line == "" {
					continue
				}
				if line == "exit" || line == "quit" {
					return nil
				}

				chunks, err := engine.Handle(cmd.Context(), userID, line)
				if err != nil {
					return err
				}
				if err := printChunks(cmd, chunks); err != nil {
					return err
				}
			}
		},
	}
	cmd.Flags().StringVar(&userID, "user", "cli", "session key")
	return cmd
}
