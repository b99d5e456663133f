package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/limoonouo/Haoshi-Fruits/internal/domain/entity"
)

func newAskCmd(e *env) *cobra.Command {
	var awaiting bool

	cmd := &cobra.Command{
		Use:   "ask <text>",
		Short: "Answer one message",
		Example: `  agriquery ask 7月水果
  agriquery ask --crop 香蕉`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, closeFn, err := e.engine(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			mode := entity.ModeIdle
			if awaiting {
				mode = entity.ModeAwaitingCropName
			}
			_, chunks := engine.Respond("cli", strings.Join(args, " "), mode)
			return printChunks(cmd, chunks)
		},
	}
	cmd.Flags().BoolVar(&awaiting, "crop", false, "treat the text as a crop name for a price lookup")
	return cmd
}

func printChunks(cmd *cobra.Command, chunks []string) error {
	out := cmd.OutOrStdout()
	for _, chunk := range chunks {
		if _, err := fmt.Fprintln(out, chunk); err != nil {
			return err
		}
	}
	return nil
}
