package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"conductor/internal/ipc"
)

func newQueueCommand(ctx *commandContext) *cobra.Command {
	queueCmd := &cobra.Command{
		Use:   "queue",
		Short: "Inspect and manage the job queues",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear <band>",
		Short: "Discard all queued entries from one band (interactive, batch, dead_letter)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.QueueClear(strings.TrimSpace(args[0]))
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d jobs from %s queue\n", resp.Removed, resp.Band)
				return nil
			})
		},
	}

	queueCmd.AddCommand(clearCmd)
	return queueCmd
}
