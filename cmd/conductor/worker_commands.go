package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"conductor/internal/ipc"
)

func newWorkersCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "workers",
		Short: "List live workers",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.WorkerList()
				if err != nil {
					return err
				}
				stdout := cmd.OutOrStdout()
				if len(resp.Workers) == 0 {
					fmt.Fprintln(stdout, "No live workers")
					return nil
				}
				fmt.Fprintln(stdout, renderTable(
					[]string{"Host", "Status", "Job", "CPU %", "Mem MB", "Last seen"},
					workerDetailRows(resp.Workers),
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignLeft},
				))
				return nil
			})
		},
	}
}

func newWorkerCommand(ctx *commandContext) *cobra.Command {
	var worker string

	workerCmd := &cobra.Command{
		Use:   "worker",
		Short: "Send control commands to a worker",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	workerCmd.PersistentFlags().StringVar(&worker, "worker", "", "Target worker hostname (default: first live worker)")

	for _, command := range []string{"pause", "resume", "stop"} {
		command := command
		workerCmd.AddCommand(&cobra.Command{
			Use:   command,
			Short: fmt.Sprintf("Deliver a %s command on the next heartbeat", command),
			RunE: func(cmd *cobra.Command, args []string) error {
				return ctx.withClient(func(client *ipc.Client) error {
					resp, err := client.WorkerCommand(worker, command)
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Command %s queued for %s\n", resp.Command, resp.Worker)
					return nil
				})
			},
		})
	}
	return workerCmd
}

func workerDetailRows(workers []ipc.WorkerView) [][]string {
	rows := make([][]string, 0, len(workers))
	for _, worker := range workers {
		rows = append(rows, []string{
			worker.Hostname,
			worker.Status,
			worker.ActiveJob,
			fmt.Sprintf("%.1f", worker.CPUPercent),
			fmt.Sprintf("%d/%d", worker.MemoryUsedMB, worker.MemoryTotalMB),
			worker.LastSeen,
		})
	}
	return rows
}
