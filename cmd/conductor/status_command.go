package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"conductor/internal/ipc"
)

func runStatus(ctx *commandContext, cmd *cobra.Command) error {
	stdout := cmd.OutOrStdout()
	colorize := shouldColorize(stdout)

	return ctx.withClient(func(client *ipc.Client) error {
		status, err := client.Status()
		if err != nil {
			return fmt.Errorf("fetch status: %w", err)
		}

		for _, line := range renderSectionHeader("System Status", colorize) {
			fmt.Fprintln(stdout, line)
		}
		runningKind := statusError
		runningText := "stopped"
		if status.Running {
			runningKind = statusOK
			runningText = fmt.Sprintf("running (pid %d)", status.PID)
		}
		fmt.Fprintln(stdout, renderStatusLine("Daemon", runningKind, runningText, colorize))
		fmt.Fprintln(stdout, renderStatusLine("Lock file", statusInfo, status.LockFilePath, colorize))
		fmt.Fprintln(stdout)

		for _, line := range renderSectionHeader("Queues", colorize) {
			fmt.Fprintln(stdout, line)
		}
		queueRows := [][]string{
			{"interactive", strconv.FormatInt(status.InteractiveDepth, 10)},
			{"batch", strconv.FormatInt(status.BatchDepth, 10)},
		}
		fmt.Fprintln(stdout, renderTable([]string{"Band", "Depth"}, queueRows, []columnAlignment{alignLeft, alignRight}))

		for _, line := range renderSectionHeader("Workers", colorize) {
			fmt.Fprintln(stdout, line)
		}
		if len(status.Workers) == 0 {
			fmt.Fprintln(stdout, "No live workers")
		} else {
			fmt.Fprintln(stdout, renderTable(
				[]string{"Host", "Status", "Job", "CPU %", "Mem MB"},
				workerRows(status.Workers),
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight},
			))
		}
		fmt.Fprintln(stdout)

		for _, line := range renderSectionHeader("Ledger", colorize) {
			fmt.Fprintln(stdout, line)
		}
		ledgerRows := [][]string{
			{"indexed", strconv.FormatInt(status.Ledger.Indexed, 10)},
			{"quarantined", strconv.FormatInt(status.Ledger.Quarantined, 10)},
			{"failed", strconv.FormatInt(status.Ledger.Failed, 10)},
			{"total", strconv.FormatInt(status.Ledger.Total, 10)},
		}
		fmt.Fprintln(stdout, renderTable([]string{"Outcome", "Count"}, ledgerRows, []columnAlignment{alignLeft, alignRight}))
		return nil
	})
}

func workerRows(workers []ipc.WorkerView) [][]string {
	rows := make([][]string, 0, len(workers))
	for _, worker := range workers {
		rows = append(rows, []string{
			worker.Hostname,
			worker.Status,
			worker.ActiveJob,
			fmt.Sprintf("%.1f", worker.CPUPercent),
			fmt.Sprintf("%d/%d", worker.MemoryUsedMB, worker.MemoryTotalMB),
		})
	}
	return rows
}
