package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"conductor/internal/ipc"
)

func newSubmitCommand(ctx *commandContext) *cobra.Command {
	var jobType string
	var priority int
	var payloadPairs []string

	cmd := &cobra.Command{
		Use:   "submit <path>",
		Short: "Submit a file for ingestion",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			absPath, err := filepath.Abs(strings.TrimSpace(args[0]))
			if err != nil {
				return fmt.Errorf("resolve path: %w", err)
			}

			payload := map[string]string{"path": absPath}
			for _, pair := range payloadPairs {
				key, value, found := strings.Cut(pair, "=")
				if !found || strings.TrimSpace(key) == "" {
					return fmt.Errorf("invalid payload entry %q, expected key=value", pair)
				}
				payload[strings.TrimSpace(key)] = value
			}

			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Submit(ipc.SubmitRequest{
					Type:     jobType,
					Payload:  payload,
					Priority: priority,
				})
				if err != nil {
					return err
				}
				stdout := cmd.OutOrStdout()
				if resp.Existing {
					fmt.Fprintf(stdout, "Job %s already queued (status %s)\n", resp.ID, resp.Status)
					return nil
				}
				fmt.Fprintf(stdout, "Job %s queued at position %d\n", resp.ID, resp.Position)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&jobType, "type", "ingest", "Job type")
	cmd.Flags().IntVar(&priority, "priority", 5, "Priority from 1 (batch) to 10 (interactive)")
	cmd.Flags().StringArrayVar(&payloadPairs, "payload", nil, "Extra payload entries as key=value")
	return cmd
}

func newJobsCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "List recently submitted jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.JobList(limit)
				if err != nil {
					return err
				}
				stdout := cmd.OutOrStdout()
				if len(resp.Jobs) == 0 {
					fmt.Fprintln(stdout, "No jobs recorded")
					return nil
				}

				rows := make([][]string, 0, len(resp.Jobs))
				for _, job := range resp.Jobs {
					rows = append(rows, []string{
						job.ID,
						job.Type,
						job.Band,
						job.Status,
						job.CreatedAt,
						job.Payload["path"],
					})
				}
				fmt.Fprintln(stdout, renderTable(
					[]string{"ID", "Type", "Band", "Status", "Created", "Path"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignLeft},
				))
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of jobs to list")
	return cmd
}

func newShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <job-id>",
		Short: "Show details for a single job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.JobDescribe(strings.TrimSpace(args[0]))
				if err != nil {
					return err
				}
				job := resp.Job
				stdout := cmd.OutOrStdout()
				fmt.Fprintf(stdout, "ID:        %s\n", job.ID)
				fmt.Fprintf(stdout, "Type:      %s\n", job.Type)
				fmt.Fprintf(stdout, "Status:    %s\n", job.Status)
				fmt.Fprintf(stdout, "Band:      %s (priority %d)\n", job.Band, job.Priority)
				fmt.Fprintf(stdout, "Created:   %s\n", job.CreatedAt)
				if job.UpdatedAt != "" {
					fmt.Fprintf(stdout, "Updated:   %s\n", job.UpdatedAt)
				}
				if job.EstimatedMS > 0 {
					fmt.Fprintf(stdout, "Estimate:  %dms\n", job.EstimatedMS)
				}
				for key, value := range job.Payload {
					fmt.Fprintf(stdout, "Payload:   %s=%s\n", key, value)
				}
				if job.Error != "" {
					fmt.Fprintf(stdout, "Error:     %s\n", job.Error)
				}
				return nil
			})
		},
	}
}
