// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quarterdeck Contributors

package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/quarterdeck/quarterdeck/internal/config"
)

// probeTimeout bounds each health probe request.
const probeTimeout = 2 * time.Second

// ProbeStatus holds the result of one health probe.
type ProbeStatus struct {
	Probe string `json:"probe"`
	Up    bool   `json:"up"`
	Error string `json:"error,omitempty"`
}

// statusConfig holds configuration for the status command.
type statusConfig struct {
	jsonOutput bool
}

// NewStatusCmd creates the status subcommand.
func NewStatusCmd() *cobra.Command {
	statusCfg := &statusConfig{}

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show status of the running dashboard server",
		Long: `Probe the liveness and readiness endpoints of a running dashboard
server via its observability address.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return runStatus(cmd, cfg, statusCfg)
		},
	}

	config.RegisterFlags(cmd.Flags())
	cmd.Flags().BoolVar(&statusCfg.jsonOutput, "json", false, "output status as JSON")

	return cmd
}

// runStatus executes the status command.
func runStatus(cmd *cobra.Command, cfg *config.Config, statusCfg *statusConfig) error {
	statuses := []ProbeStatus{
		probe("liveness", "http://"+cfg.ObservabilityAddr+"/healthz/liveness"),
		probe("readiness", "http://"+cfg.ObservabilityAddr+"/healthz/readiness"),
	}

	var output string
	var err error

	if statusCfg.jsonOutput {
		output, err = formatStatusJSON(statuses)
		if err != nil {
			return err
		}
	} else {
		output = formatStatusTable(statuses)
	}

	cmd.Println(output)
	return nil
}

// probe performs one health probe and interprets the response.
func probe(name, url string) ProbeStatus {
	status := ProbeStatus{Probe: name}

	client := &http.Client{Timeout: probeTimeout}
	resp, err := client.Get(url) //nolint:noctx // short one-shot CLI probe with a client timeout
	if err != nil {
		status.Error = fmt.Sprintf("failed to connect: %v", err)
		return status
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		status.Error = fmt.Sprintf("status %d", resp.StatusCode)
		return status
	}

	status.Up = true
	return status
}

// formatStatusTable formats the probes as a human-readable table.
func formatStatusTable(statuses []ProbeStatus) string {
	var buf []byte
	w := tabwriter.NewWriter((*byteWriter)(&buf), 0, 0, 2, ' ', 0)

	_, _ = fmt.Fprintln(w, "PROBE\tSTATUS\tDETAIL")
	_, _ = fmt.Fprintln(w, "-----\t------\t------")

	for _, status := range statuses {
		if status.Up {
			_, _ = fmt.Fprintf(w, "%s\tup\t-\n", status.Probe)
		} else {
			_, _ = fmt.Fprintf(w, "%s\tdown\t%s\n", status.Probe, status.Error)
		}
	}

	_ = w.Flush()
	return string(buf)
}

// formatStatusJSON formats the probes as JSON.
func formatStatusJSON(statuses []ProbeStatus) (string, error) {
	data, err := json.MarshalIndent(statuses, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal status: %w", err)
	}
	return string(data), nil
}

// byteWriter is a simple writer that appends to a byte slice.
type byteWriter []byte

func (w *byteWriter) Write(p []byte) (int, error) {
	*w = append(*w, p...)
	return len(p), nil
}
