// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quarterdeck Contributors

// Package docker reports container status for the dashboard by shelling
// out to the docker CLI. It is read-only and best-effort: when docker is
// unavailable the dashboard shows an empty list rather than an error.
package docker

import (
	"context"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/quarterdeck/quarterdeck/pkg/errutil"

	"github.com/samber/oops"
)

// statusFormat renders one "name: status" line per container.
const statusFormat = "{{.Names}}: {{.Status}}"

// runner executes the docker CLI and returns its stdout.
// Injectable so tests do not need a docker daemon.
type runner func(ctx context.Context) ([]byte, error)

func runDockerPS(ctx context.Context) ([]byte, error) {
	out, err := exec.CommandContext(ctx, "docker", "ps", "-a", "--format", statusFormat).Output()
	if err != nil {
		return nil, oops.Code("DOCKER_PS_FAILED").
			With("operation", "docker ps").
			Wrap(err)
	}
	return out, nil
}

// StatusReader lists containers and their states.
type StatusReader struct {
	run    runner
	logger *slog.Logger
}

// NewStatusReader creates a StatusReader using the docker CLI.
func NewStatusReader(logger *slog.Logger) *StatusReader {
	if logger == nil {
		logger = slog.Default()
	}
	return &StatusReader{run: runDockerPS, logger: logger}
}

// Containers returns one "name: status" line per container, including
// stopped ones. A failing or missing docker CLI degrades to an empty
// list with a logged warning.
func (r *StatusReader) Containers(ctx context.Context) []string {
	out, err := r.run(ctx)
	if err != nil {
		errutil.LogWarn(r.logger, "container status unavailable", err)
		return nil
	}

	var containers []string
	for _, line := range strings.Split(string(out), "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			containers = append(containers, trimmed)
		}
	}
	return containers
}
