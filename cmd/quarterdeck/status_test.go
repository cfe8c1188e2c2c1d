// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quarterdeck Contributors

package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestStatus_Properties(t *testing.T) {
	cmd := NewStatusCmd()

	if cmd.Use != "status" {
		t.Errorf("Use = %q, want %q", cmd.Use, "status")
	}
	if cmd.Short == "" {
		t.Error("Short description should not be empty")
	}
	if cmd.RunE == nil {
		t.Error("RunE should be set")
	}
}

func TestStatus_Help(t *testing.T) {
	cmd := NewStatusCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--help"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	output := buf.String()
	for _, want := range []string{"liveness", "readiness", "--json"} {
		if !strings.Contains(output, want) {
			t.Errorf("help output missing %q", want)
		}
	}
}

func TestStatus_Probe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/healthz/liveness":
			w.WriteHeader(http.StatusOK)
		case "/healthz/readiness":
			w.WriteHeader(http.StatusServiceUnavailable)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	up := probe("liveness", srv.URL+"/healthz/liveness")
	if !up.Up {
		t.Errorf("liveness probe down: %s", up.Error)
	}
	if up.Error != "" {
		t.Errorf("liveness probe error = %q, want empty", up.Error)
	}

	down := probe("readiness", srv.URL+"/healthz/readiness")
	if down.Up {
		t.Error("readiness probe should be down on 503")
	}
	if !strings.Contains(down.Error, "503") {
		t.Errorf("readiness probe error = %q, want status code", down.Error)
	}

	unreachable := probe("liveness", "http://127.0.0.1:1/healthz/liveness")
	if unreachable.Up {
		t.Error("probe against closed port should be down")
	}
	if unreachable.Error == "" {
		t.Error("probe against closed port should carry an error")
	}
}

func TestStatus_FormatTable(t *testing.T) {
	statuses := []ProbeStatus{
		{Probe: "liveness", Up: true},
		{Probe: "readiness", Up: false, Error: "failed to connect"},
	}

	output := formatStatusTable(statuses)

	for _, want := range []string{"PROBE", "liveness", "up", "readiness", "down", "failed to connect"} {
		if !strings.Contains(output, want) {
			t.Errorf("table output missing %q:\n%s", want, output)
		}
	}
}

func TestStatus_FormatJSON(t *testing.T) {
	statuses := []ProbeStatus{
		{Probe: "liveness", Up: true},
		{Probe: "readiness", Up: false, Error: "status 503"},
	}

	output, err := formatStatusJSON(statuses)
	if err != nil {
		t.Fatalf("formatStatusJSON() error = %v", err)
	}

	var decoded []ProbeStatus
	if err := json.Unmarshal([]byte(output), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(decoded) != 2 {
		t.Fatalf("decoded %d probes, want 2", len(decoded))
	}
	if !decoded[0].Up || decoded[1].Up {
		t.Error("decoded probe states do not match input")
	}
	if decoded[1].Error != "status 503" {
		t.Errorf("decoded error = %q, want %q", decoded[1].Error, "status 503")
	}
}
