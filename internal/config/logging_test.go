package config

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestSetupLoggerWithWritersFansOut(t *testing.T) {
	var stderr, file bytes.Buffer
	logger := SetupLoggerWithWriters(&stderr, &file, slog.LevelInfo)

	logger.Info("plan generated", "contract_id", "C-1")

	if !strings.Contains(stderr.String(), "plan generated") {
		t.Errorf("stderr output missing message: %q", stderr.String())
	}
	if !strings.Contains(stderr.String(), "contract_id=C-1") {
		t.Errorf("stderr output missing attribute: %q", stderr.String())
	}

	var record map[string]any
	if err := json.Unmarshal(file.Bytes(), &record); err != nil {
		t.Fatalf("file output is not JSON: %v: %q", err, file.String())
	}
	if record["msg"] != "plan generated" || record["contract_id"] != "C-1" {
		t.Errorf("file record = %v", record)
	}
}

func TestSetupLoggerWithWritersLevelFiltering(t *testing.T) {
	var stderr, file bytes.Buffer
	logger := SetupLoggerWithWriters(&stderr, &file, slog.LevelWarn)

	logger.Debug("noise")
	logger.Info("more noise")

	if stderr.Len() != 0 || file.Len() != 0 {
		t.Errorf("below-level records were written: stderr=%q file=%q", stderr.String(), file.String())
	}
}
