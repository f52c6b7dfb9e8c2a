package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestHelpersWriteThroughConfiguredLogger(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "recarr.log")
	if err := Setup(1, logFile); err != nil {
		t.Fatalf("Setup() error = %v", err)
	}

	I("info %s", "message")
	S("success %s", "message")
	W("warn %s", "message")
	E("error %s", "message")
	D(1, "debug shown")
	D(2, "debug hidden")

	data, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	out := string(data)

	for _, want := range []string{"info message", "success message", "warn message", "error message", "debug shown"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q", want)
		}
	}
	if strings.Contains(out, "debug hidden") {
		t.Errorf("debug message above the configured level was emitted")
	}
}

func TestHelpersBeforeSetupDoNotPanic(t *testing.T) {
	mu.Lock()
	inited = false
	mu.Unlock()

	I("pre-setup info")
	W("pre-setup warn")
	E("pre-setup error")
}
