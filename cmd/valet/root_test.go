package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/vrules/valet/internal/cli"
)

func resetRootFlags(t *testing.T) {
	t.Helper()
	prevConfig, prevLevel, prevForce, prevNo, prevLogger := configPath, logLevel, forceColor, noColor, logger
	configPath, logLevel, forceColor, noColor = "", "", false, false
	t.Cleanup(func() {
		configPath, logLevel, forceColor, noColor, logger = prevConfig, prevLevel, prevForce, prevNo, prevLogger
	})
}

func TestPersistentPreRunEDefaultsToInfoLevel(t *testing.T) {
	resetRootFlags(t)
	if err := rootCmd.PersistentPreRunE(nil, nil); err != nil {
		t.Fatalf("PersistentPreRunE: %v", err)
	}
	if logger.Level != cli.LevelInfo {
		t.Fatalf("logger.Level = %v, want LevelInfo", logger.Level)
	}
}

func TestPersistentPreRunEFlagOverridesLevel(t *testing.T) {
	resetRootFlags(t)
	logLevel = "debug"
	if err := rootCmd.PersistentPreRunE(nil, nil); err != nil {
		t.Fatalf("PersistentPreRunE: %v", err)
	}
	if logger.Level != cli.LevelDebug {
		t.Fatalf("logger.Level = %v, want LevelDebug", logger.Level)
	}
}

func TestPersistentPreRunEConfigFileSuppliesLevel(t *testing.T) {
	resetRootFlags(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "valet.yaml")
	if err := os.WriteFile(path, []byte("log_level: warn\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	configPath = path
	if err := rootCmd.PersistentPreRunE(nil, nil); err != nil {
		t.Fatalf("PersistentPreRunE: %v", err)
	}
	if logger.Level != cli.LevelWarn {
		t.Fatalf("logger.Level = %v, want LevelWarn", logger.Level)
	}
}

func TestPersistentPreRunEFlagLevelBeatsConfigFile(t *testing.T) {
	resetRootFlags(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "valet.yaml")
	if err := os.WriteFile(path, []byte("log_level: warn\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	configPath = path
	logLevel = "debug"
	if err := rootCmd.PersistentPreRunE(nil, nil); err != nil {
		t.Fatalf("PersistentPreRunE: %v", err)
	}
	if logger.Level != cli.LevelDebug {
		t.Fatalf("logger.Level = %v, want LevelDebug (flag beats config file)", logger.Level)
	}
}

func TestPersistentPreRunEForceColorFlag(t *testing.T) {
	resetRootFlags(t)
	forceColor = true
	if err := rootCmd.PersistentPreRunE(nil, nil); err != nil {
		t.Fatalf("PersistentPreRunE: %v", err)
	}
	if !logger.Color {
		t.Fatalf("logger.Color = false, want true with --color")
	}
}

func TestPersistentPreRunENoColorFlagWinsOverForceColor(t *testing.T) {
	resetRootFlags(t)
	forceColor = true
	noColor = true
	if err := rootCmd.PersistentPreRunE(nil, nil); err != nil {
		t.Fatalf("PersistentPreRunE: %v", err)
	}
	if logger.Color {
		t.Fatalf("logger.Color = true, want false: --no-color is checked after --color")
	}
}

func TestPersistentPreRunEConfigColorOverridesTTYDetection(t *testing.T) {
	resetRootFlags(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "valet.yaml")
	if err := os.WriteFile(path, []byte("color: true\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	configPath = path
	if err := rootCmd.PersistentPreRunE(nil, nil); err != nil {
		t.Fatalf("PersistentPreRunE: %v", err)
	}
	if !logger.Color {
		t.Fatalf("logger.Color = false, want true: config.Color should override stderr TTY detection")
	}
}

func TestPersistentPreRunEMissingConfigFileIsNotAnError(t *testing.T) {
	resetRootFlags(t)
	configPath = filepath.Join(t.TempDir(), "missing.yaml")
	if err := rootCmd.PersistentPreRunE(nil, nil); err != nil {
		t.Fatalf("PersistentPreRunE: %v", err)
	}
}

func TestPersistentPreRunEMalformedConfigFileIsAnError(t *testing.T) {
	resetRootFlags(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(path, []byte("log_level: [unterminated\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	configPath = path
	if err := rootCmd.PersistentPreRunE(nil, nil); err == nil {
		t.Fatalf("expected an error for a malformed config file")
	}
}
