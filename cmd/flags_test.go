package cmd

import (
	"os"
	"testing"
)

func TestGetCliFlag(t *testing.T) {
	flagName := "log-level"
	envVar := flagNameToEnvVar(flagName)
	expected := "envTest"
	d := "myDefault"
	// Test 1 - the default value is applied when the environment variable is unset.
	_ = os.Unsetenv(envVar)
	got := switches.getCliFlag(flagName, d)
	if got.val != d { // if no default was applied...
		t.Fatalf("test 1 failed: expected default value %v to be applied to CLI flag", d)
	}
	// Test 2 - the environment variable takes priority over the default.
	if err := os.Setenv(envVar, expected); err != nil {
		t.Fatalf("test 2 failed: unable to set environment variable %v", envVar)
	}
	defer func() {
		_ = os.Unsetenv(envVar)
	}()
	got = switches.getCliFlag(flagName, d)
	if got.val != expected {
		t.Fatalf("test 2 failed: expected value (%v) to be applied to CLI flag (%v) fetched from environment variable (%v); got: %v", expected, flagName, envVar, got.val)
	}
}

func TestFlagNameToEnvVar(t *testing.T) {
	if got := flagNameToEnvVar("log-level"); got != "SF_LOG_LEVEL" {
		t.Fatalf("unexpected environment variable name: %v", got)
	}
}
