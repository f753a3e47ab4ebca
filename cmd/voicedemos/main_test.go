package main

import (
	"testing"
)

func TestParseFlagsDefaultsAreSentinels(t *testing.T) {
	f, err := parseFlags(nil)
	if err != nil {
		t.Fatalf("parseFlags() error: %v", err)
	}
	// Unset numeric flags must stay negative so config layers below the CLI
	// still apply.
	if f.Sleep != -1 || f.Retries != -1 || f.RetryBackoff != -1 {
		t.Errorf("sentinels = (%v, %d, %v), want (-1, -1, -1)", f.Sleep, f.Retries, f.RetryBackoff)
	}
	if f.Force || f.Strict || f.Verify || f.RequireBetter || f.Debug {
		t.Errorf("boolean flags should default to false: %+v", f)
	}
}

func TestParseFlagsValues(t *testing.T) {
	f, err := parseFlags([]string{
		"--force", "--strict", "--verify", "--require-better", "--debug",
		"--sleep", "0.2", "--only-lang", "fr", "--voices", "nova,shimmer",
		"--retries", "4", "--retry-backoff", "2.0",
		"--out", "clips", "--model", "gpt-4o-mini-tts", "--format", "ogg",
	})
	if err != nil {
		t.Fatalf("parseFlags() error: %v", err)
	}
	if !f.Force || !f.Strict || !f.Verify || !f.RequireBetter || !f.Debug {
		t.Errorf("boolean flags not all set: %+v", f)
	}
	if f.Sleep != 0.2 || f.Retries != 4 || f.RetryBackoff != 2.0 {
		t.Errorf("numeric flags = (%v, %d, %v)", f.Sleep, f.Retries, f.RetryBackoff)
	}
	if f.OnlyLang != "fr" || f.Voices != "nova,shimmer" || f.Out != "clips" {
		t.Errorf("string flags: %+v", f)
	}
	if f.Model != "gpt-4o-mini-tts" || f.Format != "ogg" {
		t.Errorf("model/format flags: %+v", f)
	}
}

func TestParseFlagsRejectsUnknown(t *testing.T) {
	if _, err := parseFlags([]string{"--no-such-flag"}); err == nil {
		t.Fatalf("parseFlags() accepted an unknown flag")
	}
}
