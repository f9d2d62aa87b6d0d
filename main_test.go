package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRunDesmos(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "desmos.txt")
	out := filepath.Join(dir, "points.txt")

	t.Run("Writes config points", func(t *testing.T) {
		err := os.WriteFile(in, []byte(`\left(0,0\right),\left(4,0\right),\left(4,2\right)`), 0o644)
		if err != nil {
			t.Fatal(err)
		}

		if err := runDesmos([]string{in, out}); err != nil {
			t.Fatalf("runDesmos: %v", err)
		}

		got, err := os.ReadFile(out)
		if err != nil {
			t.Fatal(err)
		}
		if strings.TrimSpace(string(got)) != "(0,0),(4,0),(4,2)" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("Needs two arguments", func(t *testing.T) {
		if err := runDesmos([]string{in}); err == nil {
			t.Errorf("expected a usage error")
		}
	})

	t.Run("Errors on a missing input", func(t *testing.T) {
		if err := runDesmos([]string{filepath.Join(dir, "nope"), out}); err == nil {
			t.Errorf("expected an error for a missing input")
		}
	})
}

func TestInitOutput(t *testing.T) {
	t.Run("No output configured", func(t *testing.T) {
		t.Setenv("EPICYCLE_OUTPUT", "")
		out, err := initOutput()
		if err != nil || out != nil {
			t.Errorf("initOutput() = %v, %v, want nil, nil", out, err)
		}
	})

	t.Run("Plot output", func(t *testing.T) {
		t.Setenv("EPICYCLE_OUTPUT", "plot")
		t.Setenv("EPICYCLE_OUTPUT_PATH", t.TempDir())
		out, err := initOutput()
		if err != nil {
			t.Fatalf("initOutput: %v", err)
		}
		defer out.Close()
		if out.Type() != "Plot" {
			t.Errorf("Type() = %q, want Plot", out.Type())
		}
	})

	t.Run("Unknown output", func(t *testing.T) {
		t.Setenv("EPICYCLE_OUTPUT", "tape")
		if _, err := initOutput(); err == nil {
			t.Errorf("expected an error for an unknown output")
		}
	})
}
