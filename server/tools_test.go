package epicycle_test

import (
	"testing"

	Es "github.com/maroda/epicycle/server"
)

func TestFillEnvVar(t *testing.T) {
	t.Run("Returns the value when set", func(t *testing.T) {
		t.Setenv("EPICYCLE_TEST_VAR", "arbitrary")
		assertStringContains(t, Es.FillEnvVar("EPICYCLE_TEST_VAR"), "arbitrary")
	})

	t.Run("Returns ENOENT when unset", func(t *testing.T) {
		got := Es.FillEnvVar("EPICYCLE_TEST_NOT_SET")
		if got != "ENOENT" {
			t.Errorf("got %q, want ENOENT", got)
		}
	})

	t.Run("Default fills an unset var", func(t *testing.T) {
		got := Es.FillEnvVarDefault("EPICYCLE_TEST_NOT_SET", "epicycle.json")
		if got != "epicycle.json" {
			t.Errorf("got %q, want epicycle.json", got)
		}
	})

	t.Run("Default is ignored when set", func(t *testing.T) {
		t.Setenv("EPICYCLE_TEST_VAR", "web")
		got := Es.FillEnvVarDefault("EPICYCLE_TEST_VAR", "tui")
		if got != "web" {
			t.Errorf("got %q, want web", got)
		}
	})
}

func TestFillEnvVarInt(t *testing.T) {
	t.Run("Reads an integer", func(t *testing.T) {
		t.Setenv("EPICYCLE_TEST_INT", "42")
		assertInt(t, Es.FillEnvVarInt("EPICYCLE_TEST_INT", 1), 42)
	})

	t.Run("Falls back when not a number", func(t *testing.T) {
		t.Setenv("EPICYCLE_TEST_INT", "many")
		assertInt(t, Es.FillEnvVarInt("EPICYCLE_TEST_INT", 7), 7)
	})

	t.Run("Falls back when unset", func(t *testing.T) {
		assertInt(t, Es.FillEnvVarInt("EPICYCLE_TEST_NOT_SET", 3), 3)
	})
}

func TestFloatPrecise(t *testing.T) {
	tests := []struct {
		f    float64
		p    int
		want float64
	}{
		{3.14159, 2, 3.14},
		{2.5, 0, 3},
		{-1.23456, 3, -1.235},
		{10, 4, 10},
	}
	for _, tt := range tests {
		if got := Es.FloatPrecise(tt.f, tt.p); got != tt.want {
			t.Errorf("FloatPrecise(%g, %d) = %g, want %g", tt.f, tt.p, got, tt.want)
		}
	}
}
