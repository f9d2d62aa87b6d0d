package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"
	Ed "github.com/maroda/epicycle/display"
	Eo "github.com/maroda/epicycle/obvy"
	Ep "github.com/maroda/epicycle/plugin"
	Es "github.com/maroda/epicycle/server"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "desmos" {
		if err := runDesmos(os.Args[2:]); err != nil {
			slog.Error("Desmos conversion failed", slog.Any("Error", err))
			os.Exit(1)
		}
		return
	}

	mode := Es.FillEnvVarDefault("EPICYCLE_MODE", "tui")

	// The terminal owns stdout in TUI mode, so logs go to a file
	if mode == "tui" {
		logFile, err := os.OpenFile(Es.FillEnvVarDefault("EPICYCLE_LOG", "epicycle.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "could not open log file: %v\n", err)
			os.Exit(1)
		}
		defer logFile.Close()
		slog.SetDefault(slog.New(slog.NewTextHandler(logFile, nil)))
	}

	shutdown, err := Eo.InitOTel(Es.FillEnvVar("EPICYCLE_OTEL"))
	if err != nil {
		slog.Error("Could not start tracing", slog.Any("Error", err))
		os.Exit(1)
	}
	defer shutdown()

	cf, err := Es.LoadConfigLocation(Es.FillEnvVarDefault("EPICYCLE_CONFIG", "epicycle.json"))
	if err != nil {
		slog.Error("Could not load config", slog.Any("Error", err))
		os.Exit(1)
	}

	output, err := initOutput()
	if err != nil {
		slog.Error("Could not start output plugin", slog.Any("Error", err))
		os.Exit(1)
	}

	session := uuid.NewString()
	addr := Es.FillEnvVarDefault("EPICYCLE_ADDR", ":8090")
	slog.Info("Epicycle starting",
		slog.String("session", session),
		slog.String("mode", mode),
		slog.String("addr", addr))

	ctx := context.Background()
	switch mode {
	case "tui":
		err = Ed.StartEpicycleView(ctx, cf, session, output, addr)
	case "web":
		err = Ed.StartWebNoTUI(ctx, cf, session, output, addr)
	default:
		err = fmt.Errorf("unknown mode: %s", mode)
	}

	if output != nil {
		if cerr := output.Close(); cerr != nil {
			slog.Error("Could not close output", slog.Any("Error", cerr))
		}
	}
	if err != nil {
		slog.Error("Problem running Epicycle", slog.Any("Error", err))
		os.Exit(1)
	}
}

// initOutput returns nil when no output plugin is configured
func initOutput() (Ep.OutputAdapter, error) {
	name := Es.FillEnvVar("EPICYCLE_OUTPUT")
	if name == "ENOENT" {
		return nil, nil
	}

	path := Es.FillEnvVarDefault("EPICYCLE_OUTPUT_PATH", "./epicycle_"+name)
	batch := Es.FillEnvVarInt("EPICYCLE_OUTPUT_BATCH", 1)

	output, err := Ep.OutputLookup(name, path, batch)
	if err != nil {
		return nil, err
	}
	slog.Info("Output plugin enabled", slog.String("output", output.Type()), slog.String("path", path))
	return output, nil
}

// runDesmos converts a copied Desmos point list into config point syntax
//
//	epicycle desmos <input> <output>
func runDesmos(args []string) error {
	if len(args) != 2 {
		return errors.New("usage: epicycle desmos <input> <output>")
	}

	in, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}

	points, centre, err := Es.ConvertDesmos(string(in))
	if err != nil {
		return err
	}

	if err := os.WriteFile(args[1], []byte(points+"\n"), 0o644); err != nil {
		return err
	}

	slog.Info("Converted Desmos points",
		slog.String("output", args[1]),
		slog.String("centroid", centre.String()))
	return nil
}
