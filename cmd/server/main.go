// Package main is the entry point for the OpenDeck API server
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/dolsoidduk/OpenDeck/pkg/api"
	"github.com/dolsoidduk/OpenDeck/pkg/device"
)

func main() {
	port := flag.Int("port", 8080, "Server port")
	config := flag.String("config", "", "Preset YAML file to load")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	opts := device.DefaultOptions()
	opts.Logger = logger
	dev := device.New(opts)

	if *config != "" {
		if err := dev.LoadPresetFile(*config); err != nil {
			fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
			os.Exit(1)
		}
	}

	fmt.Printf("Starting OpenDeck API server on port %d...\n", *port)
	fmt.Printf("Swagger docs available at http://localhost:%d/swagger/index.html\n", *port)

	if err := api.StartServer(dev, *port); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
