package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"gnssview/internal/config"
	"gnssview/internal/web"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "./dev.yaml", "Path to YAML config")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] [INPUT]\n\n", os.Args[0])
		fmt.Fprintf(flag.CommandLine.Output(), "INPUT overrides the configured input (a UBX capture file or serial device).\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	configSet := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "config" {
			configSet = true
		}
	})

	cfg, err := config.Load(configPath)
	if err != nil {
		// A missing default config is fine when the input comes from
		// the command line; an explicit -config must exist.
		if configSet || !os.IsNotExist(err) {
			log.Fatalf("config load failed: %v", err)
		}
		cfg = config.Config{}
		configPath = ""
	}
	if arg := flag.Arg(0); arg != "" {
		cfg.Input = arg
	}
	if err := config.DefaultAndValidate(&cfg); err != nil {
		log.Fatalf("config invalid: %v", err)
	}

	// Tee logs into the ring buffer backing /api/logs.
	logBuf := web.NewLogBuffer(2000)
	log.SetOutput(io.MultiWriter(os.Stderr, logBuf))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	rt, err := newRuntime(ctx, cfg)
	if err != nil {
		log.Fatalf("runtime init failed: %v", err)
	}
	defer rt.Close()

	log.Printf("gnssview starting")
	log.Printf("input=%s wait=%s plots=%v", cfg.Input, cfg.Wait, cfg.Plots.Enabled)

	rt.startReader()

	captureDir := ""
	if cfg.Capture.Enable {
		captureDir = filepath.Dir(cfg.Capture.Path)
	}
	status := web.NewStatus(rt, captureDir)
	settings := web.SettingsStore{ConfigPath: configPath, Apply: rt.Apply}

	log.Printf("web listening on %s", cfg.Web.Listen)
	if err := web.Serve(ctx, cfg.Web.Listen, status, rt, settings, logBuf, rt.events); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("web server failed: %v", err)
	}
	log.Printf("gnssview stopping")
}
