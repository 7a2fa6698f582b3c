// Package main is the entry point for the robotview URDF viewer.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/armlab/robotview/internal/assets"
	"github.com/armlab/robotview/internal/config"
	"github.com/armlab/robotview/internal/logger"
	"github.com/armlab/robotview/internal/viewer"
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if cfg.Viewer.Model == "" {
		fmt.Fprintln(os.Stderr, "usage: robotview --model robot.urdf [--assets dir]")
		os.Exit(1)
	}

	if err := run(cfg); err != nil {
		logger.Error("viewer error", zap.Error(err))
		os.Exit(1)
	}
	logger.Info("viewer closed normally")
}

func run(cfg *config.Config) error {
	doc, err := os.ReadFile(cfg.Viewer.Model)
	if err != nil {
		return fmt.Errorf("reading model: %w", err)
	}

	assetDir := cfg.Viewer.AssetDir
	if assetDir == "" {
		assetDir = filepath.Dir(cfg.Viewer.Model)
	}
	bundle, err := assets.FromDir(assetDir)
	if err != nil {
		return fmt.Errorf("building asset bundle: %w", err)
	}
	logger.Info("asset bundle ready",
		zap.String("dir", assetDir),
		zap.Int("files", bundle.Len()),
	)

	session, err := viewer.New(cfg, viewer.Events{
		JointChanged: func(name string, value float64) {
			logger.Debug("joint changed", zap.String("joint", name), zap.Float64("value", value))
		},
	})
	if err != nil {
		return err
	}
	defer session.Close()

	if err := session.LoadRobot(doc, bundle); err != nil {
		return fmt.Errorf("loading robot: %w", err)
	}

	if err := session.Run(context.Background()); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
