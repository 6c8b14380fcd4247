// Package main replays recorded person detections through posture tracker.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/LdDl/posture-go/posture"
	"github.com/LdDl/posture-go/replay"
)

const (
	flagInput         = "input"
	flagOutput        = "output"
	flagConfig        = "config"
	flagMinConfidence = "min-confidence"
	flagSmoothingDt   = "smoothing-dt"
	flagMaxAge        = "max-age"
	flagMaxTracks     = "max-tracks"
	flagVerbose       = "verbose"
)

func main() {
	app := &cli.App{
		Name:  "fall-replay",
		Usage: "classify posture and falls from recorded detections",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     flagInput,
				Aliases:  []string{"i"},
				Usage:    "detections CSV (timestamp;track_id;x1;y1;x2;y2;confidence)",
				Required: true,
			},
			&cli.StringFlag{
				Name:    flagOutput,
				Aliases: []string{"o"},
				Usage:   "output CSV, stdout when empty",
			},
			&cli.StringFlag{
				Name:  flagConfig,
				Usage: "thresholds JSON file",
			},
			&cli.Float64Flag{
				Name:  flagMinConfidence,
				Usage: "skip detections with confidence not greater than this",
				Value: replay.DefaultMinConfidence,
			},
			&cli.Float64Flag{
				Name:  flagSmoothingDt,
				Usage: "nominal frame interval for Kalman smoothing of box centers, 0 disables smoothing",
			},
			&cli.Float64Flag{
				Name:  flagMaxAge,
				Usage: "evict tracks unseen for this many seconds, 0 disables eviction",
			},
			&cli.IntFlag{
				Name:  flagMaxTracks,
				Usage: "max number of tracks kept in memory, 0 means unlimited",
			},
			&cli.BoolFlag{
				Name:  flagVerbose,
				Usage: "log every status transition",
			},
		},
		Action: run,
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	return cfg.Build()
}

func run(c *cli.Context) error {
	logger, err := newLogger(c.Bool(flagVerbose))
	if err != nil {
		return errors.Wrap(err, "Can't create logger")
	}
	defer logger.Sync() //nolint:errcheck

	thresholds := posture.DefaultThresholds()
	if path := c.String(flagConfig); path != "" {
		thresholds, err = posture.LoadThresholds(path)
		if err != nil {
			return err
		}
	}
	tracker, err := posture.NewTracker[string](
		thresholds,
		posture.WithLogger(logger),
		posture.WithKalmanSmoothing(c.Float64(flagSmoothingDt)),
		posture.WithMaxTracks(c.Int(flagMaxTracks)),
	)
	if err != nil {
		return errors.Wrap(err, "Can't create tracker")
	}
	falls := 0
	tracker.OnTransition(func(tr posture.Transition[string]) {
		if tr.To == posture.StatusFallDetected {
			falls++
			logger.Warn("ALERT: fall detected",
				zap.String("event", tr.ID.String()),
				zap.String("track", tr.TrackID),
				zap.Float64("ts", tr.Timestamp),
			)
		}
	})

	input, err := os.Open(c.String(flagInput))
	if err != nil {
		return errors.Wrap(err, "Can't open input")
	}
	defer input.Close()
	detections, err := replay.ReadDetections(input)
	if err != nil {
		return errors.Wrap(err, "Can't read detections")
	}

	options := replay.DefaultOptions()
	options.MinConfidence = c.Float64(flagMinConfidence)
	options.MaxAge = c.Float64(flagMaxAge)
	records := replay.Run(tracker, detections, options)

	var output io.Writer = os.Stdout
	if path := c.String(flagOutput); path != "" {
		file, err := os.Create(path)
		if err != nil {
			return errors.Wrap(err, "Can't create output")
		}
		defer file.Close()
		output = file
	}
	if err := replay.WriteRecords(output, records); err != nil {
		return err
	}
	logger.Info("Replay finished",
		zap.Int("detections", len(detections)),
		zap.Int("records", len(records)),
		zap.Int("tracks", tracker.Len()),
		zap.Int("falls", falls),
	)
	return nil
}
