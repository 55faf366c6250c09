package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/delaneyj/turnsignal/stress"
	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"
)

const (
	configKey  = "config"
	seedKey    = "seed"
	roundsKey  = "rounds"
	slotsKey   = "slots"
	depthKey   = "depth"
	runsKey    = "runs"
	verboseKey = "verbose"
)

func main() {
	cmd := &cli.Command{
		Name:  "stress",
		Usage: "Mutate a signal from inside its own slots and check every emission",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  configKey,
				Usage: "TOML scenario file, flags override it",
			},
			&cli.IntFlag{
				Name:  seedKey,
				Usage: "Seed of the first run",
			},
			&cli.IntFlag{
				Name:  roundsKey,
				Usage: "Top level emissions per run",
			},
			&cli.IntFlag{
				Name:  slotsKey,
				Usage: "Connections restored before every round",
			},
			&cli.IntFlag{
				Name:  depthKey,
				Usage: "Deepest nested emission",
			},
			&cli.UintFlag{
				Name:  runsKey,
				Usage: "Number of runs, each with the next seed",
				Value: 1,
			},
			&cli.BoolFlag{
				Name:  verboseKey,
				Usage: "Log every round",
			},
		},
		Action: run,
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		logrus.WithError(err).Fatal("stress failed")
	}
}

func loadConfig(cmd *cli.Command) (stress.Config, error) {
	cfg := stress.DefaultConfig()
	if path := cmd.String(configKey); path != "" {
		var err error
		if cfg, err = stress.LoadConfig(path); err != nil {
			return cfg, err
		}
	}
	if cmd.IsSet(seedKey) {
		cfg.Seed = cmd.Int(seedKey)
	}
	if cmd.IsSet(roundsKey) {
		cfg.Rounds = int(cmd.Int(roundsKey))
	}
	if cmd.IsSet(slotsKey) {
		cfg.Slots = int(cmd.Int(slotsKey))
	}
	if cmd.IsSet(depthKey) {
		cfg.MaxDepth = int(cmd.Int(depthKey))
	}
	return cfg, cfg.Validate()
}

func run(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	log := logrus.New()
	if cmd.Bool(verboseKey) {
		log.SetLevel(logrus.DebugLevel)
	}

	tbl := tablewriter.NewWriter(os.Stdout)
	tbl.SetHeader([]string{
		"run", "seed", "rounds", "emits", "invocations", "connects",
		"disconnects", "moves", "closes", "failures", "depth",
		"digest", "time", "rate", "violations",
	})

	runs := int(cmd.Uint(runsKey))
	failed := 0
	for i := 0; i < runs; i++ {
		runCfg := cfg
		runCfg.Seed = cfg.Seed + int64(i)

		r, err := stress.NewRunner(runCfg, stress.WithLogger(log))
		if err != nil {
			return err
		}
		report, err := r.Run(ctx)
		if err != nil && !errors.Is(err, stress.ErrInvariant) {
			return err
		}

		runLog := log.WithFields(logrus.Fields{
			"run":  report.RunID,
			"seed": report.Seed,
		})
		for _, v := range report.Violations {
			runLog.Error(v)
		}
		if !report.OK() {
			failed++
		}

		rate := float64(report.Invocations) / report.Elapsed.Seconds()
		tbl.Append([]string{
			report.RunID.String()[:8],
			fmt.Sprint(report.Seed),
			humanize.Comma(int64(report.Rounds)),
			humanize.Comma(int64(report.Emits)),
			humanize.Comma(int64(report.Invocations)),
			humanize.Comma(int64(report.Connects)),
			humanize.Comma(int64(report.Disconnects)),
			humanize.Comma(int64(report.Moves)),
			humanize.Comma(int64(report.Closes)),
			humanize.Comma(int64(report.Failures)),
			fmt.Sprint(report.MaxDepth),
			fmt.Sprintf("%016x", report.Digest),
			report.Elapsed.Round(time.Microsecond).String(),
			humanize.SI(rate, "call/s"),
			fmt.Sprint(len(report.Violations)),
		})
	}
	tbl.Render()

	if failed > 0 {
		return fmt.Errorf("%w in %d of %d runs", stress.ErrInvariant, failed, runs)
	}
	return nil
}
