package main

import (
	"context"
	"fmt"
	"os"
	"runtime/pprof"
	"time"

	"github.com/delaneyj/turnsignal/signal"
	"github.com/dustin/go-humanize"
	"github.com/jamiealquiza/tachymeter"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"
)

const (
	itersKey   = "iters"
	profileKey = "cpuprofile"
)

var listeners = []int{1, 10, 100, 1_000}

func main() {
	cmd := &cli.Command{
		Name:  "benchmark",
		Usage: "Measure emission latency while slots mutate their own signal",
		Flags: []cli.Flag{
			&cli.UintFlag{
				Name:  itersKey,
				Usage: "Emissions timed per row",
				Value: 1_000,
			},
			&cli.StringFlag{
				Name:  profileKey,
				Usage: "Write a CPU profile to this file",
			},
		},
		Action: run,
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		logrus.WithError(err).Fatal("benchmark failed")
	}
}

// scenario wires n listeners onto a signal.
type scenario struct {
	name  string
	setup func(sig *signal.Signal[int], n int)
}

var scenarios = []scenario{
	{name: "plain", setup: setupPlain},
	{name: "reconnect", setup: setupReconnect},
	{name: "move", setup: setupMove},
	{name: "nested", setup: setupNested},
}

func run(ctx context.Context, cmd *cli.Command) error {
	iters := int(cmd.Uint(itersKey))
	if iters == 0 {
		return fmt.Errorf("%s must be positive", itersKey)
	}

	if path := cmd.String(profileKey); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("creating profile: %w", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			return fmt.Errorf("starting profile: %w", err)
		}
		defer pprof.StopCPUProfile()
	}

	logrus.Info("warming up")
	for _, sc := range scenarios {
		measure(sc, listeners[len(listeners)-1], iters)
	}

	tbl := table.NewWriter()
	tbl.SetTitle("Signal emission")
	tbl.SetOutputMirror(os.Stdout)
	tbl.AppendHeader(table.Row{"benchmark", "avg", "min", "p75", "p99", "max", "rate"})

	for _, sc := range scenarios {
		for _, n := range listeners {
			if err := ctx.Err(); err != nil {
				return err
			}
			logrus.WithFields(logrus.Fields{
				"scenario":  sc.name,
				"listeners": n,
			}).Debug("measuring")

			calc := measure(sc, n, iters)
			tbl.AppendRow(table.Row{
				fmt.Sprintf("%s: %d listeners", sc.name, n),
				calc.Time.Avg,
				calc.Time.Min,
				calc.Time.P75,
				calc.Time.P99,
				calc.Time.Max,
				humanize.SI(calc.Rate.Second, "emit/s"),
			})
		}
	}

	tbl.Render()
	return nil
}

func measure(sc scenario, n, iters int) *tachymeter.Metrics {
	tach := tachymeter.New(&tachymeter.Config{Size: iters})

	var sig signal.Signal[int]
	sc.setup(&sig, n)

	wall := time.Now()
	for i := 0; i < iters; i++ {
		start := time.Now()
		if err := sig.Emit(i); err != nil {
			logrus.WithError(err).WithField("scenario", sc.name).Panic("emit failed")
		}
		tach.AddTime(time.Since(start))
	}
	tach.SetWallTime(time.Since(wall))

	sig.Close()
	return tach.Calc()
}

func pass(int) error {
	return nil
}

func setupPlain(sig *signal.Signal[int], n int) {
	for i := 0; i < n; i++ {
		sig.Connect(pass)
	}
}

// Every slot drops its registration and registers again at the front.
func setupReconnect(sig *signal.Signal[int], n int) {
	conns := make([]signal.Connection[int], n)
	for i := range conns {
		c := &conns[i]
		var slot signal.Slot[int]
		slot = func(int) error {
			sig.ConnectInto(c, slot)
			return nil
		}
		sig.ConnectInto(c, slot)
	}
}

type pair struct {
	a, b signal.Connection[int]
	onA  bool
}

// Every slot hands its registration over to its other handle.
func setupMove(sig *signal.Signal[int], n int) {
	pairs := make([]pair, n)
	for i := range pairs {
		p := &pairs[i]
		p.onA = true
		sig.ConnectInto(&p.a, func(int) error {
			if p.onA {
				p.b.Take(&p.a)
			} else {
				p.a.Take(&p.b)
			}
			p.onA = !p.onA
			return nil
		})
	}
}

// The first slot emits once more from inside the outer emission.
func setupNested(sig *signal.Signal[int], n int) {
	setupPlain(sig, n)
	sig.Connect(func(v int) error {
		if sig.Depth() > 1 {
			return nil
		}
		return sig.Emit(v)
	})
}
