package main

import (
	"context"
	"fmt"
	"go/format"
	"os"
	"time"

	"github.com/delaneyj/turnsignal/cmd/codegen/templates"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"
)

const (
	maxArityKey = "count"
	outputKey   = "out"
)

func main() {
	cmd := &cli.Command{
		Name:  "generate",
		Usage: "Generate the fixed arity signal wrappers",
		Flags: []cli.Flag{
			&cli.UintFlag{
				Name:  maxArityKey,
				Usage: "Highest number of slot arguments to generate",
				Value: 4,
			},
			&cli.StringFlag{
				Name:  outputKey,
				Usage: "Output file",
				Value: "signal/arity_gen.go",
			},
		},
		Action: generate,
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		logrus.WithError(err).Fatal("codegen failed")
	}
}

func generate(ctx context.Context, cmd *cli.Command) error {
	start := time.Now()
	maxArity := int(cmd.Uint(maxArityKey))
	out := cmd.String(outputKey)

	log := logrus.WithFields(logrus.Fields{
		"count": maxArity,
		"out":   out,
	})
	log.Info("codegen started")
	defer func() {
		log.WithField("took", time.Since(start)).Info("codegen finished")
	}()

	if maxArity < 2 || maxArity > 9 {
		return fmt.Errorf("count must be between 2 and 9, got %d", maxArity)
	}

	contents, err := format.Source([]byte(templates.ArityGen(maxArity)))
	if err != nil {
		return fmt.Errorf("formatting generated code: %w", err)
	}
	if err := os.WriteFile(out, contents, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", out, err)
	}
	return nil
}
