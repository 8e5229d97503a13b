package main

import (
	"fmt"
	"io"
	"os"

	_ "github.com/joho/godotenv/autoload"

	"github.com/carlmjohnson/versioninfo"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := run(os.Args, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "curve",
			Aliases: []string{"c"},
			Usage:   "preset domain name; replaces the leading p o Gx Gy arguments",
		},
	}
}

func newApp(out io.Writer) *cli.App {
	app := &cli.App{
		Name:    "ecdsa",
		Usage:   "reference ECDSA over y² = x³ + 7 curves",
		Version: versioninfo.Short(),
		Writer:  out,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Usage:   "path to a YAML config file",
				EnvVars: []string{"ECDSA_CONFIG"},
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "log verbosity (debug, info, warn, error)",
			},
			&cli.StringFlag{
				Name:  "seed",
				Usage: "hex-encoded 32-byte seed for deterministic randomness (testing only); nonces are derived per key and digest",
			},
			&cli.StringFlag{
				Name:    "metrics-file",
				Usage:   "write Prometheus metrics in text format to this file after the command runs",
				EnvVars: []string{"ECDSA_METRICS_FILE"},
			},
		},
		After: writeMetrics,
	}
	app.Commands = []*cli.Command{
		newGenKeyCommand(),
		newSignCommand(),
		newVerifyCommand(),
		newCurvesCommand(),
		newUserIDCommand(),
	}
	return app
}

// writeMetrics dumps the default registry, node_exporter textfile style.
func writeMetrics(cctx *cli.Context) error {
	path := cctx.String("metrics-file")
	if path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, prometheus.DefaultGatherer); err != nil {
		return errors.Wrap(err, "writing metrics")
	}
	return nil
}

func run(args []string, out io.Writer) error {
	return newApp(out).Run(args)
}
