// Command tzquery inspects time zone database containers.
package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/jrivets/log4g"
	"gopkg.in/urfave/cli.v2"

	"github.com/ngrash/go-tzdb/internal/config"
)

const Version = "0.1.0"

const (
	argConfigFile    = "config-file"
	argLogConfigFile = "log-config-file"
	argLogLevel      = "log-level"
	argData          = "data"
	argCompression   = "compression"
	argReencode      = "reencode"
	argUnpack        = "unpack"
)

var (
	logger = log4g.GetLogger("tzquery")
	cfg    *config.Config
)

func main() {
	defer log4g.Shutdown()
	app := &cli.App{
		Name:    "tzquery",
		Version: Version,
		Usage:   "Query time zone database containers",
		Before:  setup,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  argConfigFile,
				Usage: "tzquery configuration file path",
			},
			&cli.StringFlag{
				Name:  argLogConfigFile,
				Usage: "log4g configuration file path",
			},
			&cli.StringFlag{
				Name:  argLogLevel,
				Usage: "log level, one of fatal, info, debug or trace",
			},
			&cli.StringFlag{
				Name:  argData,
				Usage: "container or envelope file",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "resolve",
				Usage:     "Print the interval of a zone at an instant",
				ArgsUsage: "<zone> [RFC 3339 time|now]",
				Action:    runResolve,
			},
			{
				Name:      "intervals",
				Usage:     "Print the intervals of a zone overlapping a range",
				ArgsUsage: "<zone> <RFC 3339 from> <RFC 3339 to>",
				Action:    runIntervals,
			},
			{
				Name:   "info",
				Usage:  "Print a summary of the container",
				Action: runInfo,
			},
			{
				Name:      "diff",
				Usage:     "Compare two containers",
				ArgsUsage: "<file A> <file B>",
				Action:    runDiff,
			},
			{
				Name:      "pack",
				Usage:     "Wrap a container in a compressed envelope",
				ArgsUsage: "<input> <output>",
				Action:    runPack,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  argCompression,
						Usage: "compression, one of none, zstd, s2 or lz4",
					},
					&cli.BoolFlag{
						Name:  argReencode,
						Usage: "decode and re-encode the container with a string pool",
					},
					&cli.BoolFlag{
						Name:  argUnpack,
						Usage: "write the bare container instead of an envelope",
					},
				},
			},
		},
	}

	sort.Sort(cli.FlagsByName(app.Flags))
	sort.Sort(cli.CommandsByName(app.Commands))
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "tzquery:", err)
		log4g.Shutdown()
		os.Exit(1)
	}
}

// setup builds the configuration from defaults, the environment, the
// config file and the command line, in increasing precedence.
func setup(c *cli.Context) error {
	cfg = config.DefaultConfig()
	if f := c.String(argConfigFile); f != "" {
		file, err := config.ReadFile(f)
		if err != nil {
			return err
		}
		cfg.Apply(file)
	}
	cfg.Apply(&config.Config{
		Data: config.DataConfig{Path: c.String(argData)},
		Log: config.LogConfig{
			Level:      c.String(argLogLevel),
			ConfigFile: c.String(argLogConfigFile),
		},
	})
	if err := cfg.Validate(); err != nil {
		return err
	}

	if cfg.Log.ConfigFile != "" {
		return log4g.ConfigF(cfg.Log.ConfigFile)
	}
	switch cfg.Log.Level {
	case "fatal":
		log4g.SetLogLevel("", log4g.FATAL)
	case "info":
		log4g.SetLogLevel("", log4g.INFO)
	case "debug":
		log4g.SetLogLevel("", log4g.DEBUG)
	case "trace":
		log4g.SetLogLevel("", log4g.TRACE)
	}
	logger.Debug("Config ", cfg)
	return nil
}
