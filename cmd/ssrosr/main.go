// Command ssrosr decodes an RTCM 3 SSR byte stream and, unless run in
// decode-only mode, evaluates per-signal OSR corrections against a
// configured receiver position.
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/submeter/ssrosr/internal/config"
	"github.com/submeter/ssrosr/internal/session"
)

func main() {
	app := &cli.App{
		Name:  "ssrosr",
		Usage: "decode RTCM 3 SSR corrections and translate them to OSR",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "path to a JSON configuration file", Required: true},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}

	f, err := os.Open(cfg.InputPath)
	if err != nil {
		return fmt.Errorf("opening input stream: %w", err)
	}
	defer f.Close()

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	s := session.New(cfg)
	if err := s.Run(f); err != nil {
		logrus.WithError(err).Error("decoding session failed")
		return err
	}
	return nil
}
