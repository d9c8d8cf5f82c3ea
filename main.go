package main

import (
	"fmt"
	"os"

	"go-mmdb/config"
	"go-mmdb/pkg/reader"
	"go-mmdb/util/logger"

	"github.com/alecthomas/kingpin/v2"
)

// cli holds the flags shared by every command.
type cli struct {
	configPath *string
	logLevel   *string

	cfg *config.AppConfig
}

func main() {
	app := kingpin.New("mmdb", "Query MaxMind DB files.")
	c := &cli{cfg: config.New()}
	c.configPath = app.Flag("config", "YAML configuration file.").Short('c').String()
	c.logLevel = app.Flag("log-level", "Log level, overrides the configuration.").String()
	app.PreAction(c.setup)

	addLookupCommand(app, c)
	addMetadataCommand(app, c)
	addNetworksCommand(app, c)
	addQueryCommand(app, c)

	kingpin.MustParse(app.Parse(os.Args[1:]))
}

func (c *cli) setup(*kingpin.ParseContext) error {
	if *c.configPath != "" {
		cfg, err := config.Load(*c.configPath)
		if err != nil {
			return err
		}
		c.cfg = cfg
	}

	level := c.cfg.Log.Level
	if *c.logLevel != "" {
		level = *c.logLevel
	}
	return logger.SetLevel(level)
}

// open reads path, or the configured database when path is empty.
func (c *cli) open(path string) *reader.Reader {
	if path == "" {
		path = c.cfg.Reader.DatabasePath
	}
	if path == "" {
		exitWithErr(fmt.Errorf("no database given and none configured"))
	}
	r, err := reader.Open(path, c.cfg.Reader.Options())
	if err != nil {
		exitWithErr(err)
	}
	return r
}

func exitWithErr(err error) {
	logger.L.WithField("prefix", "mmdb").Error(err)
	os.Exit(1)
}
