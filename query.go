package main

import (
	"bufio"
	"io"
	"os"
	"strings"
	"time"

	"go-mmdb/pkg/reader"

	"github.com/alecthomas/kingpin/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/vmihailenco/msgpack/v5"
)

// queryCommand answers addresses read line by line from stdin while the
// database file is reloaded in the background.
type queryCommand struct {
	cli      *cli
	db       *string
	interval *time.Duration
	lang     *string
	format   *string
}

type readerSource interface {
	Current() *reader.Reader
}

func (cmd *queryCommand) run(*kingpin.ParseContext) error {
	cfg := *cmd.cli.cfg.Reader
	if *cmd.db != "" {
		cfg.DatabasePath = *cmd.db
	}
	if *cmd.interval > 0 {
		cfg.ReloadInterval = *cmd.interval
	}

	rl, err := cfg.Reloader()
	if err != nil {
		return err
	}
	defer rl.Close()

	return serve(os.Stdin, os.Stdout, rl, *cmd.lang, *cmd.format)
}

// serve writes one result per input line until in is exhausted. Every
// line is answered by the reader current at the time it is read.
func serve(in io.Reader, w io.Writer, src readerSource, lang, format string) error {
	var encode func(v interface{}) error
	switch format {
	case "msgpack":
		encode = msgpack.NewEncoder(w).Encode
	default:
		encode = jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(w).Encode
	}

	sc := bufio.NewScanner(in)
	for sc.Scan() {
		ip := strings.TrimSpace(sc.Text())
		if ip == "" {
			continue
		}
		for _, res := range lookupAll(src.Current(), []string{ip}, lang) {
			if err := encode(res); err != nil {
				return err
			}
		}
	}
	return sc.Err()
}

func addQueryCommand(app *kingpin.Application, c *cli) {
	cmd := &queryCommand{cli: c}
	query := app.Command("query", "Answer addresses read from stdin, reloading the database when it changes.").Action(cmd.run)
	cmd.db = query.Arg("db", "The database file, defaults to the configured one.").String()
	cmd.interval = query.Flag("reload-interval", "How often to check the file for changes, overrides the configuration.").Duration()
	cmd.lang = query.Flag("lang", "Add a localized \"name\" next to every \"names\" map.").String()
	cmd.format = query.Flag("format", "Output format.").Default("json").Enum("json", "msgpack")
}
