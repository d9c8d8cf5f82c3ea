package main

import (
	"fmt"

	"github.com/alecthomas/kingpin/v2"
	jsoniter "github.com/json-iterator/go"
)

// networksCommand lists the networks of a database with their records.
type networksCommand struct {
	cli   *cli
	db    *string
	limit *int
}

func (cmd *networksCommand) run(*kingpin.ParseContext) error {
	r := cmd.cli.open(*cmd.db)
	s, err := r.Networks()
	if err != nil {
		return err
	}
	defer s.Stop()

	for n := 0; *cmd.limit <= 0 || n < *cmd.limit; n++ {
		nw, ok := s.Pop()
		if !ok {
			break
		}
		if nw.Err != nil {
			return nw.Err
		}
		v, err := r.Decode(nw.Record)
		if err != nil {
			return err
		}
		b, err := jsoniter.ConfigFastest.Marshal(exportable(v))
		if err != nil {
			return err
		}
		fmt.Printf("%s\t%s\n", nw.Prefix, b)
	}
	return nil
}

func addNetworksCommand(app *kingpin.Application, c *cli) {
	cmd := &networksCommand{cli: c}
	networks := app.Command("networks", "List the networks of a database.").Action(cmd.run)
	cmd.db = networks.Arg("db", "The database file.").String()
	cmd.limit = networks.Flag("limit", "Stop after this many networks, 0 for all.").Default("0").Int()
}
