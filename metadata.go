package main

import (
	"fmt"

	"go-mmdb/util/helpers"

	"github.com/alecthomas/kingpin/v2"
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// metadataCommand prints the metadata of a database.
type metadataCommand struct {
	cli *cli
	db  *string
}

func (cmd *metadataCommand) run(*kingpin.ParseContext) error {
	r := cmd.cli.open(*cmd.db)
	m := r.Metadata()

	bold := color.New(color.Bold)
	bold.Println("Database:")
	fmt.Printf("\ttype: %s, ip version: %d, format: %d.%d\n",
		m.DatabaseType, m.IPVersion, m.BinaryFormatMajorVersion, m.BinaryFormatMinorVersion)
	fmt.Printf("\tbuilt: %s (%s)\n", helpers.FormatEpoch(m.BuildEpoch), humanize.Time(m.BuildTime()))
	fmt.Printf("\tlanguages: %v\n", m.Languages)

	bold.Println("Search tree:")
	fmt.Printf("\tnodes: %s, record size: %d bits, node size: %d bytes\n",
		humanize.Comma(int64(m.NodeCount)), m.RecordSize, m.NodeByteSize())
	fmt.Printf("\tsize: %s, approximate depth: %d\n",
		humanize.Bytes(uint64(m.SearchTreeSize())), m.TreeDepth())
	fmt.Printf("\tdata section size: %s\n",
		humanize.Bytes(uint64(m.DataSectionSize())))

	if len(m.Description) > 0 {
		bold.Println("Description:")
		langs := maps.Keys(m.Description)
		slices.Sort(langs)
		for _, l := range langs {
			fmt.Printf("\t%s: %s\n", l, m.Description[l])
		}
	}
	return nil
}

func addMetadataCommand(app *kingpin.Application, c *cli) {
	cmd := &metadataCommand{cli: c}
	meta := app.Command("metadata", "Print the metadata of a database.").Action(cmd.run)
	cmd.db = meta.Arg("db", "The database file.").String()
}
