package main

import (
	"io"
	"os"

	"go-mmdb/pkg/reader"
	"go-mmdb/pkg/types"

	"github.com/alecthomas/kingpin/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/vmihailenco/msgpack/v5"
)

// lookupCommand prints the record of each address.
type lookupCommand struct {
	cli    *cli
	db     *string
	ips    *[]string
	lang   *string
	format *string
}

type lookupResult struct {
	IP           string      `json:"ip" msgpack:"ip"`
	PrefixLength int         `json:"prefix_length" msgpack:"prefix_length"`
	Record       interface{} `json:"record" msgpack:"record"`
	Error        string      `json:"error,omitempty" msgpack:"error,omitempty"`
}

type lookuper interface {
	Lookup(ip string) (reader.Result, error)
}

func (cmd *lookupCommand) run(*kingpin.ParseContext) error {
	r := cmd.cli.open(*cmd.db)
	return writeResults(os.Stdout, *cmd.format, lookupAll(r, *cmd.ips, *cmd.lang))
}

// lookupAll resolves every address. A failed address gets a nil record and
// its error, the remaining addresses are still looked up.
func lookupAll(r lookuper, ips []string, lang string) []lookupResult {
	out := make([]lookupResult, 0, len(ips))
	for _, ip := range ips {
		res, err := r.Lookup(ip)
		if err != nil {
			out = append(out, lookupResult{IP: ip, PrefixLength: res.PrefixLength, Error: err.Error()})
			continue
		}
		v := res.Value
		if v != nil && lang != "" {
			v = types.Localize(v, lang)
		}
		out = append(out, lookupResult{IP: ip, PrefixLength: res.PrefixLength, Record: exportable(v)})
	}
	return out
}

func writeResults(w io.Writer, format string, out []lookupResult) error {
	switch format {
	case "msgpack":
		return msgpack.NewEncoder(w).Encode(out)
	default:
		enc := jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}
}

// exportable converts a decoded value into plain Go values that both
// encoders understand. 128-bit integers become decimal strings.
func exportable(v types.DataType) interface{} {
	switch t := v.(type) {
	case nil:
		return nil
	case types.Map:
		m := make(map[string]interface{}, len(t))
		for k, c := range t {
			m[k] = exportable(c)
		}
		return m
	case types.Array:
		a := make([]interface{}, len(t))
		for i, c := range t {
			a[i] = exportable(c)
		}
		return a
	case types.Uint128:
		return t.String()
	default:
		return t.Value()
	}
}

func addLookupCommand(app *kingpin.Application, c *cli) {
	cmd := &lookupCommand{cli: c}
	lookup := app.Command("lookup", "Print the records of IP addresses.").Action(cmd.run)
	cmd.db = lookup.Arg("db", "The database file.").Required().String()
	cmd.ips = lookup.Arg("ip", "Addresses to look up.").Required().Strings()
	cmd.lang = lookup.Flag("lang", "Add a localized \"name\" next to every \"names\" map.").String()
	cmd.format = lookup.Flag("format", "Output format.").Default("json").Enum("json", "msgpack")
}

