// Command jsonmpack reads newline-delimited JSON values from stdin and
// writes each one's packed wire form, one JSON array (or scalar) per line,
// to stdout. A single Packer is shared across the whole stream, so repeated
// keys and values across lines benefit from memoization exactly as they
// would within one long-lived session.
package main

import (
	"bufio"
	"fmt"
	"log"
	"os"

	jsoniter "github.com/json-iterator/go"
	"github.com/k0kubun/pp/v3"

	"github.com/jessevdk/go-flags"

	"github.com/seiflotfy/jsonm"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type options struct {
	MaxDictSize int  `long:"max-dict-size" description:"bound on live dictionary slots" default:"2000"`
	StringDepth int  `long:"string-depth" description:"recursive string-packing depth; -1 disables it" default:"-1"`
	NoSequence  bool `long:"no-sequence-id" description:"omit the sequence id envelope"`
	Debug       bool `long:"debug" description:"pretty-print each packed message to stderr"`
	Help        bool `long:"help" description:"show this help"`
}

func parseOptions(args []string) *options {
	var opts options
	parser := flags.NewParser(&opts, flags.None)
	parser.Usage = "[options] < input.ndjson"
	if _, err := parser.ParseArgs(args); err != nil {
		log.Fatal(err)
	}
	if opts.Help {
		parser.WriteHelp(os.Stdout)
		os.Exit(0)
	}
	return &opts
}

func main() {
	opts := parseOptions(os.Args[1:])

	p := jsonm.NewPackerSize(opts.MaxDictSize)
	packOpts := jsonm.PackOptions{
		PackStringDepth: opts.StringDepth,
		NoSequenceID:    opts.NoSequence,
	}

	debug := pp.New()
	debug.SetOutput(os.Stderr)

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	writer := bufio.NewWriter(os.Stdout)
	defer writer.Flush()

	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}

		var v any
		if err := json.Unmarshal([]byte(line), &v); err != nil {
			log.Fatalf("invalid JSON input: %v", err)
		}

		encoded, err := p.Pack(v, &packOpts)
		if err != nil {
			log.Fatalf("pack: %v", err)
		}

		if opts.Debug {
			debug.Println(encoded)
		}

		out, err := json.Marshal(encoded)
		if err != nil {
			log.Fatalf("marshal encoded message: %v", err)
		}
		fmt.Fprintln(writer, string(out))
	}
	if err := scanner.Err(); err != nil {
		log.Fatalf("read stdin: %v", err)
	}
}
