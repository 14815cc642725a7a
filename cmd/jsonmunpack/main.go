// Command jsonmunpack is the inverse of jsonmpack: it reads newline
// delimited wire-form JSON (the output of jsonmpack) and writes each
// decoded value back out as plain JSON, one per line, using the same
// shared-Unpacker-across-the-stream model.
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
	MaxDictSize int  `long:"max-dict-size" description:"bound on live dictionary slots, must match the sender" default:"2000"`
	Debug       bool `long:"debug" description:"pretty-print each decoded message to stderr"`
	Help        bool `long:"help" description:"show this help"`
}

func parseOptions(args []string) *options {
	var opts options
	parser := flags.NewParser(&opts, flags.None)
	parser.Usage = "[options] < input.wire.ndjson"
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

	u := jsonm.NewUnpackerSize(opts.MaxDictSize)

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

		var encoded any
		if err := json.Unmarshal([]byte(line), &encoded); err != nil {
			log.Fatalf("invalid wire JSON input: %v", err)
		}

		decoded, err := u.Unpack(encoded)
		if err != nil {
			log.Fatalf("unpack: %v", err)
		}

		if opts.Debug {
			debug.Println(decoded)
		}

		out, err := json.Marshal(decoded)
		if err != nil {
			log.Fatalf("marshal decoded message: %v", err)
		}
		fmt.Fprintln(writer, string(out))
	}
	if err := scanner.Err(); err != nil {
		log.Fatalf("read stdin: %v", err)
	}
}
