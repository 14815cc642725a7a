// Command jsonmsrv is a small multi-session demo loop: it has no network
// I/O of its own, but reads framed session+message records from stdin and
// fans them out across many independent Packer/Unpacker pairs, one per
// session id, bounded by an LRU-evicted session cache. It exists to
// exercise the guarantee that distinct sessions share no dictionary state,
// and to give the bounded-session-count problem (an ordinary cache
// admission problem, unrelated to the dictionary's own eviction policy) a
// concrete home.
//
// Each stdin line is "<pack|unpack> <session-id> <json>"; each stdout line
// is the corresponding result, in the same order.
package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/k0kubun/pp/v3"
	"gopkg.in/yaml.v2"

	"github.com/jessevdk/go-flags"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type options struct {
	Config string `long:"config" description:"YAML file carrying max_dict_size and session_cache_size"`
	Debug  bool   `long:"debug" description:"pretty-print each result to stderr"`
	Help   bool   `long:"help" description:"show this help"`
}

// fileConfig mirrors sqldef's optional-YAML-supplementing-flags pattern:
// cmd/jsonmsrv's defaults are reasonable for a demo, and a config file
// lets an operator tune them without a long flag list.
type fileConfig struct {
	MaxDictSize      int `yaml:"max_dict_size"`
	SessionCacheSize int `yaml:"session_cache_size"`
}

const (
	defaultMaxDictSize      = 2000
	defaultSessionCacheSize = 64
)

func parseOptions(args []string) (*options, fileConfig) {
	var opts options
	parser := flags.NewParser(&opts, flags.None)
	parser.Usage = "[options] < input.frames"
	if _, err := parser.ParseArgs(args); err != nil {
		log.Fatal(err)
	}
	if opts.Help {
		parser.WriteHelp(os.Stdout)
		os.Exit(0)
	}

	cfg := fileConfig{
		MaxDictSize:      defaultMaxDictSize,
		SessionCacheSize: defaultSessionCacheSize,
	}
	if opts.Config != "" {
		buf, err := os.ReadFile(opts.Config)
		if err != nil {
			log.Fatalf("read config: %v", err)
		}
		if err := yaml.Unmarshal(buf, &cfg); err != nil {
			log.Fatalf("parse config: %v", err)
		}
	}
	return &opts, cfg
}

func main() {
	opts, cfg := parseOptions(os.Args[1:])

	store, err := newSessionStore(cfg.SessionCacheSize, cfg.MaxDictSize)
	if err != nil {
		log.Fatalf("create session store: %v", err)
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

		fields := strings.SplitN(line, " ", 3)
		if len(fields) != 3 {
			log.Fatalf("malformed frame (want \"<pack|unpack> <session-id> <json>\"): %q", line)
		}
		direction, sessionID, payload := fields[0], fields[1], fields[2]

		var v any
		if err := json.Unmarshal([]byte(payload), &v); err != nil {
			log.Fatalf("invalid JSON payload: %v", err)
		}

		sess := store.get(sessionID)

		var result any
		switch direction {
		case "pack":
			result, err = sess.packer.Pack(v, nil)
		case "unpack":
			result, err = sess.unpacker.Unpack(v)
		default:
			log.Fatalf("unknown direction %q, want pack or unpack", direction)
		}
		if err != nil {
			log.Fatalf("%s session %s: %v", direction, sessionID, err)
		}

		if opts.Debug {
			debug.Println(result)
		}

		out, err := json.Marshal(result)
		if err != nil {
			log.Fatalf("marshal result: %v", err)
		}
		fmt.Fprintln(writer, string(out))
	}
	if err := scanner.Err(); err != nil {
		log.Fatalf("read stdin: %v", err)
	}
}
