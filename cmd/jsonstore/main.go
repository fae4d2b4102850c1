// Package main is the jsonstore command line tool.
//
// jsonstore inspects and edits a JSON data file through the store's
// accessor operations:
//
//	jsonstore -file data.json set greeting hello
//	jsonstore -file data.json array-add tags red
//	jsonstore -file data.json -format=yaml dump
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/lmittmann/tint"
	"github.com/maruel/jsonstore"
	"github.com/maruel/jsonstore/jsonval"
	"github.com/maruel/jsonstore/snapshot"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"gopkg.in/yaml.v3"
)

func main() {
	if err := mainImpl(); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "jsonstore: %v\n", err)
		os.Exit(1)
	}
}

func mainImpl() error {
	file := flag.String("file", "", "Path to the JSON data file (required)")
	logLevel := flag.String("log-level", "warn", "Log level (debug, info, warn, error)")
	raw := flag.Bool("raw", false, "Emit slashes and non-ASCII characters literally (raw_text)")
	noHTMLEscape := flag.Bool("no-html-escape", false, "Disable \\uXXXX escaping of HTML-sensitive characters")
	format := flag.String("format", "json", "Output format for dump (json, yaml)")
	snap := flag.Bool("snapshot", false, "Commit the data file to a git repo in its directory after each change")
	flag.Usage = usage
	flag.Parse()

	if *file == "" {
		return fmt.Errorf("-file is required")
	}
	args := flag.Args()
	if len(args) == 0 {
		return fmt.Errorf("missing verb; see -help")
	}

	setupLogging(*logLevel)

	s, err := jsonstore.New(*file, jsonval.Object())
	if err != nil {
		return err
	}
	if err := s.SetOption(jsonstore.OptionRawText, *raw); err != nil {
		return err
	}
	if err := s.SetOption(jsonstore.OptionEncodeSpecChars, !*noHTMLEscape); err != nil {
		return err
	}

	var snapRepo *snapshot.Repo
	if *snap {
		snapRepo, err = snapshot.Open(filepath.Dir(*file), "", "")
		if err != nil {
			return err
		}
	}

	verb, args := args[0], args[1:]
	changed, err := run(s, *format, verb, args)
	if err != nil {
		return err
	}
	if changed {
		if err := s.Save(); err != nil {
			return err
		}
		if snapRepo != nil {
			hash, err := snapRepo.Commit(*file, "jsonstore "+verb)
			if err != nil {
				return err
			}
			if hash != "" {
				slog.Info("Snapshot committed", "hash", hash)
			}
		}
	}
	return nil
}

// run executes one verb, reporting whether the record changed.
func run(s *jsonstore.Store, format, verb string, args []string) (bool, error) {
	switch verb {
	case "has":
		if len(args) != 1 {
			return false, fmt.Errorf("usage: has <name>")
		}
		fmt.Println(s.Has(args[0]))
	case "get":
		if len(args) < 1 || len(args) > 2 {
			return false, fmt.Errorf("usage: get <name> [default]")
		}
		def := jsonval.Null()
		if len(args) == 2 {
			def = parseArg(args[1])
		}
		fmt.Println(s.Get(args[0], def))
	case "set":
		if len(args) != 2 {
			return false, fmt.Errorf("usage: set <name> <value>")
		}
		s.Set(args[0], parseArg(args[1]))
		return true, nil
	case "del":
		if len(args) != 1 {
			return false, fmt.Errorf("usage: del <name>")
		}
		s.Remove(args[0])
		return true, nil
	case "keys":
		for _, k := range s.Keys() {
			fmt.Println(k)
		}
	case "dump":
		return false, dump(s, format)
	case "array-has":
		if len(args) != 2 {
			return false, fmt.Errorf("usage: array-has <name> <value>")
		}
		fmt.Println(s.ArrayHas(args[0], parseArg(args[1])))
	case "array-get":
		if len(args) < 2 || len(args) > 3 {
			return false, fmt.Errorf("usage: array-get <name> <key> [default]")
		}
		def := jsonval.Null()
		if len(args) == 3 {
			def = parseArg(args[2])
		}
		fmt.Println(s.ArrayGet(args[0], jsonval.ParseKey(args[1]), def))
	case "array-add":
		if len(args) < 2 || len(args) > 3 {
			return false, fmt.Errorf("usage: array-add <name> <value> [key]")
		}
		s.ArrayAdd(args[0], parseArg(args[1]), parseOptKey(args))
		return true, nil
	case "array-set":
		if len(args) < 2 || len(args) > 3 {
			return false, fmt.Errorf("usage: array-set <name> <value> [key]")
		}
		s.ArraySet(args[0], parseArg(args[1]), parseOptKey(args))
		return true, nil
	case "array-del":
		if len(args) != 2 {
			return false, fmt.Errorf("usage: array-del <name> <key>")
		}
		s.ArrayRemove(args[0], jsonval.ParseKey(args[1]))
		return true, nil
	case "array-del-value":
		if len(args) != 2 {
			return false, fmt.Errorf("usage: array-del-value <name> <value>")
		}
		s.ArrayRemoveValue(args[0], parseArg(args[1]))
		return true, nil
	case "watch":
		return false, watch(s)
	default:
		return false, fmt.Errorf("unknown verb %q; see -help", verb)
	}
	return false, nil
}

func dump(s *jsonstore.Store, format string) error {
	switch format {
	case "json":
		out, err := s.Serialize()
		if err != nil {
			return err
		}
		fmt.Println(out)
	case "yaml":
		data, err := yaml.Marshal(s.Record().Interface())
		if err != nil {
			return err
		}
		_, _ = os.Stdout.Write(data)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
	return nil
}

// watch prints the record every time another process rewrites the file.
func watch(s *jsonstore.Store) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	defer stop()
	err := s.Watch(ctx, func() {
		out, err := s.Serialize()
		if err != nil {
			slog.Warn("Failed to serialize record", "err", err)
			return
		}
		fmt.Println(out)
	})
	if err != nil {
		return err
	}
	<-ctx.Done()
	return nil
}

// parseArg interprets an argument as JSON first, falling back to a plain
// string so unquoted words work: `set name hello` stores "hello".
func parseArg(s string) jsonval.Value {
	if v, err := jsonval.Parse([]byte(s)); err == nil {
		return v
	}
	return jsonval.String(s)
}

func parseOptKey(args []string) jsonval.Key {
	if len(args) == 3 {
		return jsonval.ParseKey(args[2])
	}
	return jsonval.Key{}
}

func setupLogging(level string) {
	ll := &slog.LevelVar{}
	switch level {
	case "debug":
		ll.Set(slog.LevelDebug)
	case "info":
		ll.Set(slog.LevelInfo)
	case "warn":
		ll.Set(slog.LevelWarn)
	case "error":
		ll.Set(slog.LevelError)
	}
	logger := slog.New(tint.NewHandler(colorable.NewColorable(os.Stderr), &tint.Options{
		Level:      ll,
		TimeFormat: "15:04:05.000",
		NoColor:    !isatty.IsTerminal(os.Stderr.Fd()),
	}))
	slog.SetDefault(logger)
}

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), `Usage: jsonstore -file <path> [flags] <verb> [args]

Verbs:
  has <name>                     Report whether a member exists
  get <name> [default]           Print a member's value
  set <name> <value>             Write a member and save
  del <name>                     Delete a member and save
  keys                           List member names
  dump                           Print the whole record (-format json|yaml)
  array-has <name> <value>       Report sequence membership
  array-get <name> <key> [def]   Print one entry of an array member
  array-add <name> <value> [key] Insert if absent and save
  array-set <name> <value> [key] Upsert and save
  array-del <name> <key>         Delete one entry and save
  array-del-value <name> <value> Delete first equal element and save
  watch                          Print the record on external changes

Values parse as JSON when possible, otherwise as plain strings.

Flags:
`)
	flag.PrintDefaults()
}
