// Command padlog views and analyzes remotepad session journals.
//
// Journals are written by remotepad when started with --journal.
//
// Usage:
//
//	padlog <command> [flags] <journal>
//
// Commands:
//
//	view     Print events in human-readable form
//	stats    Summarize clients, gamepads and input volume
//	export   Export events as JSONL or CSV
//	filter   Write matching events to a new journal
//
// Examples:
//
//	# Everything one client did
//	padlog view --client client_0a1b2c3d session.rglog
//
//	# Input routed to gamepad 2, as JSON lines
//	padlog export --device 2 --topic input_received session.rglog
//
//	# Statistics for one evening
//	padlog stats --time-start 2026-03-14T18:00:00Z --time-end 2026-03-15T00:00:00Z session.rglog
package main

import (
	"fmt"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/remotegamepad/remotegamepad-go/cmd/padlog/commands"
	"github.com/remotegamepad/remotegamepad-go/pkg/log"
)

const usage = `padlog - Remote Gamepad Journal Analyzer

Usage:
  padlog <command> [flags] <journal>

Commands:
  view     Print events in human-readable form
  stats    Summarize clients, gamepads and input volume
  export   Export events as JSONL or CSV
  filter   Write matching events to a new journal

Use "padlog <command> --help" for more information about a command.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "view":
		runView(args)
	case "stats":
		runStats(args)
	case "export":
		runExport(args)
	case "filter":
		runFilter(args)
	case "-h", "-help", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
}

// newFlagSet creates a flag set carrying the shared filter flags.
func newFlagSet(name, summary string, opts *commands.FilterOptions) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "padlog %s - %s\n\nUsage:\n  padlog %s [flags] <journal>\n\nFlags:\n", name, summary, name)
		fs.PrintDefaults()
	}

	fs.StringVar(&opts.ClientID, "client", "", "Filter by client ID")
	fs.IntVar(&opts.DeviceID, "device", 0, "Filter by gamepad ID")
	fs.StringVar(&opts.Topic, "topic", "", "Filter by event topic (e.g. client_connected)")
	fs.StringVar(&opts.Category, "category", "", "Filter by category (client, device, input)")
	fs.StringVar(&opts.TimeStart, "time-start", "", "Only events at or after this RFC 3339 time")
	fs.StringVar(&opts.TimeEnd, "time-end", "", "Only events before this RFC 3339 time")
	return fs
}

// parse parses args and returns the journal path and filter.
func parse(fs *flag.FlagSet, opts *commands.FilterOptions, args []string) (string, log.Filter) {
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: journal path required")
		fs.Usage()
		os.Exit(1)
	}

	filter, err := opts.Build()
	if err != nil {
		fail(err)
	}
	return fs.Arg(0), filter
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func runView(args []string) {
	var opts commands.FilterOptions
	fs := newFlagSet("view", "Print events in human-readable form", &opts)
	path, filter := parse(fs, &opts, args)

	if err := commands.RunView(path, filter, os.Stdout); err != nil {
		fail(err)
	}
}

func runStats(args []string) {
	var opts commands.FilterOptions
	fs := newFlagSet("stats", "Summarize clients, gamepads and input volume", &opts)
	path, filter := parse(fs, &opts, args)

	if err := commands.RunStats(path, filter, os.Stdout); err != nil {
		fail(err)
	}
}

func runExport(args []string) {
	var opts commands.FilterOptions
	fs := newFlagSet("export", "Export events as JSONL or CSV", &opts)
	format := fs.String("format", "jsonl", "Output format (jsonl, csv)")
	output := fs.StringP("output", "o", "", "Output file (default: stdout)")
	path, filter := parse(fs, &opts, args)

	if err := commands.RunExport(path, *format, *output, filter); err != nil {
		fail(err)
	}
}

func runFilter(args []string) {
	var opts commands.FilterOptions
	fs := newFlagSet("filter", "Write matching events to a new journal", &opts)
	output := fs.StringP("output", "o", "", "Output journal (required)")
	path, filter := parse(fs, &opts, args)

	if *output == "" {
		fmt.Fprintln(os.Stderr, "Error: --output is required")
		fs.Usage()
		os.Exit(1)
	}
	if err := commands.RunFilter(path, *output, filter, os.Stdout); err != nil {
		fail(err)
	}
}
