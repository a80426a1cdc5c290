// Command-line entry point for the FTL checker.
//
// Input formats
// -------------
// "parse" accepts raw roster text in either supported shape: a
// line-structured roster (one line per token: day header, check-in, flight
// rows, check-out) or a calendar-grid dump where day numbers and duty
// content are scattered across lines. The format is detected automatically.
//
// "check" accepts a JSON array of duty periods (the output of "parse"), or
// raw roster text with -roster. "board" accepts flight-board text.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"ftl_checker/internal/compliance"
	"ftl_checker/internal/config"
	"ftl_checker/internal/duty"
	_ "ftl_checker/internal/parsers" // register all roster parsers via init()
	"ftl_checker/internal/parsers/flightboard"
	"ftl_checker/internal/registry"
	"ftl_checker/internal/standby"
)

func usage(w io.Writer) {
	fmt.Fprintln(w, "ftl_checker - commands:")
	fmt.Fprintln(w, "  parse    - detect the roster format and parse roster text into duty periods")
	fmt.Fprintln(w, "  check    - evaluate duty periods against flight time limitations")
	fmt.Fprintln(w, "  board    - compute standby availability from flight-board text")
	fmt.Fprintln(w, "  formats  - list supported roster formats with example input")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  ftl_checker parse [-input roster.txt] [-output out.json] [-pretty] [-trace] [-stats]")
	fmt.Fprintln(w, "  ftl_checker check [-input duties.json] [-roster] [-scope all|today|3days|week] [-lang en|de] [-config ftl.toml] [-pretty]")
	fmt.Fprintln(w, "  ftl_checker board [-input board.txt] -window-start HH:MM -window-end HH:MM [-lead minutes] [-pretty]")
	fmt.Fprintln(w, "")
}

func main() {
	if len(os.Args) < 2 {
		usage(os.Stderr)
		os.Exit(2)
	}
	cmd := strings.ToLower(os.Args[1])
	switch cmd {
	case "parse":
		runParse(os.Args[2:])
	case "check":
		runCheck(os.Args[2:])
	case "board":
		runBoard(os.Args[2:])
	case "formats":
		runFormats()
	case "-h", "--help", "help":
		usage(os.Stdout)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		usage(os.Stderr)
		os.Exit(2)
	}
}

func runParse(args []string) {
	fs := flag.NewFlagSet("parse", flag.ExitOnError)
	inPath := fs.String("input", "", "Input roster text file (default: stdin)")
	outPath := fs.String("output", "", "Output JSON file (default: stdout)")
	pretty := fs.Bool("pretty", false, "Pretty-print JSON output")
	trace := fs.Bool("trace", false, "Emit per-parser trace output instead of the parse result")
	showStats := fs.Bool("stats", false, "Print basic counters to stderr")
	_ = fs.Parse(args)

	registry.Default().Sort()
	text := readInput(*inPath)
	now := time.Now().UTC()

	if *trace {
		var traces []interface{}
		for _, p := range registry.Default().AllParsers() {
			if t, ok := p.(registry.Traceable); ok {
				traces = append(traces, t.ParseWithTrace(text, now))
			}
		}
		writeOutput(*outPath, traces, *pretty)
		return
	}

	parser := registry.Default().Detect(text)
	if parser == nil {
		fmt.Fprintln(os.Stderr, "No parser available")
		os.Exit(1)
	}
	result := parser.Parse(text, now)

	out := struct {
		Format string            `json:"format"`
		Result *duty.ParseResult `json:"result"`
	}{Format: parser.Name(), Result: result}
	writeOutput(*outPath, out, *pretty)

	if *showStats {
		fmt.Fprintf(os.Stderr,
			"stats: format=%s success=%v days=%d segments=%d errors=%d\n",
			parser.Name(), result.Success, result.Summary.TotalDays, result.Summary.TotalSegments, len(result.Errors),
		)
	}
}

func runCheck(args []string) {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	inPath := fs.String("input", "", "Input file (default: stdin)")
	outPath := fs.String("output", "", "Output JSON file (default: stdout)")
	fromRoster := fs.Bool("roster", false, "Treat input as raw roster text instead of a duty period JSON array")
	scope := fs.String("scope", "all", "Result scope: all, today, 3days or week")
	lang := fs.String("lang", "", "Message language (default from config)")
	cfgPath := fs.String("config", "", "TOML config file with a [limits] override section")
	pretty := fs.Bool("pretty", false, "Pretty-print JSON output")
	_ = fs.Parse(args)

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	var duties []duty.Period
	if *fromRoster {
		registry.Default().Sort()
		result := registry.Default().Parse(readInput(*inPath), time.Now().UTC())
		if result == nil {
			fmt.Fprintln(os.Stderr, "No parser available")
			os.Exit(1)
		}
		for _, e := range result.Errors {
			fmt.Fprintf(os.Stderr, "parse: %s\n", e)
		}
		duties = result.DutyPeriods
	} else {
		if err := json.Unmarshal([]byte(readInput(*inPath)), &duties); err != nil {
			fmt.Fprintf(os.Stderr, "Input is not a duty period JSON array: %v\n", err)
			os.Exit(1)
		}
	}
	if len(duties) == 0 {
		fmt.Fprintln(os.Stderr, "No duty periods to evaluate")
		os.Exit(1)
	}

	language := *lang
	if language == "" {
		language = cfg.Language
	}

	engine := compliance.NewEngine(cfg.Limits)
	report, err := engine.Evaluate(duties, compliance.Options{
		Scope:    compliance.Scope(*scope),
		Language: language,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Evaluation failed: %v\n", err)
		os.Exit(1)
	}
	writeOutput(*outPath, report, *pretty)

	if report.Summary.IllegalDays > 0 {
		os.Exit(3)
	}
}

func runBoard(args []string) {
	fs := flag.NewFlagSet("board", flag.ExitOnError)
	inPath := fs.String("input", "", "Input flight-board text file (default: stdin)")
	outPath := fs.String("output", "", "Output JSON file (default: stdout)")
	winStart := fs.String("window-start", "", "Standby window start (HH:MM)")
	winEnd := fs.String("window-end", "", "Standby window end (HH:MM)")
	lead := fs.Int("lead", 0, "Minimum call lead time in minutes (default 90)")
	pretty := fs.Bool("pretty", false, "Pretty-print JSON output")
	_ = fs.Parse(args)

	if *winStart == "" || *winEnd == "" {
		fmt.Fprintln(os.Stderr, "-window-start and -window-end are required")
		os.Exit(2)
	}

	result := (&flightboard.Parser{}).Parse(readInput(*inPath))
	for _, e := range result.Errors {
		fmt.Fprintf(os.Stderr, "parse: %s\n", e)
	}

	av := standby.Compute(result.Flights, standby.Options{
		WindowStart:     *winStart,
		WindowEnd:       *winEnd,
		CallLeadMinutes: *lead,
	})
	writeOutput(*outPath, av, *pretty)
}

func runFormats() {
	registry.Default().Sort()
	for _, p := range registry.Default().AllParsers() {
		fmt.Printf("%s:\n%s\n\n", p.Name(), p.ExampleInput())
	}
}

func readInput(path string) string {
	var r io.Reader = os.Stdin
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open input: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		r = f
	}
	b, err := io.ReadAll(r)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Input read error: %v\n", err)
		os.Exit(1)
	}
	return string(b)
}

func writeOutput(path string, v interface{}, pretty bool) {
	var enc []byte
	var err error
	if pretty {
		enc, err = json.MarshalIndent(v, "", "  ")
	} else {
		enc, err = json.Marshal(v)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "JSON encode error: %v\n", err)
		os.Exit(1)
	}

	var w io.Writer = os.Stdout
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create output: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		w = f
	}
	_, _ = w.Write(enc)
	if w == os.Stdout {
		_, _ = w.Write([]byte("\n"))
	}
}
