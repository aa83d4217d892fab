package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"quill/compiler-go/pkg/analyzer"
	"quill/compiler-go/pkg/driver"
	"quill/compiler-go/pkg/interpreter"
	"quill/compiler-go/pkg/runtime"
)

const cliToolVersion = "quill-cli 0.0.0-dev"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return 1
	}

	switch args[0] {
	case "--help", "-h", "help":
		printUsage()
		return 0
	case "--version", "-V", "version":
		fmt.Fprintln(os.Stdout, cliToolVersion)
		return 0
	case "analyze":
		return runAnalyze(args[1:])
	case "run":
		return runEval(args[1:])
	case "step":
		return runStep(args[1:])
	case "check":
		return runCheck(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n", args[0])
		printUsage()
		return 1
	}
}

type options struct {
	strict  bool
	verbose bool
	paths   []string
}

func parseOptions(args []string) (*options, error) {
	opts := &options{}
	for _, arg := range args {
		switch {
		case arg == "--strict":
			opts.strict = true
		case arg == "--verbose" || arg == "-v":
			opts.verbose = true
		case strings.HasPrefix(arg, "-"):
			return nil, fmt.Errorf("unknown flag %q", arg)
		default:
			opts.paths = append(opts.paths, arg)
		}
	}
	return opts, nil
}

func (o *options) singlePath(command string) (string, error) {
	if len(o.paths) != 1 {
		return "", fmt.Errorf("quill %s requires exactly one path", command)
	}
	return o.paths[0], nil
}

func (o *options) logger() zerolog.Logger {
	if !o.verbose {
		return zerolog.Nop()
	}
	writer := zerolog.ConsoleWriter{Out: os.Stderr}
	return zerolog.New(writer).Level(zerolog.TraceLevel).With().Timestamp().Logger()
}

func (o *options) analyzerOptions() []analyzer.Option {
	var out []analyzer.Option
	if o.strict {
		out = append(out, analyzer.WithStrictUnknowns())
	}
	if o.verbose {
		out = append(out, analyzer.WithLogger(o.logger()))
	}
	return out
}

func runAnalyze(args []string) int {
	opts, err := parseOptions(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}
	path, err := opts.singlePath("analyze")
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}
	report, err := analyzeDocument(path, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}
	if err := report.WriteJSON(os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "failed to render report: %v\n", err)
		return 1
	}
	return 0
}

func runEval(args []string) int {
	opts, err := parseOptions(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}
	path, err := opts.singlePath("run")
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}
	value, err := evaluateDocument(path, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}
	fmt.Fprintln(os.Stdout, runtime.Print(value))
	return 0
}

func runStep(args []string) int {
	opts, err := parseOptions(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}
	path, err := opts.singlePath("step")
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}
	if err := stepDocument(path, opts, os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}
	return 0
}

func runCheck(args []string) int {
	opts, err := parseOptions(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}
	path, err := opts.singlePath("check")
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}
	manifest, err := driver.LoadManifest(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load manifest: %v\n", err)
		return 1
	}
	runner := driver.NewRunner(driver.WithLogger(opts.logger()))
	if err := runner.RunManifest(manifest); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}
	fmt.Fprintf(os.Stdout, "suite %s: %d fixture(s) passed\n", manifest.Name, len(manifest.Fixtures))
	return 0
}

// analyzeDocument loads and analyzes a method document and summarizes the
// resolved scope. Expression documents have no selector to report on.
func analyzeDocument(path string, opts *options) (*driver.Report, error) {
	doc, err := loadAnalyzedDocument(path, opts)
	if err != nil {
		return nil, err
	}
	if doc.Method == nil {
		return nil, fmt.Errorf("analyze requires a method document")
	}
	return driver.NewReport(doc.Method)
}

func evaluateDocument(path string, opts *options) (runtime.Value, error) {
	doc, err := loadAnalyzedDocument(path, opts)
	if err != nil {
		return nil, err
	}
	rt := runtime.NewRuntime()
	interp := interpreter.New(rt, interpreter.WithLogger(opts.logger()))
	if err := doc.Seed(interp.RootContext(), rt.Globals); err != nil {
		return nil, err
	}
	return interp.Run(doc.Node)
}

// stepDocument replays a document one evaluation step at a time. Each input
// line advances the session and "q" stops it; once input runs out, the rest
// of the session drains without pausing.
func stepDocument(path string, opts *options, in io.Reader, w io.Writer) error {
	doc, err := loadAnalyzedDocument(path, opts)
	if err != nil {
		return err
	}
	rt := runtime.NewRuntime()
	dbg := interpreter.NewDebugger(rt, interpreter.WithLogger(opts.logger()))
	if err := doc.Seed(dbg.Context(), rt.Globals); err != nil {
		return err
	}
	dbg.Interpret(doc.Node)

	fmt.Fprintf(w, "session %s\n", dbg.Session())
	scanner := bufio.NewScanner(in)
	interactive := true
	for !dbg.Done() {
		if interactive {
			fmt.Fprint(w, "> ")
			if !scanner.Scan() {
				interactive = false
				fmt.Fprintln(w)
			} else if line := strings.TrimSpace(scanner.Text()); line == "q" || line == "quit" {
				fmt.Fprintf(w, "stopped after %d step(s)\n", dbg.Interpreter().Steps())
				return scanner.Err()
			}
		}
		if err := dbg.Advance(); err != nil {
			return err
		}
		fmt.Fprintf(w, "step %d: %s\n", dbg.Interpreter().Steps(), runtime.Print(dbg.Result()))
	}
	fmt.Fprintf(w, "result: %s\n", runtime.Print(dbg.Result()))
	return scanner.Err()
}

func loadAnalyzedDocument(path string, opts *options) (*driver.Document, error) {
	doc, err := driver.LoadDocument(path)
	if err != nil {
		return nil, err
	}
	if err := doc.Analyze(opts.analyzerOptions()...); err != nil {
		return nil, err
	}
	return doc, nil
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  quill analyze <document.json> [--strict] [--verbose]")
	fmt.Fprintln(os.Stderr, "  quill run <document.json> [--strict] [--verbose]")
	fmt.Fprintln(os.Stderr, "  quill step <document.json> [--strict] [--verbose]")
	fmt.Fprintln(os.Stderr, "  quill check <suite.yml> [--verbose]")
}
