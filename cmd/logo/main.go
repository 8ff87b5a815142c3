package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"

	"github.com/mgomes/logo/logo"
)

const (
	defaultOutput  = "turtle.svg"
	defaultProgram = `make "length 50 to growsquare :length repeat 4 [forward :length right 90] make "length :length + 50 end repeat 10 [growsquare "length right 36 if "length > 250 [make "length 50]]`
)

func main() {
	if err := runCLI(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runCLI(args []string) error {
	if len(args) < 2 {
		return usageError()
	}
	switch args[1] {
	case "run":
		return runCommand(args[2:])
	case "repl":
		return runREPL()
	case "fmt":
		return fmtCommand(args[2:])
	case "analyze":
		return analyzeCommand(args[2:])
	case "lsp":
		return runLSP()
	case "help", "-h", "--help":
		printUsage()
		return nil
	default:
		return usageError()
	}
}

type seedFlag struct {
	value *uint64
}

func (s *seedFlag) String() string {
	if s.value == nil {
		return ""
	}
	return strconv.FormatUint(*s.value, 10)
}

func (s *seedFlag) Set(raw string) error {
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid seed %q", raw)
	}
	s.value = &n
	return nil
}

func runCommand(args []string) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	var program, output string
	fs.StringVar(&program, "program", "", "program text to run")
	fs.StringVar(&program, "P", "", "shorthand for -program")
	fs.StringVar(&output, "output", "", "path of the SVG to write (default turtle.svg)")
	fs.StringVar(&output, "O", "", "shorthand for -output")
	configPath := fs.String("config", "", "YAML config file (default ./logo.yaml when present)")
	checkOnly := fs.Bool("check", false, "only compile the program without running it")
	verbose := fs.Bool("v", false, "log procedure calls and run statistics")
	var seed seedFlag
	fs.Var(&seed, "seed", "seed for random, for reproducible drawings")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadRunConfig(*configPath)
	if err != nil {
		return err
	}

	remaining := fs.Args()
	if len(remaining) > 1 {
		return errors.New("logo run: at most one script path allowed")
	}
	source := program
	switch {
	case source != "" && len(remaining) == 1:
		return errors.New("logo run: use either -program or a script path, not both")
	case len(remaining) == 1:
		input, err := os.ReadFile(remaining[0])
		if err != nil {
			return fmt.Errorf("read script: %w", err)
		}
		source = string(input)
	case source == "" && cfg.Program != "":
		source = cfg.Program
	case source == "":
		source = defaultProgram
	}

	if output == "" {
		output = cfg.Output
	}
	if output == "" {
		output = defaultOutput
	}
	if seed.value == nil {
		seed.value = cfg.Seed
	}

	engineCfg := logo.Config{
		StepQuota:      cfg.StepQuota,
		RecursionLimit: cfg.RecursionLimit,
		Logger:         newLogger(*verbose || cfg.Verbose),
	}
	if seed.value != nil {
		engineCfg.Rand = rand.New(rand.NewPCG(*seed.value, *seed.value))
	}
	engine, err := logo.NewEngine(engineCfg)
	if err != nil {
		return err
	}

	if *checkOnly {
		if _, err := engine.Compile(source); err != nil {
			return fmt.Errorf("compile failed: %w", err)
		}
		return nil
	}

	img, err := engine.Run(context.Background(), source)
	if err != nil {
		return fmt.Errorf("run failed: %w", err)
	}
	if err := writeImage(output, img); err != nil {
		return err
	}
	engineCfg.Logger.Info("wrote drawing",
		slog.String("path", output),
		slog.Int("segments", len(img.Segments)))
	return nil
}

func writeImage(path string, img *logo.Image) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if _, err := img.WriteTo(file); err != nil {
		_ = file.Close()
		return fmt.Errorf("write output: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func usageError() error {
	printUsage()
	return errors.New("invalid command")
}

func printUsage() {
	prog := filepath.Base(os.Args[0])
	fmt.Fprintf(os.Stderr, "Usage: %s <command> [flags]\n", prog)
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  run [flags] [script]    run a program and write an SVG drawing")
	fmt.Fprintln(os.Stderr, "  repl                    start an interactive session")
	fmt.Fprintln(os.Stderr, "  fmt [-w] [-check] path  re-indent .logo files")
	fmt.Fprintln(os.Stderr, "  analyze script          report likely mistakes")
	fmt.Fprintln(os.Stderr, "  lsp                     serve the language server protocol on stdio")
	fmt.Fprintln(os.Stderr, "Run flags:")
	fmt.Fprintln(os.Stderr, "  -program, -P string")
	fmt.Fprintln(os.Stderr, "    program text to run (default: a sample drawing)")
	fmt.Fprintln(os.Stderr, "  -output, -O string")
	fmt.Fprintln(os.Stderr, "    path of the SVG to write (default \"turtle.svg\")")
	fmt.Fprintln(os.Stderr, "  -config string")
	fmt.Fprintln(os.Stderr, "    YAML config file (default ./logo.yaml when present)")
	fmt.Fprintln(os.Stderr, "  -seed uint")
	fmt.Fprintln(os.Stderr, "    seed for random")
	fmt.Fprintln(os.Stderr, "  -check")
	fmt.Fprintln(os.Stderr, "    only compile the program without running it")
	fmt.Fprintln(os.Stderr, "  -v")
	fmt.Fprintln(os.Stderr, "    log procedure calls and run statistics")
}

type flagErrorSink struct{}

func (flagErrorSink) Write(p []byte) (int, error) {
	return len(p), nil
}
