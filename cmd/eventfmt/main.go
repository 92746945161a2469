// Command eventfmt formats event texts from files or standard input and
// serves the formatter over HTTP.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/mrjoshuak/eventfmt"
	"github.com/mrjoshuak/eventfmt/internal/api"
	"github.com/mrjoshuak/eventfmt/internal/profiles"
	"github.com/sirupsen/logrus"
)

// OutputFormat represents the supported output formats.
type OutputFormat string

const (
	FormatJSON OutputFormat = "json"
	FormatHTML OutputFormat = "html"
	FormatText OutputFormat = "text"
)

type globalOptions struct {
	LogLevel  string        `long:"log-level" env:"EVENTFMT_LOG_LEVEL" default:"warn" choice:"debug" choice:"info" choice:"warn" choice:"error" description:"Log level"`
	Profiles  string        `long:"profiles" env:"EVENTFMT_PROFILES" description:"YAML file with truncation profiles"`
	CacheSize int           `long:"cache-size" env:"EVENTFMT_CACHE_SIZE" default:"1000" description:"Maximum number of cached results"`
	CacheTTL  time.Duration `long:"cache-ttl" env:"EVENTFMT_CACHE_TTL" default:"5m" description:"Lifetime of a cached result"`
	// StrictPhones drops digit runs too short to be phone numbers.
	StrictPhones bool `long:"strict-phones" env:"EVENTFMT_STRICT_PHONES" description:"Only report phone numbers with six digits or more"`
	Version      bool `short:"v" long:"version" description:"Show version information"`
}

type formatCommand struct {
	Input          string `short:"i" long:"input" default:"-" description:"Input file, '-' for stdin"`
	Output         string `short:"o" long:"output" description:"Output file (default: stdout)"`
	Format         string `short:"f" long:"format" default:"json" choice:"json" choice:"html" choice:"text" description:"Output format"`
	Context        string `short:"c" long:"context" default:"description" choice:"title" choice:"description" choice:"preview" description:"Display context"`
	Screen         string `short:"s" long:"screen" choice:"mobile" choice:"tablet" choice:"desktop" choice:"tv" description:"Use the profile of a screen size"`
	MaxLength      int    `short:"n" long:"max-length" description:"Length budget in characters (default: desktop profile)"`
	BreakLongWords bool   `long:"break-long-words" description:"Hyphenate words that do not fit"`
	NoEllipsis     bool   `long:"no-ellipsis" description:"Do not append an ellipsis"`
	Chars          bool   `long:"chars" description:"Cut at characters instead of whole words"`
	Compact        bool   `long:"compact" description:"Output compact JSON without indentation"`
}

type serveCommand struct {
	Host      string  `long:"host" env:"EVENTFMT_HOST" description:"Listen host"`
	Port      string  `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	RateLimit float64 `long:"rate-limit" env:"EVENTFMT_RATE_LIMIT" default:"50" description:"Requests per second, 0 to disable"`
	RateBurst int     `long:"rate-burst" env:"EVENTFMT_RATE_BURST" default:"100" description:"Request burst size"`
}

var opts globalOptions

func main() {
	parser := flags.NewParser(&opts, flags.Default)
	parser.SubcommandsOptional = true
	if _, err := parser.AddCommand("format", "Format an event text",
		"Clean, truncate and structure an event text.", &formatCommand{}); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if _, err := parser.AddCommand("serve", "Serve the HTTP API",
		"Serve the formatting API as JSON over HTTP.", &serveCommand{}); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if _, err := parser.Parse(); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			return
		}
		os.Exit(1)
	}
	if opts.Version {
		fmt.Printf("%s version %s\n", eventfmt.Name, eventfmt.Version)
		return
	}
	if parser.Active == nil {
		parser.WriteHelp(os.Stderr)
		os.Exit(1)
	}
}

func newLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	if level, err := logrus.ParseLevel(opts.LogLevel); err == nil {
		log.SetLevel(level)
	}
	return log
}

func newFormatter(log logrus.FieldLogger) (*eventfmt.Formatter, error) {
	options := []eventfmt.Option{
		eventfmt.WithLogger(log),
		eventfmt.WithCacheSize(opts.CacheSize),
		eventfmt.WithCacheTTL(opts.CacheTTL),
	}
	if opts.StrictPhones {
		options = append(options, eventfmt.WithPatternLibrary(eventfmt.StrictPhones(eventfmt.DefaultPatterns())))
	}
	if opts.Profiles != "" {
		set, err := eventfmt.LoadProfiles(opts.Profiles)
		if err != nil {
			return nil, err
		}
		options = append(options, eventfmt.WithProfiles(set))
	}
	return eventfmt.New(options...), nil
}

// Execute runs the format command.
func (c *formatCommand) Execute(args []string) error {
	log := newLogger()
	f, err := newFormatter(log)
	if err != nil {
		return err
	}
	defer f.Close()

	var input io.Reader = os.Stdin
	if c.Input != "-" {
		file, err := os.Open(c.Input)
		if err != nil {
			return fmt.Errorf("failed to open input: %w", err)
		}
		defer file.Close()
		input = file
	}
	raw, err := io.ReadAll(input)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	var output io.Writer = os.Stdout
	if c.Output != "" {
		file, err := os.Create(c.Output)
		if err != nil {
			return fmt.Errorf("failed to create output: %w", err)
		}
		defer file.Close()
		output = file
	}

	log.WithFields(logrus.Fields{
		"input":   c.Input,
		"bytes":   len(raw),
		"format":  c.Format,
		"context": c.Context,
	}).Debug("Formatting input")
	return c.write(f, string(raw), output)
}

// Result is the JSON output of the format command.
type Result struct {
	Formatted eventfmt.FormattedText      `json:"formatted"`
	Special   eventfmt.SpecialContent     `json:"special_content"`
	Links     []eventfmt.ExtractedLink    `json:"links"`
	Contacts  []eventfmt.ExtractedContact `json:"contacts"`
	Dates     []eventfmt.ExtractedDate    `json:"dates"`
	Images    []eventfmt.ExtractedImage   `json:"images"`
	Advanced  eventfmt.ProcessedContent   `json:"advanced"`
	Overflow  eventfmt.OverflowAnalysis   `json:"overflow"`
	Profiles  eventfmt.Bundle             `json:"suggested_profiles"`
}

func (c *formatCommand) formatted(f *eventfmt.Formatter, text string) (eventfmt.FormattedText, error) {
	ctx, err := profiles.ParseContext(c.Context)
	if err != nil {
		return eventfmt.FormattedText{}, err
	}
	if c.Screen != "" {
		return f.FormatFor(text, ctx, eventfmt.ScreenSize(c.Screen))
	}

	topts := []eventfmt.TruncateOption{
		eventfmt.WithPreserveWords(!c.Chars),
		eventfmt.WithEllipsis(!c.NoEllipsis),
		eventfmt.WithBreakLongWords(c.BreakLongWords),
	}
	if c.MaxLength > 0 {
		topts = append(topts, eventfmt.WithMaxLength(c.MaxLength))
	}
	if ctx == eventfmt.ContextTitle {
		return f.FormatTitle(text, topts...), nil
	}
	return f.FormatDescription(text, topts...), nil
}

func (c *formatCommand) write(f *eventfmt.Formatter, text string, w io.Writer) error {
	formatted, err := c.formatted(f, text)
	if err != nil {
		return err
	}

	switch OutputFormat(c.Format) {
	case FormatText:
		_, err = fmt.Fprintln(w, formatted.Content)
		return err
	case FormatHTML:
		_, err = fmt.Fprintln(w, f.ProcessAdvancedContent(text, nil).HTML)
		return err
	}

	suggestions, err := f.TruncationSuggestions(text, eventfmt.Context(c.Context))
	if err != nil {
		return err
	}
	res := Result{
		Formatted: formatted,
		Special:   f.ExtractSpecialContent(text),
		Links:     f.ExtractLinks(text),
		Contacts:  f.ExtractContacts(text),
		Dates:     f.ExtractDates(text),
		Images:    f.ExtractImages(text),
		Advanced:  f.ProcessAdvancedContent(text, nil),
		Overflow:  f.AnalyzeTextOverflow(text, c.MaxLength, 0),
		Profiles:  suggestions,
	}
	enc := json.NewEncoder(w)
	if !c.Compact {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(res)
}

// Execute runs the serve command until SIGINT or SIGTERM.
func (c *serveCommand) Execute(args []string) error {
	log := newLogger()
	f, err := newFormatter(log)
	if err != nil {
		return err
	}
	defer f.Close()

	handler, err := api.NewHandler(f, log)
	if err != nil {
		return err
	}
	defer handler.Close()

	cfg := api.DefaultServerConfig()
	cfg.Host = c.Host
	cfg.Port = c.Port
	cfg.RateLimit = c.RateLimit
	cfg.RateBurst = c.RateBurst
	server := api.NewHTTPServer(api.NewServer(handler, cfg, log), cfg)

	serverErrChan := make(chan error, 1)
	go func() {
		log.WithFields(logrus.Fields{
			"addr":       cfg.Addr(),
			"rate_limit": cfg.RateLimit,
		}).Warn("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		log.WithField("signal", sig.String()).Warn("Shutting down")
	case err := <-serverErrChan:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}
