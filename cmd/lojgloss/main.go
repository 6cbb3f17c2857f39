// Command lojgloss translates English text into Lojban and back using a
// gloss dictionary.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/ZaguanLabs/lojgloss"
	"github.com/ZaguanLabs/lojgloss/internal/app"
	"github.com/ZaguanLabs/lojgloss/internal/config"
	"github.com/ZaguanLabs/lojgloss/processor"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// options holds the parsed command line.
type options struct {
	text        string
	file        string
	reverse     bool
	verbose     bool
	save        string
	dict        string
	legacySpans bool
	threshold   float64
	jsonOutput  bool
	html        bool
	diffDict    string
	configPath  string
	quiet       bool
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("lojgloss", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var opts options
	fs.StringVar(&opts.text, "text", "", "Text to translate")
	fs.StringVar(&opts.file, "file", "", "Path to a file containing the text to translate")
	fs.BoolVar(&opts.reverse, "reverse", false, "Translate Lojban to English")
	fs.BoolVar(&opts.verbose, "verbose", false, "Print each token and its translation")
	fs.StringVar(&opts.save, "save", "", "Save the translation to a file")
	fs.StringVar(&opts.dict, "dict", "", "Gloss dictionary JSON file (default: from config)")
	fs.BoolVar(&opts.legacySpans, "legacy-spans", false, "Only match 3-word and 2-word phrases")
	fs.Float64Var(&opts.threshold, "threshold", 0, "Similarity acceptance threshold (default: from config)")
	fs.BoolVar(&opts.jsonOutput, "json", false, "Output result as JSON")
	fs.BoolVar(&opts.html, "html", false, "Treat the input as HTML and translate its text nodes")
	fs.StringVar(&opts.diffDict, "diff-dict", "", "Compare the active dictionary with another dictionary file")
	fs.StringVar(&opts.configPath, "config", "", "Config file (default: LOJGLOSS_CONFIG or ./lojgloss.yaml)")
	fs.BoolVar(&opts.quiet, "quiet", false, "Print only the translation")
	showVersion := fs.Bool("version", false, "Show version")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *showVersion {
		fmt.Fprintf(stdout, "%s %s\n", lojgloss.Name, lojgloss.FullVersion())
		if lojgloss.BuildDate != "" {
			fmt.Fprintf(stdout, "  built:   %s\n", lojgloss.BuildDate)
		}
		return nil
	}

	if opts.diffDict == "" && opts.text == "" && opts.file == "" {
		fmt.Fprintln(stdout, "❌ Please provide either --text or --file.")
		return nil
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	var extra []lojgloss.TranslatorOption
	if opts.verbose {
		extra = append(extra, lojgloss.WithTrace(stderr))
	}
	if opts.html {
		dir := direction(opts.reverse)
		extra = append(extra, lojgloss.WithProcessor(processor.NewHTMLProcessor(
			processor.WithDocumentLang(dir.TargetLang()),
		)))
	}

	a, err := app.Build(cfg, app.NewLogger(cfg.Log, stderr), extra...)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			fmt.Fprintf(stderr, "warning: %v\n", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if opts.diffDict != "" {
		return runDiff(a.Translator, opts, stdout)
	}
	return translate(ctx, a.Translator, opts, stdout, stderr)
}

// loadConfig reads the configuration and applies command line overrides.
func loadConfig(opts options) (*config.Config, error) {
	var cfg *config.Config
	var err error
	if opts.configPath != "" {
		cfg, err = config.LoadFile(opts.configPath, true)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if opts.dict != "" {
		cfg.Dictionary.Path = opts.dict
	}
	if opts.legacySpans {
		cfg.Dictionary.SpanPolicy = lojgloss.SpansLegacy.String()
	}
	if opts.threshold > 0 {
		cfg.Similarity.Threshold = opts.threshold
	}
	return cfg, cfg.Validate()
}

func direction(reverse bool) lojgloss.Direction {
	if reverse {
		return lojgloss.Reverse
	}
	return lojgloss.Forward
}

// translate reads the input, translates it with t and prints or saves the
// result.
func translate(ctx context.Context, t *lojgloss.Translator, opts options, stdout, stderr io.Writer) error {
	input := opts.text
	if opts.file != "" {
		data, err := os.ReadFile(opts.file) // #nosec G304 - CLI tool reads user-specified files
		if err != nil {
			return fmt.Errorf("reading file: %w", err)
		}
		input = string(data)
	}

	dir := direction(opts.reverse)
	start := time.Now()

	var output string
	var result *lojgloss.Result
	var stats lojgloss.Stats
	if opts.html {
		processed, err := t.ProcessHTML(ctx, input, dir)
		if err != nil {
			return fmt.Errorf("translation failed: %w", err)
		}
		output, stats = processed.Content, processed.Stats
	} else {
		var err error
		result, err = t.Translate(ctx, input, dir)
		if err != nil {
			return fmt.Errorf("translation failed: %w", err)
		}
		output, stats = result.Text(), result.Stats
	}
	elapsed := time.Since(start)

	switch {
	case opts.jsonOutput:
		if err := outputJSON(stdout, dir, output, result, stats, elapsed); err != nil {
			return err
		}
	case opts.quiet:
		fmt.Fprintln(stdout, output)
	default:
		fmt.Fprintf(stdout, "\n%s Translation:\n%s\n", lojgloss.GetLanguageName(dir.TargetLang()), output)
	}

	if opts.save != "" {
		if err := os.WriteFile(opts.save, []byte(output), 0o644); err != nil {
			return fmt.Errorf("saving translation: %w", err)
		}
		if !opts.quiet && !opts.jsonOutput {
			fmt.Fprintf(stdout, "\n✅ Translation saved to %s\n", opts.save)
		}
	}

	if !opts.quiet && !opts.jsonOutput && stats.BuiltinTable {
		fmt.Fprintln(stderr, "warning: dictionary unavailable, used the built-in table")
	}
	return nil
}

// JSONToken is one resolved token in JSON output.
type JSONToken struct {
	Source   string  `json:"source"`
	Lemma    string  `json:"lemma,omitempty"`
	Text     string  `json:"text"`
	Strategy string  `json:"strategy"`
	Score    float64 `json:"score,omitempty"`
}

// JSONSentence is one translated sentence in JSON output.
type JSONSentence struct {
	Source string      `json:"source"`
	Line   string      `json:"line"`
	Tokens []JSONToken `json:"tokens"`
}

// JSONOutput represents the JSON output format.
type JSONOutput struct {
	RunID     string         `json:"run_id,omitempty"`
	Direction string         `json:"direction"`
	Content   string         `json:"content"`
	Sentences []JSONSentence `json:"sentences,omitempty"`
	Stats     lojgloss.Stats `json:"stats"`
	ElapsedMs int64          `json:"elapsed_ms"`
}

// outputJSON writes the result as JSON. result is nil for processed content.
func outputJSON(w io.Writer, dir lojgloss.Direction, content string, result *lojgloss.Result, stats lojgloss.Stats, elapsed time.Duration) error {
	out := JSONOutput{
		Direction: dir.String(),
		Content:   content,
		Stats:     stats,
		ElapsedMs: elapsed.Milliseconds(),
	}

	if result != nil {
		out.RunID = result.RunID
		for _, s := range result.Sentences {
			sentence := JSONSentence{Source: s.Source, Line: s.Line, Tokens: []JSONToken{}}
			for _, tok := range s.Tokens {
				sentence.Tokens = append(sentence.Tokens, JSONToken{
					Source:   tok.Source,
					Lemma:    tok.Lemma,
					Text:     tok.Render(),
					Strategy: string(tok.Strategy),
					Score:    tok.Score,
				})
			}
			out.Sentences = append(out.Sentences, sentence)
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// runDiff compares the active dictionary with another dictionary file.
func runDiff(t *lojgloss.Translator, opts options, stdout io.Writer) error {
	active, err := t.Table()
	if err != nil {
		return fmt.Errorf("loading active dictionary: %w", err)
	}

	other, err := lojgloss.FileSource(opts.diffDict).Load()
	if err != nil {
		return fmt.Errorf("loading %s: %w", opts.diffDict, err)
	}

	diff := lojgloss.DiffTables(active, lojgloss.BuildGlossTable(other))
	stats := diff.Stats()

	if opts.jsonOutput {
		type diffOutput struct {
			Previous string                  `json:"previous"`
			Current  string                  `json:"current"`
			Stats    lojgloss.DiffStats      `json:"stats"`
			Added    []lojgloss.GlossPair    `json:"added,omitempty"`
			Removed  []lojgloss.GlossPair    `json:"removed,omitempty"`
			Changed  []lojgloss.ChangedGloss `json:"changed,omitempty"`
		}

		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(diffOutput{
			Previous: "active",
			Current:  filepath.Base(opts.diffDict),
			Stats:    stats,
			Added:    diff.Added,
			Removed:  diff.Removed,
			Changed:  diff.Changed,
		})
	}

	fmt.Fprintf(stdout, "Diff: active dictionary vs %s\n\n", filepath.Base(opts.diffDict))

	fmt.Fprintf(stdout, "Summary:\n")
	fmt.Fprintf(stdout, "  Unchanged: %d\n", stats.Unchanged)
	fmt.Fprintf(stdout, "  Added:     %d\n", stats.Added)
	fmt.Fprintf(stdout, "  Removed:   %d\n", stats.Removed)
	fmt.Fprintf(stdout, "  Changed:   %d\n", stats.Changed)
	fmt.Fprintf(stdout, "\n")

	if !diff.HasChanges() {
		fmt.Fprintf(stdout, "No changes detected.\n")
		return nil
	}

	if len(diff.Added) > 0 {
		fmt.Fprintf(stdout, "Added:\n")
		for _, p := range diff.Added {
			fmt.Fprintf(stdout, "  + %q -> %s\n", p.Gloss, p.Word)
		}
		fmt.Fprintf(stdout, "\n")
	}

	if len(diff.Changed) > 0 {
		fmt.Fprintf(stdout, "Changed:\n")
		for _, c := range diff.Changed {
			fmt.Fprintf(stdout, "  ~ %q: %s -> %s\n", c.Gloss, c.OldWord, c.NewWord)
		}
		fmt.Fprintf(stdout, "\n")
	}

	if len(diff.Removed) > 0 {
		fmt.Fprintf(stdout, "Removed:\n")
		for _, p := range diff.Removed {
			fmt.Fprintf(stdout, "  - %q -> %s\n", p.Gloss, p.Word)
		}
		fmt.Fprintf(stdout, "\n")
	}

	return nil
}
