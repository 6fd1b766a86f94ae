// Command netintent analyzes a set of declared routing intents against a
// network topology and reports every minimal conflicting subset and every
// maximal consistent subset of intents.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"iter"
	"log"
	"log/slog"
	"maps"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/amterp/color"
	"github.com/netintent-io/netintent"
	"github.com/netintent-io/netintent/intent"
	"github.com/netintent-io/netintent/internal/itertools"
	"github.com/netintent-io/netintent/internal/logging"
	"github.com/netintent-io/netintent/mapsolve"
	"github.com/netintent-io/netintent/report"
	"golang.org/x/sync/errgroup"
)

var (
	hicyanf = color.New(color.FgHiCyan).SprintfFunc()
	hiredf  = color.New(color.FgHiRed).SprintfFunc()
)

type config struct {
	intentsPath, topologyPath string
	bias                      mapsolve.Bias
	timeout                   time.Duration
	maxResults                int
	output                    string
}

var biasChoices = map[string]mapsolve.Bias{
	"MUSes": mapsolve.BiasMUS,
	"MSSes": mapsolve.BiasMSS,
}

func choiceFlag[T any](p *T, name string, choices map[string]T, dflt string, usage string) {
	cstr := strings.Join(slices.Sorted(maps.Keys(choices)), ", ")
	var ok bool
	if *p, ok = choices[dflt]; !ok {
		panic(fmt.Errorf("invalid default for %v option: %v", dflt, name))
	}
	usage += fmt.Sprintf(" (one of: %v; default: %v)", cstr, dflt)
	flag.Func(name, usage, func(arg string) error {
		if arg == "" {
			arg = dflt
		}
		v, ok := choices[arg]
		if !ok {
			return fmt.Errorf("expected one of: %v", cstr)
		}
		*p = v
		return nil
	})
}

var slogLevel = func() *slog.LevelVar {
	lvl := &slog.LevelVar{}
	lvl.Set(logging.LevelInfo)
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(h))
	return lvl
}()

func parseFlags() *config {
	cfg := &config{}

	bumpLogLevel := func(lower bool) {
		slogLevel.Set(logging.BumpLevel(slogLevel.Level(), lower))
	}
	flag.BoolFunc("verbose", "Increase log verbosity.", func(string) error {
		bumpLogLevel(true)
		return nil
	})
	flag.BoolFunc("quiet", "Decrease log verbosity.", func(string) error {
		bumpLogLevel(false)
		return nil
	})

	choiceFlag(&cfg.bias, "bias", biasChoices, "MUSes",
		"Bias the seed generator's flip order toward fast `mode` discovery.")
	flag.Func("timeout", "Stop after `seconds` of wall-clock time (0 = unbounded).", func(arg string) error {
		secs, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return fmt.Errorf("invalid --timeout: %w", err)
		}
		cfg.timeout = time.Duration(secs * float64(time.Second))
		return nil
	})
	flag.IntVar(&cfg.maxResults, "max-results", 0, "Stop after `n` MSS+MUS events (0 = unbounded).")
	flag.StringVar(&cfg.output, "output", "", "Write the JSON result object to `path` instead of stdout.")

	help := func(string) error {
		flag.CommandLine.SetOutput(os.Stdout)
		flag.Usage()
		os.Exit(0)
		return nil
	}
	flag.BoolFunc("h", "Print usage information and exit.", help)
	flag.BoolFunc("help", "Print usage information and exit.", help)

	flag.Parse()
	args := flag.Args()
	if len(args) != 2 {
		log.Fatal("exactly two positional arguments are required: intents_path topology_path")
	}
	cfg.intentsPath, cfg.topologyPath = args[0], args[1]
	return cfg
}

func loadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %q: %w", path, err)
	}
	return data, nil
}

// loadInputs reads and decodes the intents and topology files concurrently,
// since the two are independent until NewDriver needs both.
func loadInputs(ctx context.Context, cfg *config) (intent.Set, intent.Topology, error) {
	var is intent.Set
	var topo intent.Topology

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		data, err := loadFile(cfg.intentsPath)
		if err != nil {
			return err
		}
		decoded, err := intent.DecodeIntents(data)
		if err != nil {
			return fmt.Errorf("decoding %q: %w", cfg.intentsPath, err)
		}
		built, err := intent.NewSet(decoded)
		if err != nil {
			return fmt.Errorf("building intent set: %w", err)
		}
		is = built
		return nil
	})
	g.Go(func() error {
		data, err := loadFile(cfg.topologyPath)
		if err != nil {
			return err
		}
		decoded, err := intent.DecodeTopology(data)
		if err != nil {
			return fmt.Errorf("decoding %q: %w", cfg.topologyPath, err)
		}
		topo = decoded
		return nil
	})
	if err := g.Wait(); err != nil {
		return intent.Set{}, intent.Topology{}, err
	}
	return is, topo, nil
}

func run(ctx context.Context, cfg *config) (report.Result, error) {
	is, topo, err := loadInputs(ctx, cfg)
	if err != nil {
		return report.Result{}, err
	}

	d, err := netintent.NewDriver(is, topo, netintent.Config{
		Bias:       cfg.bias,
		MaxResults: cfg.maxResults,
		Timeout:    cfg.timeout,
		Log:        slog.Default(),
	})
	if err != nil {
		return report.Result{}, fmt.Errorf("building driver: %w", err)
	}

	b := report.NewBuilder(is, topo)
	for ev := range d.Run(ctx) {
		b.Add(ev)
	}
	return b.Build(d.Stats()), nil
}

// renderedLines turns a subset list into one comma-joined ID line per
// subset, built on the teacher's generic iterator helpers rather than a
// hand-rolled loop.
func renderedLines(subsets []report.Subset) iter.Seq[string] {
	return itertools.Map(slices.Values(subsets), func(s report.Subset) string {
		return strings.Join(s.IDs, ", ")
	})
}

func printSummary(result report.Result) {
	label := func(kind string, subsets []report.Subset) {
		fmt.Printf("%s (%d):\n", hicyanf(kind), len(subsets))
		for line := range renderedLines(subsets) {
			fmt.Printf("  %v\n", line)
		}
	}
	label("MUS", result.MUSes)
	label("MSS", result.MSSes)
	fmt.Printf("checked %d seeds (%d SAT, %d UNSAT); %d rejected, %d indeterminate\n",
		result.Stats.SeedsChecked, result.Stats.SeedsSAT, result.Stats.SeedsUNSAT,
		result.Stats.RejectedSeeds, result.Stats.Indeterminate)
}

func writeOutput(cfg *config, result report.Result) error {
	if cfg.output == "" {
		printSummary(result)
		return nil
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling result: %w", err)
	}
	if err := os.WriteFile(cfg.output, data, 0o644); err != nil {
		return fmt.Errorf("writing %q: %w", cfg.output, err)
	}
	return nil
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	cfg := parseFlags()

	result, err := run(ctx, cfg)
	if err != nil {
		if errors.Is(err, intent.ErrMalformed) || errors.Is(err, intent.ErrUnknownNode) {
			fmt.Fprintln(os.Stderr, hiredf("%v", err))
		} else {
			slog.ErrorContext(ctx, "analysis failed", "error", err)
		}
		os.Exit(1)
	}
	if err := writeOutput(cfg, result); err != nil {
		slog.ErrorContext(ctx, "failed", "error", err)
		os.Exit(1)
	}
}
