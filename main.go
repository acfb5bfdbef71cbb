package main

import (
	"fmt"
	"os"

	"github.com/GiGurra/boa/pkg/boa"
	log "github.com/sirupsen/logrus"

	"github.com/dkovalev/subtrack/internal"
)

type Params struct {
	File         string `descr:"Statement file to import ('-' for stdin, 'xlsx:' prefix selects the xlsx source)" positional:"true" optional:"true"`
	Source       string `descr:"Statement source type" alts:"text,xlsx" default:"text"`
	Store        string `descr:"Path to the subscription store (JSON file)" optional:"true"`
	Group        string `descr:"Grouping label for newly imported subscriptions (default: mine)" optional:"true"`
	Category     string `descr:"Category for newly imported subscriptions" optional:"true"`
	FallbackYear int    `descr:"Year assumed for statement dates without an explicit year (default: current year)" optional:"true"`
	Output       string `descr:"Output format" alts:"table,json" default:"table"`
	Config       string `descr:"Path to the config file (default: ~/.subtrack/config.yaml)" optional:"true"`
	Apply        bool   `descr:"Merge the candidates into the store instead of only listing them"`
	List         bool   `descr:"List stored subscriptions with overdue billing dates rolled forward"`
	Verbose      bool   `descr:"Enable debug logging"`
}

func main() {
	boa.NewCmdT[Params]("subtrack").
		WithShort("Track recurring subscriptions and import them from bank statements").
		WithLong("Parses noisy bank statement text (pasted or OCR output) into transactions, " +
			"clusters recurring merchants into subscription candidates with an inferred billing " +
			"cycle, and merges accepted candidates into a persistent subscription list.").
		WithRunFunc(run).
		Run()
}

func run(params *Params) {
	log.SetOutput(os.Stderr)
	log.SetLevel(log.InfoLevel)
	if params.Verbose {
		log.SetLevel(log.DebugLevel)
	}

	cfg := loadConfig(params.Config)
	h := cfg.EffectiveHeuristics()
	today := internal.Today()

	if params.List {
		listStore(params, cfg, today)
		return
	}

	if params.File == "" {
		fmt.Fprintln(os.Stderr, "Error: no statement file given (use --list to show the store)")
		os.Exit(1)
	}

	sourceName, path := internal.ParseFileArg(params.File)
	if sourceName == "" {
		sourceName = params.Source
	}
	source, err := internal.GetSource(sourceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	session, err := source.Load(path, params.FallbackYear, h)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading statement: %v\n", err)
		os.Exit(1)
	}

	printSession(params, session)

	if params.Apply {
		applyImport(params, session, cfg)
	}
}

func loadConfig(path string) *internal.Config {
	explicit := path != ""
	if !explicit {
		path = internal.DefaultConfigPath()
	}
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		// A missing default config just means defaults; a missing named
		// config is a user error.
		if explicit {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		return nil
	}
	cfg, err := internal.LoadConfig(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

func printSession(params *Params, session *internal.ImportSession) {
	if params.Output == "json" {
		if err := internal.PrintCandidatesJSON(os.Stdout, session); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
			os.Exit(1)
		}
		return
	}
	internal.PrintCandidatesTable(os.Stdout, session)
}

func applyImport(params *Params, session *internal.ImportSession, cfg *internal.Config) {
	if params.Store == "" {
		fmt.Fprintln(os.Stderr, "Error: --apply requires --store")
		os.Exit(1)
	}

	group := params.Group
	category := params.Category
	if group == "" && cfg != nil {
		group = cfg.DefaultGroup
	}
	if group == "" {
		group = "mine"
	}
	if category == "" && cfg != nil {
		category = cfg.DefaultCategory
	}

	subs, err := internal.LoadStore(params.Store)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading store: %v\n", err)
		os.Exit(1)
	}

	merged := internal.MergeCandidates(subs, session.Candidates, group, category)
	if err := internal.SaveStore(params.Store, merged); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving store: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\nMerged %d candidates into %s (%d subscriptions total)\n",
		len(session.Candidates), params.Store, len(merged))
}

func listStore(params *Params, cfg *internal.Config, today string) {
	if params.Store == "" {
		fmt.Fprintln(os.Stderr, "Error: --list requires --store")
		os.Exit(1)
	}

	subs, err := internal.LoadStore(params.Store)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading store: %v\n", err)
		os.Exit(1)
	}

	if advanced := internal.RollForwardAll(subs, today); advanced > 0 {
		log.WithField("count", advanced).Debug("rolled overdue subscriptions forward")
		if err := internal.SaveStore(params.Store, subs); err != nil {
			fmt.Fprintf(os.Stderr, "Error saving store: %v\n", err)
			os.Exit(1)
		}
	}

	if params.Output == "json" {
		if err := internal.PrintSubscriptionsJSON(os.Stdout, subs, today); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
			os.Exit(1)
		}
		return
	}
	internal.PrintSubscriptionsTable(os.Stdout, subs, cfg, today)
}
