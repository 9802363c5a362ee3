package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/zap"

	"github.com/eugenenazirov/knap/internal/config"
	"github.com/eugenenazirov/knap/internal/logging"
	"github.com/eugenenazirov/knap/internal/solver"
	"github.com/eugenenazirov/knap/internal/storage"
)

const strategyBoth = "both"

type options struct {
	capacity    int
	catalogPath string
	itemsStr    string
	strategy    string
	maxCapacity int
}

func main() {
	logger, err := logging.New("knap", logging.WithConsole(), logging.WithLevel("warn"))
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer func() {
		_ = logger.Sync()
	}()

	if err := run(os.Args[1:], os.Stdout); err != nil {
		logger.Error("knap failed", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}

func parseArgs(args []string) (options, error) {
	var opts options

	app := kingpin.New("knap", "Prints the optimal and greedy 0/1 knapsack selections for an item catalog")
	app.Flag("capacity", "Knapsack capacity").Required().IntVar(&opts.capacity)
	app.Flag("catalog", "YAML file with an items list of {id, weight, value}").StringVar(&opts.catalogPath)
	app.Flag("items", "Comma-separated catalog as id:weight:value").StringVar(&opts.itemsStr)
	app.Flag("strategy", "optimal, greedy or both").Default(strategyBoth).EnumVar(&opts.strategy,
		string(solver.StrategyOptimal), string(solver.StrategyGreedy), strategyBoth)
	app.Flag("max-capacity", "Largest capacity accepted").Default("0").IntVar(&opts.maxCapacity)

	if _, err := app.Parse(args); err != nil {
		return options{}, err
	}
	if opts.catalogPath != "" && opts.itemsStr != "" {
		return options{}, fmt.Errorf("--catalog and --items are mutually exclusive")
	}
	return opts, nil
}

func loadItems(opts options) ([]storage.Item, error) {
	switch {
	case opts.catalogPath != "":
		return config.LoadCatalog(opts.catalogPath)
	case opts.itemsStr != "":
		items, err := config.ParseItems(opts.itemsStr)
		if err != nil {
			return nil, fmt.Errorf("parse items: %w", err)
		}
		if err := storage.ValidateItems(items); err != nil {
			return nil, err
		}
		return items, nil
	default:
		return storage.DefaultItems(), nil
	}
}

func run(args []string, out io.Writer) error {
	opts, err := parseArgs(args)
	if err != nil {
		return err
	}

	items, err := loadItems(opts)
	if err != nil {
		return err
	}

	s := solver.New(solver.WithMaxCapacity(opts.maxCapacity))

	if opts.strategy == strategyBoth {
		cmp, err := s.Compare(items, opts.capacity)
		if err != nil {
			return err
		}
		if err := printResult(out, cmp.Optimal); err != nil {
			return err
		}
		if err := printResult(out, cmp.Greedy); err != nil {
			return err
		}
		_, err = fmt.Fprintf(out, "gap: %d\n", cmp.Gap)
		return err
	}

	result, err := s.Solve(items, opts.capacity, solver.Strategy(opts.strategy))
	if err != nil {
		return err
	}
	return printResult(out, result)
}

func printResult(out io.Writer, result solver.Result) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "%s (capacity %d)\n", result.Strategy, result.Capacity)
	fmt.Fprintln(tw, "  id\tweight\tvalue")
	for _, it := range result.Items {
		fmt.Fprintf(tw, "  %s\t%d\t%d\n", it.ID, it.Size, it.Worth)
	}
	fmt.Fprintf(tw, "  total\t%d\t%d\n", result.TotalWeight, result.TotalValue)
	return tw.Flush()
}
