// Command import builds a timetable dataset from a static GTFS feed.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"

	"ferrytimetable.org/internal/logging"
	"ferrytimetable.org/timetabledb"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) (err error) {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	gtfsPath := fs.String("gtfs", "", "Path to a static GTFS zip file")
	outPath := fs.String("out", "timetable.db", "Path of the dataset to write")
	force := fs.Bool("force", false, "Replace an existing dataset")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *gtfsPath == "" {
		return errors.New("-gtfs is required")
	}

	if _, statErr := os.Stat(*outPath); statErr == nil {
		if !*force {
			return fmt.Errorf("%s already exists, use -force to replace it", *outPath)
		}
		if err := os.Remove(*outPath); err != nil {
			return fmt.Errorf("remove existing dataset: %w", err)
		}
	}

	logger := logging.NewStructuredLogger(os.Stderr, slog.LevelInfo)

	builder, err := timetabledb.CreateDataset(ctx, *outPath, logger)
	if err != nil {
		return err
	}
	defer logging.HandleDeferredError(&err, builder.Close, logger, "close_dataset")

	counts, err := builder.ImportFromFile(ctx, *gtfsPath)
	if err != nil {
		return fmt.Errorf("import %s: %w", *gtfsPath, err)
	}

	tables := make([]string, 0, len(counts))
	for table := range counts {
		tables = append(tables, table)
	}
	sort.Strings(tables)
	for _, table := range tables {
		_, _ = fmt.Fprintf(out, "%-24s %d\n", table, counts[table])
	}
	return nil
}
