package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"cross/config"
	"cross/infra/logging"
	"cross/infra/metrics"
	entrywal "cross/infra/wal/entry"
	exitwal "cross/infra/wal/exit"
	"cross/service"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "cross:", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout io.Writer) error {
	// ---------------- Config ----------------

	cfg := config.Default()
	fs := flag.NewFlagSet("cross", flag.ContinueOnError)
	cfg.RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	// ---------------- Logging ----------------

	log, err := logging.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := []service.Option{service.WithLogger(log)}

	// ---------------- Report store ----------------

	var reports *exitwal.Store
	if cfg.ReportsDir != "" {
		reports, err = exitwal.Open(cfg.ReportsDir, exitwal.Options{Sync: cfg.JournalSync})
		if err != nil {
			return err
		}
		defer reports.Close()
		opts = append(opts, service.WithReports(reports))
	}

	if cfg.DumpReports {
		return reports.Scan(func(r exitwal.Report) error {
			_, err := fmt.Fprintf(stdout, "# %d\n%s", r.Seq, joinLines(r.Lines))
			return err
		})
	}

	// ---------------- Metrics ----------------

	if cfg.MetricsAddr != "" {
		m := metrics.New()
		opts = append(opts, service.WithMetrics(m))
		go func() {
			if err := m.Serve(ctx, cfg.MetricsAddr); err != nil {
				log.Error("metrics listener stopped", zap.Error(err))
			}
		}()
		log.Info("metrics enabled", zap.String("addr", cfg.MetricsAddr))
	}

	// ---------------- Replay ----------------

	if cfg.ReplayDir != "" {
		c := service.New(opts...)
		var werr error
		_, err := service.ReplayJournal(cfg.ReplayDir, c, func(_ uint64, out []string) {
			if werr == nil {
				_, werr = io.WriteString(stdout, joinLines(out))
			}
		})
		if err != nil {
			return err
		}
		return werr
	}

	// ---------------- Journal ----------------

	if cfg.JournalDir != "" {
		journal, err := entrywal.Open(entrywal.Config{
			Dir:            cfg.JournalDir,
			SegmentSize:    cfg.JournalSegmentSize,
			SyncEachAppend: cfg.JournalSync,
		})
		if err != nil {
			return err
		}
		defer journal.Close()
		opts = append(opts, service.WithJournal(journal))
		log.Info("journal enabled", zap.String("dir", cfg.JournalDir), zap.Uint64("last_seq", journal.LastSeq()))
	}

	// ---------------- Input ----------------

	in := stdin
	if !cfg.Stdin {
		f, err := os.Open(cfg.Input)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	return service.New(opts...).Run(in, stdout)
}

func joinLines(out []string) string {
	if len(out) == 0 {
		return ""
	}
	return strings.Join(out, "\n") + "\n"
}
