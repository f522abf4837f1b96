// Package config holds the process configuration of the cross engine.
package config

import (
	"flag"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap/zapcore"
)

const (
	DefaultInput    = "actions.txt"
	DefaultLogLevel = "info"

	defaultSegmentSize = 4 << 20
)

type Config struct {
	// Input is the action file, read when Stdin is false.
	Input string
	Stdin bool

	// JournalDir enables the action journal when set.
	JournalDir         string
	JournalSegmentSize int64
	JournalSync        bool

	// ReportsDir enables the execution report store when set.
	ReportsDir  string
	DumpReports bool

	// ReplayDir re-executes a journal instead of reading input.
	ReplayDir string

	MetricsAddr string
	LogLevel    string
}

func Default() Config {
	return Config{
		Input:              DefaultInput,
		JournalSegmentSize: defaultSegmentSize,
		LogLevel:           DefaultLogLevel,
	}
}

// RegisterFlags binds every field to fs, using the current values as
// defaults.
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.Input, "input", c.Input, "action file to read")
	fs.BoolVar(&c.Stdin, "stdin", c.Stdin, "read actions from standard input")
	fs.StringVar(&c.JournalDir, "journal", c.JournalDir, "append accepted actions to a journal in `dir`")
	fs.Int64Var(&c.JournalSegmentSize, "journal-segment-size", c.JournalSegmentSize, "journal segment rotation size in bytes")
	fs.BoolVar(&c.JournalSync, "journal-sync", c.JournalSync, "fsync the journal after every action")
	fs.StringVar(&c.ReportsDir, "reports", c.ReportsDir, "store execution reports in `dir`")
	fs.BoolVar(&c.DumpReports, "dump-reports", c.DumpReports, "print the stored reports and exit")
	fs.StringVar(&c.ReplayDir, "replay", c.ReplayDir, "replay the journal in `dir` and exit")
	fs.StringVar(&c.MetricsAddr, "metrics-addr", c.MetricsAddr, "serve prometheus metrics on `addr`")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level (debug, info, warn, error)")
}

func (c Config) Validate() error {
	if !c.Stdin && c.Input == "" && c.ReplayDir == "" && !c.DumpReports {
		return errors.New("config: no input file and -stdin not set")
	}
	if c.JournalSegmentSize <= 0 {
		return errors.Newf("config: journal segment size %d", c.JournalSegmentSize)
	}
	if c.DumpReports && c.ReportsDir == "" {
		return errors.New("config: -dump-reports needs -reports")
	}
	if c.ReplayDir != "" && c.ReplayDir == c.JournalDir {
		return errors.New("config: cannot journal into the journal being replayed")
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return errors.Wrapf(err, "config: log level %q", c.LogLevel)
	}
	return nil
}
