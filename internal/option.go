package internal

import (
	"io"
	"time"
)

// Modes select what Run does.
const (
	ModeGenerate = "generate"
	ModeWatch    = "watch"
	ModeServe    = "serve"
	ModeMCP      = "mcp"
	ModePublish  = "publish"
	ModeImport   = "import"
)

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config       *Config
	mode         string
	commandsOnly bool
	indexOnly    bool
	importFile   string
	logOutput    io.Writer
	clock        func() time.Time
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithMode selects the command to run. The default is ModeGenerate.
func WithMode(mode string) Option {
	return func(a *application) {
		a.mode = mode
	}
}

// WithTargets restricts generation to entry documents or to the index.
func WithTargets(commandsOnly, indexOnly bool) Option {
	return func(a *application) {
		a.commandsOnly = commandsOnly
		a.indexOnly = indexOnly
	}
}

// WithImportFile sets the YAML file read by ModeImport.
func WithImportFile(path string) Option {
	return func(a *application) {
		a.importFile = path
	}
}

// WithLogOutput redirects the JSON logger. ModeMCP logs to stderr by default
// because stdout carries the protocol.
func WithLogOutput(w io.Writer) Option {
	return func(a *application) {
		a.logOutput = w
	}
}

// WithClock sets the clock used for generation timestamps.
func WithClock(clock func() time.Time) Option {
	return func(a *application) {
		a.clock = clock
	}
}
