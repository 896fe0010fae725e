package internal

import "io"

// Mode selects what Run does after the initial setup.
type Mode string

// Run modes.
const (
	// ModeBuild builds once and exits.
	ModeBuild Mode = "build"
	// ModeWatch builds, then rebuilds whenever sources change.
	ModeWatch Mode = "watch"
	// ModeServe watches and serves the output over HTTP.
	ModeServe Mode = "serve"
	// ModeMCP builds once and serves the catalog over MCP stdio.
	ModeMCP Mode = "mcp"
)

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config *Config
	mode   Mode
	stdout io.Writer
	stderr io.Writer
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithMode sets the run mode. The default is ModeBuild.
func WithMode(m Mode) Option {
	return func(a *application) {
		a.mode = m
	}
}

// WithOutput redirects the build summary (stdout) and logs (stderr).
func WithOutput(stdout, stderr io.Writer) Option {
	return func(a *application) {
		if stdout != nil {
			a.stdout = stdout
		}
		if stderr != nil {
			a.stderr = stderr
		}
	}
}
