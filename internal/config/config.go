// Package config loads phpflow.toml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"golang.org/x/text/cases"
)

// FileName is the configuration file looked up by Find.
const FileName = "phpflow.toml"

// Config is the effective configuration of one run.
type Config struct {
	Analysis Analysis `toml:"analysis"`
	Output   Output   `toml:"output"`
	Frontend Frontend `toml:"frontend"`
	Run      Run      `toml:"run"`
	// Path is the file the values came from, empty for defaults.
	Path string `toml:"-"`
}

type Analysis struct {
	Undefined       bool     `toml:"undefined"`
	DeadCode        bool     `toml:"deadcode"`
	MaybeUndefined  bool     `toml:"maybe_undefined"`
	IgnoreVariables []string `toml:"ignore_variables"`
}

type Output struct {
	Format         string `toml:"format"`
	MaxDiagnostics int    `toml:"max_diagnostics"`
}

type Frontend struct {
	// Command turns a .php file into a nikic/php-parser JSON dump on stdout.
	// "{}" is replaced by the path; without it the path is appended.
	Command []string `toml:"command"`
}

type Run struct {
	Jobs  int  `toml:"jobs"`
	Cache bool `toml:"cache"`
}

// Formats accepted by Output.Format.
var Formats = []string{"pretty", "short", "json"}

// Default variables never reported as undefined: $this and the superglobals.
var defaultIgnored = []string{
	"this", "GLOBALS", "_SERVER", "_GET", "_POST", "_FILES",
	"_COOKIE", "_SESSION", "_REQUEST", "_ENV", "http_response_header", "argc", "argv",
}

// Default returns the configuration used when no file is found.
func Default() Config {
	return Config{
		Analysis: Analysis{
			Undefined:       true,
			DeadCode:        true,
			MaybeUndefined:  true,
			IgnoreVariables: slices.Clone(defaultIgnored),
		},
		Output: Output{Format: "pretty", MaxDiagnostics: 200},
		Run:    Run{Cache: true},
	}
}

var (
	// ErrUnknownFormat reports an output format outside Formats.
	ErrUnknownFormat = errors.New("unknown output format")
	// ErrNegative reports a negative count.
	ErrNegative = errors.New("must not be negative")
	// ErrEmptyCommand reports `command = []` written out explicitly.
	ErrEmptyCommand = errors.New("frontend.command is empty")
)

// Find walks up from startDir to locate phpflow.toml.
func Find(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("config: failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("config: failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load reads path over Default. Keys absent from the file keep their
// default value.
func Load(path string) (Config, error) {
	c := Default()
	meta, err := toml.DecodeFile(path, &c)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("%s: unknown key %s", path, undecoded[0])
	}
	if meta.IsDefined("frontend", "command") && len(c.Frontend.Command) == 0 {
		return Config{}, fmt.Errorf("%s: %w", path, ErrEmptyCommand)
	}
	c.Path = path
	if err := c.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Discover loads the nearest phpflow.toml above startDir, or Default.
func Discover(startDir string) (Config, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}

// Validate normalises Output.Format and checks numeric limits.
func (c *Config) Validate() error {
	format, err := FoldFormat(c.Output.Format)
	if err != nil {
		return err
	}
	c.Output.Format = format
	if c.Output.MaxDiagnostics < 0 {
		return fmt.Errorf("output.max_diagnostics %w", ErrNegative)
	}
	if c.Run.Jobs < 0 {
		return fmt.Errorf("run.jobs %w", ErrNegative)
	}
	return nil
}

// FoldFormat maps any casing of a known format to its canonical name.
func FoldFormat(s string) (string, error) {
	folded := cases.Fold().String(strings.TrimSpace(s))
	for _, f := range Formats {
		if folded == f {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w %q (expected: %s)", ErrUnknownFormat, s, strings.Join(Formats, "|"))
}

// Ignored reports whether reads of name are never reported.
func (a Analysis) Ignored(name string) bool {
	return slices.Contains(a.IgnoreVariables, name)
}
