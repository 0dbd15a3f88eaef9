// Package config loads driver configuration from a TOML file (SPEC_FULL.md's
// Ambient Stack section), grounded on tqw.go's use of
// github.com/BurntSushi/toml for parsing structured metadata out of an
// on-disk file.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// LRType names which table-construction algorithm a Config requests.
// SPEC_FULL.md only wires up SLR(1) (internal/compile); the others are
// recognized so a config file written for a future build doesn't silently
// misparse, but selecting them makes Validate return an error.
type LRType string

const (
	LRSimple   LRType = "slr"
	LRLookahead LRType = "lalr"
	LRCanonical LRType = "clr"
)

// Config is the on-disk shape of a driver's settings.
type Config struct {
	// LRType selects the table-construction algorithm. Defaults to "slr".
	LRType LRType `toml:"lr_type"`

	// Whitespaces is hashed into the table cache key (compile.CacheKey);
	// compile.Build itself takes no whitespace setting.
	Whitespaces bool `toml:"whitespaces"`

	// IndentationBased enables the indentation engine (internal/incparser's
	// Config.IndentationBased).
	IndentationBased bool `toml:"indentation_based"`

	// CommentTokens lists terminal lookup tags that open a comment region
	// for the indentation engine's logical-line test.
	CommentTokens []string `toml:"comment_tokens"`

	// CacheDir is where compiled syntax tables are persisted
	// (internal/compile.CachePath). Empty disables caching.
	CacheDir string `toml:"cache_dir"`

	// GrammarFile is the path of a grammar source file, read as raw text by
	// ReadGrammarSource.
	GrammarFile string `toml:"grammar_file"`
}

// Default returns the zero Config with its documented defaults filled in.
func Default() Config {
	return Config{
		LRType: LRSimple,
	}
}

// Load reads and parses a TOML config file at path, filling unset fields
// with Default()'s values.
func Load(path string) (Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	if cfg.LRType == "" {
		cfg.LRType = LRSimple
	}
	return cfg, nil
}

// Validate returns an error if cfg has invalid or unsupported field values.
func (cfg Config) Validate() error {
	switch cfg.LRType {
	case LRSimple:
		// the only constructor this build actually implements
	case LRLookahead, LRCanonical:
		return fmt.Errorf("lr_type %q is recognized but not implemented by this build", cfg.LRType)
	default:
		return fmt.Errorf("unknown lr_type: %q", cfg.LRType)
	}
	if cfg.GrammarFile == "" {
		return fmt.Errorf("grammar_file not set")
	}
	return nil
}

// ReadGrammarSource reads the grammar file named by cfg.GrammarFile, for
// callers that need the raw text, e.g. as compile.CacheKey's input.
// compile.Build takes a *grammar.Grammar, not this text.
func (cfg Config) ReadGrammarSource() (string, error) {
	b, err := os.ReadFile(cfg.GrammarFile)
	if err != nil {
		return "", fmt.Errorf("read grammar file: %w", err)
	}
	return string(b), nil
}
