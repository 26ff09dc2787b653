package pipeline

import (
	"errors"
	"fmt"
	"slices"

	"texfix/internal/rewrite"
)

// ErrUnknownStage is returned by Config.Validate for a misspelled stage name.
var ErrUnknownStage = errors.New("unknown stage")

// Config selects the stages to run and the tables they use. The zero
// value runs every stage with the built-in tables.
type Config struct {
	Disabled     []string
	KeepComments bool
	KeepDollar   bool
	// Tables override the built-in tables; empty tables keep the default.
	Tables rewrite.Tables
}

// Validate reports disabled stage names that do not exist.
func (c Config) Validate() error {
	var errs []error
	for _, name := range c.Disabled {
		if !knownStage(name) {
			errs = append(errs, fmt.Errorf("%w: %q", ErrUnknownStage, name))
		}
	}
	return errors.Join(errs...)
}

// Enabled reports whether the named stage runs under c.
func (c Config) Enabled(name string) bool {
	if name == "comments" && c.KeepComments {
		return false
	}
	return !slices.Contains(c.Disabled, name)
}

// Env compiles the tables and switches of c for the rewrite passes.
func (c Config) Env() *rewrite.Env {
	env := rewrite.NewEnv(rewrite.DefaultTables().Merge(c.Tables))
	env.KeepDollar = c.KeepDollar
	return env
}
