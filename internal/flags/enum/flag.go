// Package enum provides a pflag value restricted to a fixed set of options.
package enum

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/pflag"
)

// Flag is a string flag that only accepts one of its options.
// The first option is the default.
type Flag struct {
	value   string
	options []string
}

// New creates a Flag. It panics when no option is given.
func New(options ...string) *Flag {
	if len(options) == 0 {
		panic("enum flag requires at least one option")
	}
	return &Flag{value: options[0], options: options}
}

// String returns the current value.
func (f *Flag) String() string {
	return f.value
}

// Set accepts value when it is one of the options.
func (f *Flag) Set(value string) error {
	if !slices.Contains(f.options, value) {
		return fmt.Errorf("must be one of %s", strings.Join(f.options, ", "))
	}
	f.value = value
	return nil
}

// Type is shown in usage output.
func (f *Flag) Type() string {
	return "enum"
}

// Var registers an enum flag named name on flags.
func Var(flags *pflag.FlagSet, name string, options []string, usage string) {
	flags.Var(New(options...), name, fmt.Sprintf("%s (one of %s)", usage, strings.Join(options, ", ")))
}

// Get returns the value of the enum flag named name.
func Get(flags *pflag.FlagSet, name string) (string, error) {
	flag := flags.Lookup(name)
	if flag == nil {
		return "", fmt.Errorf("flag %q not found", name)
	}
	value, ok := flag.Value.(*Flag)
	if !ok {
		return "", fmt.Errorf("flag %q is not an enum flag", name)
	}
	return value.String(), nil
}
