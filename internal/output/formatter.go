package output

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// Formatter renders a report into bytes.
type Formatter interface {
	Name() string
	Format(r *Report) ([]byte, error)
}

// FormatterFunc adapts a function to the Formatter interface.
type FormatterFunc struct {
	ID string
	F  func(r *Report) ([]byte, error)
}

func (f FormatterFunc) Name() string                     { return f.ID }
func (f FormatterFunc) Format(r *Report) ([]byte, error) { return f.F(r) }

var formatters = map[string]Formatter{
	"console": ConsoleFormatter{},
	"json":    JSONFormatter{Pretty: true},
	"csv":     CSVFormatter{},
	"html":    HTMLFormatter{},
	"json-compact": FormatterFunc{
		ID: "json-compact",
		F:  JSONFormatter{}.Format,
	},
}

var aliases = map[string]string{
	"table":   "console",
	"text":    "console",
	"verbose": "console",
}

// AvailableFormatterNames lists the registered formatter names, sorted.
func AvailableFormatterNames() []string {
	names := make([]string, 0, len(formatters))
	for name := range formatters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AvailableFormatAliases returns a copy of the alias table.
func AvailableFormatAliases() map[string]string {
	out := make(map[string]string, len(aliases))
	for k, v := range aliases {
		out[k] = v
	}
	return out
}

// GetFormatterByName resolves a formatter by name or alias. It returns nil
// for unknown names.
func GetFormatterByName(name string) Formatter {
	name = strings.ToLower(strings.TrimSpace(name))
	if target, ok := aliases[name]; ok {
		name = target
	}
	return formatters[name]
}

// Write formats r with the named formatter and writes it to w.
func Write(w io.Writer, format string, r *Report) error {
	f := GetFormatterByName(format)
	if f == nil {
		return fmt.Errorf("unsupported format: %s (available: %s)", format, strings.Join(AvailableFormatterNames(), ", "))
	}
	data, err := f.Format(r)
	if err != nil {
		return fmt.Errorf("format %s: %w", f.Name(), err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
