package output

import (
	"fmt"
	"io"
	"os"

	jsoniter "github.com/json-iterator/go"
	"github.com/mj1618/novawin-cli/internal/model"
	"gopkg.in/yaml.v3"
)

// jsonAPI matches encoding/json output, including sorted map keys.
var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// Format represents the output format.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// OutputFormat is the current output format, set by the root command's --format flag.
var OutputFormat Format = FormatYAML

// PrettyOutput enables pretty-printing for JSON output.
var PrettyOutput bool

// Stdout is where results are written. Tests swap it for a buffer.
var Stdout io.Writer = os.Stdout

// ParseFormat validates a --format value.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatYAML, FormatJSON:
		return Format(s), nil
	case "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unsupported output format: %s (expected yaml or json)", s)
}

// ReadResult is the top-level output of the `read` command.
type ReadResult struct {
	Session  string          `yaml:"session,omitempty" json:"session,omitempty"`
	Root     string          `yaml:"root,omitempty"    json:"root,omitempty"`
	Window   string          `yaml:"window,omitempty"  json:"window,omitempty"`
	TS       int64           `yaml:"ts"                json:"ts"`
	Elements []model.Element `yaml:"elements"          json:"elements"`
}

// ReadFlatResult is the top-level output when --flat is used.
type ReadFlatResult struct {
	Session  string              `yaml:"session,omitempty" json:"session,omitempty"`
	Root     string              `yaml:"root,omitempty"    json:"root,omitempty"`
	Window   string              `yaml:"window,omitempty"  json:"window,omitempty"`
	TS       int64               `yaml:"ts"                json:"ts"`
	Elements []model.FlatElement `yaml:"elements"          json:"elements"`
}

// Print serializes v to Stdout in the current output format.
func Print(v interface{}) error {
	return Fprint(Stdout, v)
}

// Fprint serializes v to w in the current output format.
func Fprint(w io.Writer, v interface{}) error {
	switch OutputFormat {
	case FormatJSON:
		return writeJSON(w, v, PrettyOutput)
	case FormatYAML:
		return writeYAML(w, v)
	default:
		return fmt.Errorf("unsupported output format: %s", OutputFormat)
	}
}

// PrintJSON serializes v to Stdout as compact single-line JSON.
func PrintJSON(v interface{}) error { return writeJSON(Stdout, v, false) }

// PrintPrettyJSON serializes v to Stdout as indented JSON.
func PrintPrettyJSON(v interface{}) error { return writeJSON(Stdout, v, true) }

// PrintYAML serializes v to Stdout as YAML.
func PrintYAML(v interface{}) error { return writeYAML(Stdout, v) }

func writeJSON(w io.Writer, v interface{}, pretty bool) error {
	enc := jsonAPI.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("json encode: %w", err)
	}
	return nil
}

func writeYAML(w io.Writer, v interface{}) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("yaml encode: %w", err)
	}
	return enc.Close()
}
