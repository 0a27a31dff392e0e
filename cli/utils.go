package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	formatJSON  = "json"
	formatYAML  = "yaml"
	formatTable = "table"
)

// tabular is implemented by outputs that can be printed as a table.
type tabular interface {
	tableHeader() table.Row
	tableRows() []table.Row
}

// printf prints a message with no prefix.
func printf(w io.Writer, format string, a ...interface{}) {
	//nolint:errcheck
	fmt.Fprintf(w, format+"\n", a...)
}

// warningf prints a message prefixed with a bold yellow "Warning: ".
func warningf(w io.Writer, format string, a ...interface{}) {
	if _, err := color.New(color.Bold, color.FgYellow).Fprint(w, "Warning: "); err != nil {
		return
	}
	printf(w, format, a...)
}

// parseFloats parses a comma or whitespace separated list of exactly n numbers.
func parseFloats(raw string, n int) ([]float64, error) {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
	if len(fields) != n {
		return nil, errors.Errorf("expected %d numbers, got %d in %q", n, len(fields), raw)
	}
	values := make([]float64, 0, n)
	for _, field := range fields {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid number %q", field)
		}
		values = append(values, v)
	}
	return values, nil
}

// render writes v as indented JSON, as YAML, or as a table when v is tabular. Values go through
// JSON first so that custom MarshalJSON methods shape the YAML output too.
func render(w io.Writer, format string, v interface{}) error {
	if format == formatTable {
		tab, ok := v.(tabular)
		if !ok {
			return errors.Errorf("this command does not support the %s format", formatTable)
		}
		t := table.NewWriter()
		t.SetStyle(table.StyleLight)
		t.AppendHeader(tab.tableHeader())
		t.AppendRows(tab.tableRows())
		printf(w, "%s", t.Render())
		return nil
	}
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	switch format {
	case "", formatJSON:
		printf(w, "%s", out)
		return nil
	case formatYAML:
		var generic interface{}
		if err := json.Unmarshal(out, &generic); err != nil {
			return err
		}
		yamlOut, err := yaml.Marshal(generic)
		if err != nil {
			return err
		}
		_, err = w.Write(yamlOut)
		return err
	default:
		return errors.Errorf("unknown output format %q, expected %s, %s or %s", format, formatJSON, formatYAML, formatTable)
	}
}
