package output

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v2"
)

const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Print writes v to w in the requested format. YAML output is derived from
// the JSON form so field names match the api.
func Print(w io.Writer, format string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}

	switch format {
	case FormatJSON:
		_, err = fmt.Fprintln(w, string(data))

		return err
	case FormatYAML:
		var generic yaml.MapSlice
		if err := yaml.Unmarshal(data, &generic); err != nil {
			return fmt.Errorf("converting output to yaml: %w", err)
		}

		out, err := yaml.Marshal(generic)
		if err != nil {
			return fmt.Errorf("encoding yaml output: %w", err)
		}

		_, err = w.Write(out)

		return err
	}

	return fmt.Errorf("output format %s is invalid", format)
}
