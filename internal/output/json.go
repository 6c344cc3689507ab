package output

import (
	"encoding/json"

	"github.com/alertgate/alertgate/internal/core"
	"github.com/alertgate/alertgate/internal/core/gate"
)

// JSONFormatter renders results as JSON.
type JSONFormatter struct {
	Indent bool
}

// FormatHistory renders fire records as JSON.
func (f *JSONFormatter) FormatHistory(records []core.FireRecord) (string, error) {
	return f.marshal(records)
}

// FormatGates renders gate entries as JSON.
func (f *JSONFormatter) FormatGates(entries []gate.Entry) (string, error) {
	return f.marshal(entries)
}

func (f *JSONFormatter) marshal(value any) (string, error) {
	var (
		data []byte
		err  error
	)

	if f.Indent {
		data, err = json.MarshalIndent(value, "", "  ")
	} else {
		data, err = json.Marshal(value)
	}
	if err != nil {
		return "", err
	}

	return string(data), nil
}
