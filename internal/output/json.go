package output

import (
	"encoding/json"

	"github.com/filinglens/filinglens/internal/edgar"
)

// JSONFormatter renders envelopes as JSON.
type JSONFormatter struct {
	Indent bool
}

// FormatEnvelope renders an envelope as JSON.
func (f *JSONFormatter) FormatEnvelope(env *edgar.Envelope) (string, error) {
	if env == nil {
		return "", nil
	}

	var (
		data []byte
		err  error
	)

	if f.Indent {
		data, err = json.MarshalIndent(env, "", "  ")
	} else {
		data, err = json.Marshal(env)
	}
	if err != nil {
		return "", err
	}

	return string(data), nil
}
