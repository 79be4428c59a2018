package output

import (
	"encoding/json"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/filinglens/filinglens/internal/edgar"
)

// YAMLFormatter renders envelopes as YAML.
type YAMLFormatter struct{}

// FormatEnvelope renders an envelope as YAML. The envelope is passed
// through its JSON form first so that raw JSON payloads and the json
// struct tags shape the output.
func (f *YAMLFormatter) FormatEnvelope(env *edgar.Envelope) (string, error) {
	if env == nil {
		return "", nil
	}

	encoded, err := json.Marshal(env)
	if err != nil {
		return "", err
	}

	var plain any
	if err := json.Unmarshal(encoded, &plain); err != nil {
		return "", err
	}

	data, err := yaml.Marshal(plain)
	if err != nil {
		return "", err
	}

	return strings.TrimRight(string(data), "\n"), nil
}
