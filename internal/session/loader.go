package session

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/qhwu/CN-Trade-Sessions/internal/textfile"
)

// LoadFile reads a sessions YAML file and parses it into wire specs keyed
// by session id. Encoding is detected by textfile, so GB18030 and
// BOM-prefixed files load the same as plain UTF-8.
func LoadFile(path string) (map[string]Spec, error) {
	b, err := textfile.ReadFile(path)
	if err != nil {
		return nil, err
	}
	specs, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return specs, nil
}

// Parse unmarshals a sessions document: a mapping from session id to its
// definition.
func Parse(b []byte) (map[string]Spec, error) {
	var specs map[string]Spec
	if err := yaml.Unmarshal(b, &specs); err != nil {
		return nil, fmt.Errorf("parse sessions: %w", err)
	}
	if len(specs) == 0 {
		return nil, fmt.Errorf("parse sessions: no sessions defined")
	}
	return specs, nil
}
