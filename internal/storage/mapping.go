package storage

import (
	"encoding/json"
	"fmt"
	"os"
)

// LoadMapping reads the filename to owner-key mapping that drives batch
// processing. The file is a flat JSON object: {"JANE_DOE.pdf": "E1042"}.
func LoadMapping(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read mapping %s: %w", path, err)
	}

	mapping := make(map[string]string)
	if err := json.Unmarshal(data, &mapping); err != nil {
		return nil, fmt.Errorf("failed to parse mapping %s: %w", path, err)
	}
	return mapping, nil
}
