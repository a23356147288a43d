package secrets

import (
	"fmt"
	"os"
	"strings"
)

// Source names a secret and says where to read it: from a file path or an
// inline value. A file path wins over an inline value.
type Source struct {
	// Name shows up in error messages (e.g. "apollo api key").
	Name string
	// Value is an inline secret from configuration or flags.
	Value string
	// File is a path to a file holding the secret.
	File string
}

// Load resolves the secret, trimmed of surrounding whitespace. Key files
// usually end with a newline, so trimming is unconditional.
func Load(src Source) (string, error) {
	name := strings.TrimSpace(src.Name)
	if name == "" {
		name = "secret"
	}

	value := src.Value
	fromFile := strings.TrimSpace(src.File)
	if fromFile != "" {
		data, err := os.ReadFile(fromFile)
		if err != nil {
			return "", fmt.Errorf("load %s from %q: %w", name, fromFile, err)
		}
		value = string(data)
	}

	secret := strings.TrimSpace(value)
	if secret == "" {
		if fromFile != "" {
			return "", fmt.Errorf("%s file %q holds no value", name, fromFile)
		}
		return "", fmt.Errorf("%s is not configured", name)
	}

	return secret, nil
}
