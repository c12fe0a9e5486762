package pipeline

import (
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/stackmixer/pkg/errors"
)

// =============================================================================
// Configuration Files
// =============================================================================

// LoadConfig reads options from a TOML file. Unknown keys are rejected so
// that typos do not silently fall back to defaults.
func LoadConfig(path string) (Options, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return Options{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
		}
		return Options{}, errors.Wrap(errors.ErrCodeInvalidPath, err, "config %s", path)
	}
	var o Options
	md, err := toml.DecodeFile(path, &o)
	if err != nil {
		return Options{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Options{}, errors.New(errors.ErrCodeInvalidConfig, "config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return o, nil
}

// WriteConfig encodes o as TOML.
func WriteConfig(w io.Writer, o Options) error {
	return toml.NewEncoder(w).Encode(o)
}
