package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// LoadDir reads a fixture directory holding one <collection>.json file per
// collection, each an object keyed by record id. Missing files leave their
// collection empty.
func LoadDir(dir string) (*Dataset, error) {
	d := NewDataset()
	collections := d.collections()
	for _, name := range collectionNames {
		data, err := os.ReadFile(filepath.Join(dir, name+".json"))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", name, err)
		}
		if err := collections[name].UnmarshalJSON(data); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", name, err)
		}
	}
	return d, nil
}
