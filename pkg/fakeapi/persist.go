package fakeapi

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mandelsoft/vfs/pkg/vfs"
	"sigs.k8s.io/yaml"
)

// Save writes one yaml file per kind into dir.
func (s *Store) Save(fs vfs.FileSystem, dir string) error {
	err := fs.MkdirAll(dir, 0o700)
	if err != nil && !errors.Is(err, vfs.ErrExist) {
		return err
	}
	for _, k := range s.Kinds() {
		data, err := yaml.Marshal(s.List(k))
		if err != nil {
			return fmt.Errorf("cannot marshal %s: %w", k, err)
		}
		err = vfs.WriteFile(fs, filepath.Join(dir, k+".yaml"), data, 0o600)
		if err != nil {
			return fmt.Errorf("cannot write %s: %w", k, err)
		}
	}
	return nil
}

// Load reads the yaml files written by Save. A missing
// directory is treated as empty.
func (s *Store) Load(fs vfs.FileSystem, dir string) error {
	list, err := vfs.ReadDir(fs, dir)
	if err != nil {
		if errors.Is(err, vfs.ErrNotExist) {
			return nil
		}
		return err
	}
	for _, e := range list {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		kind := strings.TrimSuffix(e.Name(), ".yaml")
		data, err := vfs.ReadFile(fs, filepath.Join(dir, e.Name()))
		if err != nil {
			return err
		}
		var records []Record
		err = yaml.Unmarshal(data, &records)
		if err != nil {
			return fmt.Errorf("cannot unmarshal %s: %w", e.Name(), err)
		}
		for _, r := range records {
			if err := s.put(kind, r); err != nil {
				return err
			}
		}
		log.Debug("loaded {{amount}} {{kind}}", "amount", len(records), "kind", kind)
	}
	return nil
}
