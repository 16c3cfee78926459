package io

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// OutputTo writes each file under dir, creating intermediate directories as
// needed. Write failures are propagated unchanged; no partial cleanup is
// attempted.
func OutputTo(files []File, dir string) error {
	for _, f := range files {
		path := filepath.Join(dir, f.Path())
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return errors.Wrapf(err, "could not create directory for %s", f.Path())
		}
		out, err := os.Create(path)
		if err != nil {
			return errors.Wrapf(err, "could not create file %s", f.Path())
		}
		_, err = f.WriteTo(out)
		closeErr := out.Close()
		if err != nil {
			return errors.Wrapf(err, "could not write file %s", f.Path())
		}
		if closeErr != nil {
			return closeErr
		}
	}
	return nil
}
