package utils

import (
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"golang.org/x/xerrors"
)

type Fs struct {
	AppFs afero.Fs
}

func NewFs(appFs afero.Fs) Fs {
	return Fs{AppFs: appFs}
}

// WriteFile creates filePath, including missing parent directories, and
// hands the open file to write.
func (fs Fs) WriteFile(filePath string, write func(w io.Writer) error) error {
	if dir := filepath.Dir(filePath); dir != "." {
		if err := fs.AppFs.MkdirAll(dir, os.ModePerm); err != nil {
			return xerrors.Errorf("failed to mkdir: %w", err)
		}
	}

	f, err := fs.AppFs.Create(filePath)
	if err != nil {
		return xerrors.Errorf("unable to open a file: %w", err)
	}
	defer f.Close()

	if err = write(f); err != nil {
		return xerrors.Errorf("failed to save a file: %w", err)
	}
	return nil
}

func (fs Fs) ReadFile(filePath string) ([]byte, error) {
	b, err := afero.ReadFile(fs.AppFs, filePath)
	if err != nil {
		return nil, xerrors.Errorf("unable to read a file: %w", err)
	}
	return b, nil
}
