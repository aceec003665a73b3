// Package archive unpacks downloaded artifacts into the addon container of a staging area.
package archive

import (
	"fmt"
	"io"
	"io/fs"
	"path"

	"github.com/klauspost/compress/zip"

	"github.com/k0psutin/gdm-sub000/internal/application/ports"
	"github.com/k0psutin/gdm-sub000/internal/core/layout"
)

// Extractor writes archive entries below a destination directory, remapping
// every entry onto the addon container.
type Extractor struct {
	fs     ports.FileSystem
	marker string
}

// NewExtractor creates an Extractor. marker is the container name searched
// for inside entry paths, usually "addons".
func NewExtractor(fsys ports.FileSystem, marker string) *Extractor {
	if marker == "" {
		marker = layout.DefaultContainer
	}
	return &Extractor{fs: fsys, marker: marker}
}

// ExtractZip unpacks the zip file at archivePath into dest and returns the
// number of files written. Entries that do not map below dest are skipped.
func (e *Extractor) ExtractZip(archivePath, dest string) (int, error) {
	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		return 0, fmt.Errorf("failed to open archive %s: %w", archivePath, err)
	}
	defer reader.Close()

	written := 0
	for _, file := range reader.File {
		isDir := file.FileInfo().IsDir()
		target, ok := layout.Remap(dest, e.marker, file.Name, isDir)
		if !ok {
			continue
		}

		if isDir {
			if err := e.fs.MkdirAll(target); err != nil {
				return written, err
			}
			continue
		}

		src, err := file.Open()
		if err != nil {
			return written, fmt.Errorf("failed to open archive entry %s: %w", file.Name, err)
		}
		err = e.writeFile(target, src)
		src.Close()
		if err != nil {
			return written, err
		}
		written++
	}
	return written, nil
}

// CopyFS writes every regular file of fsys into dest using the same remap as
// ExtractZip, and returns the number of files written.
func (e *Extractor) CopyFS(fsys fs.FS, dest string) (int, error) {
	written := 0
	err := fs.WalkDir(fsys, ".", func(name string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if name == "." {
			return nil
		}
		if !d.IsDir() && !d.Type().IsRegular() {
			return nil
		}

		target, ok := layout.Remap(dest, e.marker, name, d.IsDir())
		if !ok {
			return nil
		}
		if d.IsDir() {
			return e.fs.MkdirAll(target)
		}

		src, err := fsys.Open(name)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", path.Clean(name), err)
		}
		defer src.Close()
		if err := e.writeFile(target, src); err != nil {
			return err
		}
		written++
		return nil
	})
	return written, err
}

func (e *Extractor) writeFile(target string, src io.Reader) error {
	dst, err := e.fs.Create(target)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return fmt.Errorf("failed to write %s: %w", target, err)
	}
	if err := dst.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", target, err)
	}
	return nil
}
