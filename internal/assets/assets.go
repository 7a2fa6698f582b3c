// Package assets provides the in-memory bundle of mesh and texture files a
// robot description resolves its references against.
package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotFound is returned when no bundle entry matches a reference.
var ErrNotFound = errors.New("asset not found")

// Entry is a single named file in a bundle.
type Entry struct {
	Name string
	Data []byte
}

// Bundle is an ordered collection of named binary files. Entries are
// read-only once added; resolution order follows insertion order.
type Bundle struct {
	entries []Entry
}

// NewBundle creates an empty bundle.
func NewBundle() *Bundle {
	return &Bundle{}
}

// Add appends an entry. Names are normalized to forward slashes so lookups
// behave the same regardless of the platform the bundle was built on.
func (b *Bundle) Add(name string, data []byte) {
	b.entries = append(b.entries, Entry{Name: normalize(name), Data: data})
}

// Len returns the number of entries.
func (b *Bundle) Len() int {
	return len(b.entries)
}

// Resolve returns the content of the first entry whose name ends with the
// given reference path. Description documents commonly reference meshes with
// package-style prefixes ("package://robot/meshes/arm.stl"), so a suffix
// match against the bundled file names is the lookup rule.
func (b *Bundle) Resolve(ref string) ([]byte, error) {
	ref = strings.TrimPrefix(normalize(ref), "package://")
	// The package name itself rarely matches the bundle layout; the path
	// under it does. Try the full reference first, then each shorter suffix.
	for candidate := ref; candidate != ""; {
		for _, entry := range b.entries {
			if strings.HasSuffix(entry.Name, candidate) {
				return entry.Data, nil
			}
		}
		slash := strings.IndexByte(candidate, '/')
		if slash < 0 {
			break
		}
		candidate = candidate[slash+1:]
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, ref)
}

// FromDir builds a bundle from every regular file under root, in lexical
// walk order. Entry names are paths relative to root.
func FromDir(root string) (*Bundle, error) {
	b := NewBundle()
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		b.Add(rel, data)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}
	return b, nil
}

func normalize(name string) string {
	return strings.ReplaceAll(name, "\\", "/")
}
