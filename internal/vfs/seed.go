package vfs

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
)

// MaxSeedFileSize caps the content read for a single file by LoadSeed.
const MaxSeedFileSize = 1 << 20

var seed = mustBuild(func(root *Dir) error {
	home, user, docs := NewDir(), NewDir(), NewDir()
	etc := NewDir()

	steps := []error{
		docs.Add("report.txt", &File{Content: "This is a report."}),
		user.Add("Documents", docs),
		user.Add("Downloads", NewDir()),
		user.Add("README.md", &File{Content: "# Shell Assistant\n\nWelcome!"}),
		home.Add("user", user),
		etc.Add("config.json", &File{Content: `{ "setting": "value" }`}),
		root.Add("home", home),
		root.Add("etc", etc),
	}
	for _, err := range steps {
		if err != nil {
			return err
		}
	}
	return nil
})

func mustBuild(build func(*Dir) error) *Dir {
	root := NewDir()
	if err := build(root); err != nil {
		panic(fmt.Sprintf("vfs: building seed: %v", err))
	}
	return root
}

// Seed returns the shared built-in tree. Callers must not modify it; use New
// for a per-session copy.
func Seed() *Dir {
	return seed
}

// New returns a fresh deep copy of the built-in tree.
func New() *Dir {
	return seed.Clone()
}

// LoadSeed builds a tree from the directory dir on fsys. Sub-directories
// become Dir nodes and regular files become File nodes; anything else
// (symlinks, devices) is skipped. Entries are added in lexical order.
func LoadSeed(fsys afero.Fs, dir string) (*Dir, error) {
	isDir, err := afero.IsDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to stat seed directory: %w", err)
	}
	if !isDir {
		return nil, fmt.Errorf("seed path is not a directory: %s", dir)
	}
	root := NewDir()
	if err := loadInto(fsys, dir, root); err != nil {
		return nil, err
	}
	return root, nil
}

func loadInto(fsys afero.Fs, dir string, into *Dir) error {
	infos, err := afero.ReadDir(fsys, dir)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", dir, err)
	}
	for _, info := range infos {
		p := filepath.Join(dir, info.Name())
		switch {
		case info.IsDir():
			child := NewDir()
			if err := loadInto(fsys, p, child); err != nil {
				return err
			}
			if err := into.Add(info.Name(), child); err != nil {
				return err
			}
		case info.Mode().IsRegular():
			if info.Size() > MaxSeedFileSize {
				return fmt.Errorf("seed file too large: %s (%d bytes)", p, info.Size())
			}
			data, err := afero.ReadFile(fsys, p)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", p, err)
			}
			if err := into.Add(info.Name(), &File{Content: string(data)}); err != nil {
				return err
			}
		}
	}
	return nil
}
