package scan

import (
	"os"
	"path/filepath"
	"sort"
)

// RemoveEmptyDirs deletes empty directories under root, bottom-up, repeating
// until a pass removes nothing so that newly emptied parents are caught.
// root itself is never removed. It returns how many directories were
// deleted.
func RemoveEmptyDirs(root string) (int, error) {
	removed := 0
	for {
		n, err := removeEmptyPass(root)
		if err != nil {
			return removed, err
		}
		removed += n
		if n == 0 {
			return removed, nil
		}
	}
}

func removeEmptyPass(root string) (int, error) {
	var dirs []string
	err := filepath.WalkDir(root, func(path string, entry os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() && path != root {
			dirs = append(dirs, path)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	// Deepest first, so children empty before their parents are examined.
	sort.Slice(dirs, func(i, j int) bool { return len(dirs[i]) > len(dirs[j]) })

	removed := 0
	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return removed, err
		}
		if len(entries) > 0 {
			continue
		}
		if err := os.Remove(dir); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}
