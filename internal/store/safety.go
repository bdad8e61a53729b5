package store

import (
	"fmt"
	"os"
	"path/filepath"
)

// RepoDataPathError means the data file would live inside a git
// repository, which risks committing personal health data.
type RepoDataPathError struct {
	DataPath string
	RepoRoot string
}

func (e *RepoDataPathError) Error() string {
	return fmt.Sprintf(
		"refusing to use a data file inside a git repo\n  data_path: %s\n  repo_root: %s\n  fix: use ~/.config/carelog/*.json or pass --allow-repo-data-path",
		e.DataPath, e.RepoRoot,
	)
}

// CheckSafeDataPath refuses data paths inside a git repository unless
// explicitly allowed.
func CheckSafeDataPath(dataPath string, allowRepoDataPath bool) error {
	if allowRepoDataPath {
		return nil
	}
	root := findGitRoot(filepath.Dir(dataPath))
	if root == "" {
		return nil
	}
	return &RepoDataPathError{DataPath: dataPath, RepoRoot: root}
}

func findGitRoot(start string) string {
	cur := start
	for i := 0; i < 200; i++ {
		if _, err := os.Stat(filepath.Join(cur, ".git")); err == nil {
			return cur
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return ""
		}
		cur = parent
	}
	return ""
}
