package content

import (
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

var errStopLog = errors.New("stop")

// gitModTimes maps every file under dir that appears in the history of the
// enclosing Git work tree to the committer time of the newest commit that
// changed it. Keys are slash-separated and relative to dir. wanted bounds
// the walk: it stops once every wanted path has a time.
func gitModTimes(dir string, wanted []string) (map[string]time.Time, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("open git repository: %w", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("open git worktree: %w", err)
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	prefix, err := filepath.Rel(wt.Filesystem.Root(), absDir)
	if err != nil {
		return nil, fmt.Errorf("locate content in worktree: %w", err)
	}
	prefix = filepath.ToSlash(prefix)

	head, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("resolve HEAD: %w", err)
	}
	commits, err := repo.Log(&git.LogOptions{From: head.Hash(), Order: git.LogOrderCommitterTime})
	if err != nil {
		return nil, fmt.Errorf("read git log: %w", err)
	}
	defer commits.Close()

	remaining := make(map[string]struct{}, len(wanted))
	for _, w := range wanted {
		remaining[w] = struct{}{}
	}

	out := make(map[string]time.Time)
	err = commits.ForEach(func(c *object.Commit) error {
		files, cErr := changedFiles(c)
		if cErr != nil {
			return cErr
		}
		for _, f := range files {
			rel, ok := relativeTo(prefix, f)
			if !ok {
				continue
			}
			if _, seen := out[rel]; seen {
				continue
			}
			out[rel] = c.Committer.When
			delete(remaining, rel)
		}
		if len(wanted) > 0 && len(remaining) == 0 {
			return errStopLog
		}
		return nil
	})
	if err != nil && !errors.Is(err, errStopLog) {
		return nil, fmt.Errorf("walk git log: %w", err)
	}
	return out, nil
}

// changedFiles lists the paths a commit added, modified or deleted relative
// to its first parent. A root commit changes every file in its tree.
func changedFiles(c *object.Commit) ([]string, error) {
	tree, err := c.Tree()
	if err != nil {
		return nil, err
	}

	var files []string
	if c.NumParents() == 0 {
		err = tree.Files().ForEach(func(f *object.File) error {
			files = append(files, f.Name)
			return nil
		})
		return files, err
	}

	parent, err := c.Parent(0)
	if err != nil {
		return nil, err
	}
	parentTree, err := parent.Tree()
	if err != nil {
		return nil, err
	}
	changes, err := object.DiffTree(parentTree, tree)
	if err != nil {
		return nil, err
	}
	for _, ch := range changes {
		name := ch.To.Name
		if name == "" {
			name = ch.From.Name
		}
		files = append(files, name)
	}
	return files, nil
}

func relativeTo(prefix, p string) (string, bool) {
	if prefix == "." || prefix == "" {
		return p, true
	}
	rest, ok := strings.CutPrefix(p, prefix+"/")
	if !ok {
		return "", false
	}
	return path.Clean(rest), true
}
