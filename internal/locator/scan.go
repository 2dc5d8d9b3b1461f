package locator

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/re-centris/bpreg/internal/common/logger"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Match is a definition found in a particular file
type Match struct {
	Path string
	Definition
}

// Scan looks for definitions of name in every root. A root naming a file
// is always scanned; directories are walked and only files with a
// registered extension are scanned. Hidden directories are skipped and
// unreadable files are logged and skipped. Results are ordered by path,
// then line.
func (l *Locator) Scan(ctx context.Context, name string, roots []string, maxWorkers int) ([]Match, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	if maxWorkers <= 0 {
		maxWorkers = runtime.NumCPU()
	}

	var (
		matches    []Match
		matchesMux sync.Mutex
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxWorkers)

	scanFile := func(path string) {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			defs, err := l.FindDefinitions(path, name)
			if err != nil {
				logger.Warn("Failed to scan file",
					zap.String("path", path),
					zap.Error(err))
				return nil
			}

			matchesMux.Lock()
			for _, def := range defs {
				matches = append(matches, Match{Path: path, Definition: def})
			}
			matchesMux.Unlock()
			return nil
		})
	}

	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			g.Wait()
			return nil, err
		}
		if !info.IsDir() {
			scanFile(root)
			continue
		}

		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			if d.IsDir() {
				if path != root && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if d.Type().IsRegular() && l.languages.Known(path) {
				scanFile(path)
			}
			return nil
		})
		if err != nil {
			g.Wait()
			return nil, fmt.Errorf("failed to walk directory: %w", err)
		}
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Path != matches[j].Path {
			return matches[i].Path < matches[j].Path
		}
		return matches[i].Line < matches[j].Line
	})
	return matches, nil
}
