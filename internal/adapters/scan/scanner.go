// Package scan measures how heavily a project's Python sources use each installed package.
package scan

import (
	"bufio"
	"bytes"
	"context"
	"os"
	"regexp"
	"runtime"
	"strings"
	"sync"
	"unicode/utf8"

	"go.trai.ch/upkeep/internal/core/domain"
	"golang.org/x/sync/errgroup"
)

var (
	importPattern = regexp.MustCompile(`^\s*import\s+(.+)$`)
	fromPattern   = regexp.MustCompile(`^\s*from\s+([A-Za-z_][A-Za-z0-9_.]*)\s+import\b`)
)

// Scanner implements ports.UsageScanner by counting import statements.
type Scanner struct {
	excludes []string
	aliases  map[string]string
}

// New creates a Scanner.
func New(cfg domain.ScanConfig) *Scanner {
	return &Scanner{
		excludes: cfg.Exclude,
		aliases:  cfg.Aliases,
	}
}

// Scan counts, per distribution name, how many import statements below root reference it.
// Import names are mapped through the configured aliases, then canonicalized.
// Unreadable and non-UTF-8 files are skipped silently.
func (s *Scanner) Scan(ctx context.Context, root string) (map[string]int, error) {
	var (
		mu     sync.Mutex
		counts = make(map[string]int)
	)

	g, groupCtx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for path, err := range walkSources(root, s.excludes) {
		if err != nil {
			_ = g.Wait()
			return nil, err
		}
		if groupCtx.Err() != nil {
			break
		}
		g.Go(func() error {
			modules, ok := importsOf(path)
			if !ok {
				return nil
			}
			mu.Lock()
			for module, n := range modules {
				counts[s.distribution(module)] += n
			}
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return counts, nil
}

func (s *Scanner) distribution(module string) string {
	if name, ok := s.aliases[module]; ok {
		return domain.CanonicalName(name)
	}
	return domain.CanonicalName(module)
}

// importsOf counts top-level modules named by absolute import statements in one file.
// Lines inside triple-quoted strings are ignored. It reports false for a file that
// cannot be read or is not valid UTF-8.
func importsOf(path string) (map[string]int, bool) {
	content, err := os.ReadFile(path)
	if err != nil || !utf8.Valid(content) {
		return nil, false
	}

	counts := make(map[string]int)
	inString := false
	sc := bufio.NewScanner(bytes.NewReader(content))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Text()
		quotes := strings.Count(line, `"""`) + strings.Count(line, `'''`)
		if inString {
			if quotes%2 == 1 {
				inString = false
			}
			continue
		}
		if quotes%2 == 1 {
			inString = true
			continue
		}

		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		if m := fromPattern.FindStringSubmatch(line); m != nil {
			counts[topLevel(m[1])]++
			continue
		}
		if m := importPattern.FindStringSubmatch(line); m != nil {
			for _, part := range strings.Split(m[1], ",") {
				name, _, _ := strings.Cut(strings.TrimSpace(part), " ")
				name = strings.Trim(name, "()\\ ")
				if name != "" && !strings.HasPrefix(name, ".") {
					counts[topLevel(name)]++
				}
			}
		}
	}
	return counts, sc.Err() == nil
}

func topLevel(module string) string {
	name, _, _ := strings.Cut(module, ".")
	return name
}
