package rustache

import (
	"bufio"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Registry is an immutable name→node-tree map, populated once by Open
// and read concurrently thereafter.
type Registry struct {
	templates map[string][]Node
	escape    EscapeFunc
	opts      registryOptions
}

func (r *Registry) lookup(name string) ([]Node, bool) {
	nodes, ok := r.templates[name]
	return nodes, ok
}

type fileResult struct {
	name  string
	nodes []Node
	err   error
}

// Open loads every file under root matching pattern (a filepath.Match
// glob against the file's base name, e.g. "*.mustache") into a new
// Registry. Each matched file is lexed and parsed on its own goroutine
// pair, fanned out across a worker pool sized to runtime.GOMAXPROCS(0)
// via errgroup.Group.SetLimit; one file's failure is isolated — it is
// dropped from the registry and joined into the returned error, but
// never cancels its siblings.
func Open(root, pattern string, opts ...Option) (*Registry, error) {
	o := newRegistryOptions()
	for _, opt := range opts {
		opt(&o)
	}

	var matches []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ok, merr := filepath.Match(pattern, d.Name())
		if merr != nil {
			return merr
		}
		if ok {
			matches = append(matches, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	workers := o.workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make(chan fileResult, len(matches))
	var g errgroup.Group
	g.SetLimit(workers)

	for _, path := range matches {
		path := path
		g.Go(func() error {
			name, nerr := templateName(root, path)
			if nerr != nil {
				results <- fileResult{name: path, err: nerr}
				return nil
			}

			f, oerr := os.Open(path)
			if oerr != nil {
				results <- fileResult{name: name, err: oerr}
				return nil
			}
			defer f.Close()

			tokens := StartLexer(name, bufio.NewReader(f))
			nodes, perr := ParseTokens(name, tokens)
			results <- fileResult{name: name, nodes: nodes, err: perr}
			return nil
		})
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		g.Wait()
		close(results)
	}()

	templates := map[string][]Node{}
	var loadErrs []error
	for res := range results {
		if res.err != nil {
			loadErrs = append(loadErrs, res.err)
			if o.debug {
				logf("registry: dropping %s: %v", res.name, res.err)
			}
			continue
		}
		templates[res.name] = res.nodes
	}
	wg.Wait()

	reg := &Registry{templates: templates, escape: o.escape, opts: o}
	if len(loadErrs) > 0 {
		return reg, errors.Join(loadErrs...)
	}
	return reg, nil
}

// templateName computes a matched file's registry key: its path
// relative to root, extension stripped, forward slashes on every
// platform.
func templateName(root, path string) (string, error) {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return "", err
	}
	rel = rel[:len(rel)-len(filepath.Ext(rel))]
	return filepath.ToSlash(rel), nil
}

// Render renders the named template against ctx, writing to w.
func (r *Registry) Render(name string, w io.Writer, ctx *Value) error {
	nodes, ok := r.lookup(name)
	if !ok {
		return &RenderError{Kind: PartialDoesNotExist, Name: name}
	}
	return Render(w, nodes, ctx, r, r.escape)
}
