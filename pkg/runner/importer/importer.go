// Package importer loads name lists into the local store.
package importer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/fatih/color"

	"tableflip.dev/taxoselect/pkg/repository"
)

// Target receives imported names.
type Target interface {
	Import(ctx context.Context, data repository.Dataset) (int, error)
}

// Import reads Path and writes its names into Target. The file is either a
// dataset (names grouped by repository) or a plain list of names, in which
// case Repository names where they go. Sample imports the bundled names
// instead of a file.
type Import struct {
	Target     Target
	Path       string
	Repository string
	Sample     bool
	Out        io.Writer
}

// Do runs the import.
func (i *Import) Do(ctx context.Context) error {
	if i.Target == nil {
		return errors.New("can not import, no store")
	}
	data, err := i.dataset()
	if err != nil {
		return err
	}
	n, err := i.Target.Import(ctx, data)
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}

	out := i.Out
	if out == nil {
		out = color.Output
	}
	repos := make([]string, 0, len(data))
	for repo := range data {
		repos = append(repos, repo)
	}
	sort.Strings(repos)
	bold := color.New(color.Bold)
	for _, repo := range repos {
		_, _ = fmt.Fprintf(out, "  %s %d\n", bold.Sprint(repo), len(data[repo]))
	}
	_, _ = fmt.Fprintf(out, "imported %d names\n", n)
	return nil
}

func (i *Import) dataset() (repository.Dataset, error) {
	if i.Sample {
		return repository.SampleDataset(), nil
	}
	if i.Path == "" {
		return nil, errors.New("can not import, no file given")
	}
	raw, err := os.ReadFile(i.Path)
	if err != nil {
		return nil, err
	}
	return Decode(raw, i.Repository)
}

// Decode accepts a dataset document or, when repo is set, a JSON list of
// names for repo.
func Decode(raw []byte, repo string) (repository.Dataset, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if repo == "" {
			return nil, errors.New("a list of names needs a repository")
		}
		var names []repository.RawName
		if err := json.Unmarshal(trimmed, &names); err != nil {
			return nil, fmt.Errorf("parse names: %w", err)
		}
		return repository.Dataset{repo: names}, nil
	}
	ds, err := repository.ParseDataset(trimmed)
	if err != nil {
		return nil, err
	}
	if repo != "" {
		return repository.Dataset{repo: ds[repo]}, nil
	}
	return ds, nil
}
