package store

import (
	"context"
	"crypto/md5"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/peterbourgon/diskv/v3"
	"github.com/rs/zerolog"

	"tableflip.dev/taxoselect/pkg/repository"
	"tableflip.dev/taxoselect/pkg/taxon"
)

// Store keeps raw names on disk, one file per name under a directory per
// repository, and serves them as a repository.Service.
type Store struct {
	d        *diskv.Diskv
	basePath string
	log      zerolog.Logger

	mu         sync.RWMutex
	levels     repository.Levels
	configured []taxon.Descriptor
	limit      int
}

var _ repository.Service = (*Store)(nil)

// Option customizes a Store.
type Option func(*Store)

// WithLogger routes store diagnostics to l.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Store) { s.log = l }
}

// WithLevels replaces the level table.
func WithLevels(levels repository.Levels) Option {
	return func(s *Store) { s.levels = levels }
}

// Load creates a Store backed by diskv using the provided config. A nil
// config is read with LoadConfig.
func Load(cfg Config, opts ...Option) (*Store, error) {
	if cfg == nil {
		var err error
		cfg, err = LoadConfig()
		if err != nil {
			return nil, err
		}
	}
	basePath := cfg.BasePath()
	if basePath == "" {
		return nil, errors.New("store: base path unknown")
	}

	s := &Store{
		d: diskv.New(diskv.Options{
			BasePath:          basePath,
			AdvancedTransform: keyToPathTransform,
			InverseTransform:  pathToKeyTransform,
			CacheSizeMax:      4 * 1024 * 1024,
		}),
		basePath: basePath,
		log:      zerolog.Nop(),
		levels:   repository.DefaultLevels(),
		limit:    repository.DefaultLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// BasePath returns the directory holding the names.
func (s *Store) BasePath() string { return s.basePath }

// Put writes names into repo, replacing names with the same identifier.
func (s *Store) Put(repo string, names ...repository.RawName) error {
	if strings.TrimSpace(repo) == "" {
		return errors.New("store: repository required")
	}
	for _, n := range names {
		data, err := json.Marshal(n)
		if err != nil {
			return err
		}
		if err := s.d.Write(toKey(repo, n), data); err != nil {
			return fmt.Errorf("store: write %s/%s: %w", repo, n.NameID, err)
		}
	}
	return nil
}

// Delete removes one name from repo.
func (s *Store) Delete(repo string, n repository.RawName) error {
	return s.d.Erase(toKey(repo, n))
}

// Import writes a whole dataset and returns the number of names stored.
func (s *Store) Import(ctx context.Context, data repository.Dataset) (int, error) {
	repos := make([]string, 0, len(data))
	for repo := range data {
		repos = append(repos, repo)
	}
	sort.Strings(repos)

	count := 0
	for _, repo := range repos {
		if err := ctx.Err(); err != nil {
			return count, err
		}
		if err := s.Put(repo, data[repo]...); err != nil {
			return count, err
		}
		count += len(data[repo])
	}
	return count, nil
}

// Names lists every stored name of repo.
func (s *Store) Names(ctx context.Context, repo string) []repository.RawName {
	prefix := toRepository(repo) + "-"
	all := make([]repository.RawName, 0)
	for key := range s.d.KeysPrefix(prefix, ctx.Done()) {
		n, err := s.read(key)
		if err != nil {
			s.log.Warn().Err(err).Str("key", key).Msg("skipping unreadable name")
			continue
		}
		all = append(all, n)
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].ScientificName < all[j].ScientificName
	})
	return all
}

// Repositories lists the repositories holding at least one name.
func (s *Store) Repositories(ctx context.Context) []string {
	seen := make(map[string]struct{})
	for key := range s.d.Keys(ctx.Done()) {
		seen[fromRepository(keyToPathTransform(key).Path[0])] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for repo := range seen {
		out = append(out, repo)
	}
	sort.Strings(out)
	return out
}

func (s *Store) read(key string) (repository.RawName, error) {
	val, err := s.d.Read(key)
	if err != nil {
		return repository.RawName{}, err
	}
	var n repository.RawName
	if err := json.Unmarshal(val, &n); err != nil {
		return repository.RawName{}, err
	}
	return n, nil
}

func (s *Store) Configure(repos []taxon.Descriptor) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.configured = append([]taxon.Descriptor(nil), repos...)
}

func (s *Store) RepositoriesForLevel(level string) ([]taxon.Descriptor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.levels.ForLevel(level, s.configured)
}

func (s *Store) Search(ctx context.Context, repo, text string, keepRaw bool) ([]taxon.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if repo == "" || repo == taxon.FreeEntry {
		return nil, fmt.Errorf("%w: %q", repository.ErrUnknownRepository, repo)
	}
	names := s.Names(ctx, repo)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return repository.Records(repo, repository.Match(names, text, s.limit), keepRaw), nil
}

func (s *Store) FetchValidForm(ctx context.Context, repo, nameID, taxonID string) (json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	accepted, err := repository.FindAccepted(s.Names(ctx, repo), nameID, taxonID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", repo, err)
	}
	return repository.Encode(accepted), nil
}

func (s *Store) StandardizeValidForm(repo string, raw json.RawMessage) (taxon.Record, error) {
	return repository.StandardizeValidForm(repo, raw)
}

func (s *Store) DescribeRepository(repo string) string {
	return s.levels.Describe(repo)
}

func keyToPathTransform(s string) *diskv.PathKey {
	i := strings.LastIndex(s, "-")
	if i < 0 {
		return &diskv.PathKey{Path: []string{""}, FileName: s}
	}
	return &diskv.PathKey{
		Path:     []string{s[:i]},
		FileName: s[i+1:],
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	return fmt.Sprintf("%s-%s", strings.Join(pathKey.Path, "-"), pathKey.FileName)
}

var safeID = regexp.MustCompile(`^[A-Za-z0-9_.]+$`)

// toKey makes `repository-nameID`
func toKey(repo string, n repository.RawName) string {
	id := n.NameID
	if !safeID.MatchString(id) {
		b, _ := json.Marshal(n)
		sum := md5.Sum(b)
		id = fmt.Sprintf("%x", sum[:8])
	}
	return fmt.Sprintf("%s-%s", toRepository(repo), id)
}

func toRepository(s string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(s))
}

func fromRepository(s string) string {
	repo, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return fmt.Sprintf("fromRepository: %s", err)
	}
	return string(repo)
}
