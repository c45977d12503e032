package file

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/MrSnakeDoc/topdoor/internal/domain"
	"github.com/MrSnakeDoc/topdoor/internal/logger"
)

const (
	// FileName is the primary configuration file inside the config dir.
	FileName = "config.json"
	// BackupSuffix is appended to FileName for the previous generation.
	BackupSuffix = ".bak"

	dirPerm  = 0o755
	filePerm = 0o644
)

// Tier tells which step of the recovery chain produced a configuration.
type Tier string

const (
	TierPrimary Tier = "primary"
	TierBackup  Tier = "backup"
	TierDefault Tier = "default"
)

// LoadResult is a loaded configuration together with where it came from.
type LoadResult struct {
	Config domain.Configuration
	Tier   Tier
	// SaveErr is set when a synthesised default could not be persisted.
	// The configuration is still usable.
	SaveErr error
}

// Store persists one Configuration as config.json with a single-generation
// config.json.bak next to it.
//
// Store does no locking: callers run at most one Load or Save at a time.
type Store struct {
	dir        string
	path       string
	backupPath string
	logger     logger.Logger
}

// New creates a store rooted at dir. The directory is created if missing;
// a creation failure is logged and not returned because the directory may
// already exist from a previous run.
func New(dir string, log logger.Logger) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: no configuration directory", domain.ErrDirectoryUnavailable)
	}
	if log == nil {
		log = logger.NewNop()
	}

	if err := os.MkdirAll(dir, dirPerm); err != nil {
		log.Warn("failed to create configuration directory",
			logger.String("dir", dir),
			logger.Error(err))
	}

	return &Store{
		dir:        dir,
		path:       filepath.Join(dir, FileName),
		backupPath: filepath.Join(dir, FileName+BackupSuffix),
		logger:     log,
	}, nil
}

func (s *Store) Dir() string        { return s.dir }
func (s *Store) Path() string       { return s.path }
func (s *Store) BackupPath() string { return s.backupPath }

// Load always returns a usable configuration.
func (s *Store) Load(ctx context.Context) domain.Configuration {
	return s.LoadWithSource(ctx).Config
}

// LoadWithSource walks the recovery chain primary -> backup -> default.
// No step returns an error; every absorbed failure is logged.
func (s *Store) LoadWithSource(ctx context.Context) LoadResult {
	if !exists(s.path) {
		s.logger.Info("no configuration file, writing defaults",
			logger.String("path", s.path))
		return s.useDefault(ctx)
	}

	cfg, _, err := readConfig(s.path)
	if err == nil {
		s.logger.Debug("configuration loaded",
			logger.String("path", s.path),
			logger.Int("groups", len(cfg.Groups)))
		return LoadResult{Config: cfg, Tier: TierPrimary}
	}

	s.logger.Warn("configuration unreadable, trying backup",
		logger.String("path", s.path),
		logger.String("tier", string(TierPrimary)),
		logger.Error(err))

	cfg, raw, err := readConfig(s.backupPath)
	if err != nil {
		s.logger.Warn("backup unusable, falling back to defaults",
			logger.String("path", s.backupPath),
			logger.String("tier", string(TierBackup)),
			logger.Error(fmt.Errorf("%w: %w", domain.ErrBackupUnavailable, err)))
		return s.useDefault(ctx)
	}

	// Put the backup bytes back verbatim so the next Load skips recovery.
	if err := writeAtomic(s.path, raw); err != nil {
		s.logger.Error("failed to restore configuration from backup",
			logger.String("path", s.path),
			logger.Error(err))
	} else {
		s.logger.Info("configuration restored from backup",
			logger.String("path", s.path),
			logger.Int("groups", len(cfg.Groups)))
	}

	return LoadResult{Config: cfg, Tier: TierBackup}
}

func (s *Store) useDefault(ctx context.Context) LoadResult {
	cfg := domain.DefaultConfiguration()
	err := s.Save(ctx, cfg)
	if err != nil {
		s.logger.Error("failed to persist default configuration",
			logger.String("path", s.path),
			logger.Error(err))
	}
	return LoadResult{Config: cfg, Tier: TierDefault, SaveErr: err}
}

// Save rotates the current primary into the backup (best effort) and then
// replaces the primary with cfg. A failure to write the primary is returned
// wrapped in domain.ErrWriteFailure.
func (s *Store) Save(ctx context.Context, cfg domain.Configuration) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrWriteFailure, err)
	}

	data, err := Encode(cfg)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrWriteFailure, err)
	}

	if exists(s.path) {
		if err := copyFile(s.path, s.backupPath); err != nil {
			s.logger.Warn("failed to back up configuration",
				logger.String("path", s.backupPath),
				logger.Error(err))
		}
	}

	if err := writeAtomic(s.path, data); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrWriteFailure, err)
	}

	s.logger.Debug("configuration saved",
		logger.String("path", s.path),
		logger.Int("groups", len(cfg.Groups)))
	return nil
}

// encodedGroup and encodedConfig declare their fields in key order, so
// Encode writes sorted keys and files written by earlier versions keep
// their layout across a save.
type encodedGroup struct {
	ID            string   `json:"id"`
	Items         []string `json:"items"`
	Name          string   `json:"name"`
	OpenWith      string   `json:"openWith,omitempty"`
	SourcePageURL string   `json:"scrapboxPage,omitempty"`
}

type encodedConfig struct {
	Groups              []encodedGroup `json:"projects"`
	ScrapboxPageName    string         `json:"scrapboxPageName,omitempty"`
	ScrapboxPageURL     string         `json:"scrapboxPageURL,omitempty"`
	ScrapboxProjectName string         `json:"scrapboxProjectName,omitempty"`
}

// Encode renders cfg as indented JSON with sorted keys and a trailing
// newline.
func Encode(cfg domain.Configuration) ([]byte, error) {
	out := encodedConfig{
		Groups:              make([]encodedGroup, 0, len(cfg.Groups)),
		ScrapboxPageName:    cfg.ScrapboxPageName,
		ScrapboxPageURL:     cfg.ScrapboxPageURL,
		ScrapboxProjectName: cfg.ScrapboxProjectName,
	}
	for _, g := range cfg.Groups {
		items := g.Items
		if items == nil {
			items = []string{}
		}
		out.Groups = append(out.Groups, encodedGroup{
			ID:            g.ID,
			Items:         items,
			Name:          g.Name,
			OpenWith:      g.OpenWith,
			SourcePageURL: g.SourcePageURL,
		})
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(out); err != nil {
		return nil, fmt.Errorf("failed to encode configuration: %w", err)
	}
	return buf.Bytes(), nil
}

// document mirrors Configuration with a required "projects" key: a
// missing key and a top-level null both leave Groups nil.
type document struct {
	Groups              *[]domain.LinkGroup `json:"projects"`
	ScrapboxPageURL     string              `json:"scrapboxPageURL"`
	ScrapboxPageName    string              `json:"scrapboxPageName"`
	ScrapboxProjectName string              `json:"scrapboxProjectName"`
}

// Decode parses config.json content. Unknown fields are ignored and
// missing ids are derived from names. A document that is not a JSON
// object, lacks the "projects" list, holds a nameless group or has
// duplicate group ids is rejected.
func Decode(data []byte) (domain.Configuration, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return domain.Configuration{}, fmt.Errorf("%w: empty file", domain.ErrDecodeFailure)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return domain.Configuration{}, fmt.Errorf("%w: %w", domain.ErrDecodeFailure, err)
	}
	if doc.Groups == nil || *doc.Groups == nil {
		return domain.Configuration{}, fmt.Errorf("%w: missing \"projects\" list", domain.ErrDecodeFailure)
	}
	for i, g := range *doc.Groups {
		if strings.TrimSpace(g.Name) == "" {
			return domain.Configuration{}, fmt.Errorf("%w: project %d has no name", domain.ErrDecodeFailure, i)
		}
	}

	cfg := domain.Configuration{
		Groups:              *doc.Groups,
		ScrapboxPageURL:     doc.ScrapboxPageURL,
		ScrapboxPageName:    doc.ScrapboxPageName,
		ScrapboxProjectName: doc.ScrapboxProjectName,
	}.FillMissingIDs()
	if err := cfg.Validate(); err != nil {
		return domain.Configuration{}, fmt.Errorf("%w: %w", domain.ErrDecodeFailure, err)
	}
	return cfg, nil
}

func readConfig(path string) (domain.Configuration, []byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return domain.Configuration{}, nil, fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}
	cfg, err := Decode(raw)
	if err != nil {
		return domain.Configuration{}, nil, err
	}
	return cfg, raw, nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return !errors.Is(err, fs.ErrNotExist)
}
