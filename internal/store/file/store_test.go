package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/topdoor/internal/domain"
	"github.com/MrSnakeDoc/topdoor/internal/logger"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(t.TempDir(), logger.NewNop())
	require.NoError(t, err)
	return s
}

func sampleConfig() domain.Configuration {
	return domain.Configuration{
		Groups: []domain.LinkGroup{
			{ID: "web", Name: "Web", Items: []string{"https://example.com", "https://go.dev"}},
			{ID: "tools", Name: "Tools", Items: []string{"file:///Applications/Safari.app"}, OpenWith: "Safari"},
		},
		ScrapboxPageURL:     "https://scrapbox.io/team/Links",
		ScrapboxPageName:    "Links",
		ScrapboxProjectName: "team",
	}
}

func TestNewRequiresDirectory(t *testing.T) {
	_, err := New("", logger.NewNop())
	require.ErrorIs(t, err, domain.ErrDirectoryUnavailable)
}

func TestNewCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "topDoor")
	s, err := New(dir, nil)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Equal(t, filepath.Join(dir, "config.json"), s.Path())
	assert.Equal(t, filepath.Join(dir, "config.json.bak"), s.BackupPath())
}

func TestSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	cfg := sampleConfig()

	require.NoError(t, s.Save(ctx, cfg))

	res := s.LoadWithSource(ctx)
	assert.Equal(t, TierPrimary, res.Tier)
	assert.Equal(t, cfg, res.Config)
}

func TestLoadEmptyDirectoryWritesDefault(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	res := s.LoadWithSource(ctx)
	assert.Equal(t, TierDefault, res.Tier)
	assert.NoError(t, res.SaveErr)
	assert.Equal(t, domain.DefaultConfiguration(), res.Config)

	// Defaults are persisted, so the next load reads them from disk.
	assert.FileExists(t, s.Path())
	assert.Equal(t, TierPrimary, s.LoadWithSource(ctx).Tier)
}

func TestFirstSaveCreatesNoBackup(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.Save(context.Background(), sampleConfig()))

	assert.FileExists(t, s.Path())
	assert.NoFileExists(t, s.BackupPath())
}

func TestSaveRotatesPreviousPrimaryIntoBackup(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	first := sampleConfig()
	require.NoError(t, s.Save(ctx, first))
	before, err := os.ReadFile(s.Path())
	require.NoError(t, err)

	second, _, err := first.AddGroup(domain.LinkGroup{Name: "Docs", Items: []string{"~/Documents"}})
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, second))

	backup, err := os.ReadFile(s.BackupPath())
	require.NoError(t, err)
	assert.Equal(t, before, backup)

	assert.Equal(t, second, s.Load(ctx))
}

func TestLoadCorruptPrimaryUsesBackup(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	good := sampleConfig()
	require.NoError(t, s.Save(ctx, good))
	require.NoError(t, s.Save(ctx, good))
	backup, err := os.ReadFile(s.BackupPath())
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(s.Path(), []byte("{not json"), 0o644))

	res := s.LoadWithSource(ctx)
	assert.Equal(t, TierBackup, res.Tier)
	assert.Equal(t, good, res.Config)

	// The primary is healed with the backup bytes.
	healed, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.Equal(t, backup, healed)
	assert.Equal(t, TierPrimary, s.LoadWithSource(ctx).Tier)
}

func TestLoadEmptyObjectPrimaryUsesBackup(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	good := sampleConfig()
	require.NoError(t, s.Save(ctx, good))
	require.NoError(t, s.Save(ctx, good))

	for _, body := range []string{`{}`, `null`, `{"project":[]}`} {
		require.NoError(t, os.WriteFile(s.Path(), []byte(body), 0o644))

		res := s.LoadWithSource(ctx)
		assert.Equal(t, TierBackup, res.Tier, body)
		assert.Equal(t, good, res.Config, body)
	}
}

func TestLoadCorruptPrimaryAndBackupFallsBackToDefault(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	require.NoError(t, os.WriteFile(s.Path(), []byte("garbage"), 0o644))
	require.NoError(t, os.WriteFile(s.BackupPath(), []byte("[1,2,3]"), 0o644))

	res := s.LoadWithSource(ctx)
	assert.Equal(t, TierDefault, res.Tier)
	assert.Equal(t, domain.DefaultConfiguration(), res.Config)

	// The default overwrote the corrupt primary.
	assert.Equal(t, TierPrimary, s.LoadWithSource(ctx).Tier)
}

func TestLoadCorruptPrimaryWithoutBackup(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	require.NoError(t, os.WriteFile(s.Path(), []byte(""), 0o644))

	res := s.LoadWithSource(ctx)
	assert.Equal(t, TierDefault, res.Tier)
	assert.Equal(t, domain.DefaultConfiguration(), res.Config)
}

func TestSaveWriteFailure(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir, logger.NewNop())
	require.NoError(t, err)

	// A directory in place of config.json cannot be replaced by rename.
	require.NoError(t, os.MkdirAll(filepath.Join(s.Path(), "blocker"), 0o755))

	err = s.Save(context.Background(), sampleConfig())
	require.ErrorIs(t, err, domain.ErrWriteFailure)
}

func TestSaveCancelledContext(t *testing.T) {
	s := newStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.Save(ctx, sampleConfig())
	require.ErrorIs(t, err, domain.ErrWriteFailure)
	assert.NoFileExists(t, s.Path())
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
		groups  int
	}{
		{name: "empty", input: "  ", wantErr: true},
		{name: "not an object", input: "[]", wantErr: true},
		{name: "truncated", input: `{"projects":[`, wantErr: true},
		{name: "empty object", input: `{}`, wantErr: true},
		{name: "null document", input: `null`, wantErr: true},
		{name: "misspelled projects key", input: `{"project":[]}`, wantErr: true},
		{name: "null projects", input: `{"projects":null}`, wantErr: true},
		{name: "nameless group", input: `{"projects":[{"id":"a","items":[]}]}`, wantErr: true},
		{name: "empty projects list", input: `{"projects":[]}`, groups: 0},
		{name: "unknown fields ignored", input: `{"projects":[{"id":"a","name":"A","items":[],"extra":1}],"version":2}`, groups: 1},
		{name: "duplicate ids", input: `{"projects":[{"id":"a","name":"A","items":[]},{"id":"a","name":"B","items":[]}]}`, wantErr: true},
		{name: "missing id derived", input: `{"projects":[{"name":"My Links","items":["https://a.b"]}]}`, groups: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Decode([]byte(tt.input))
			if tt.wantErr {
				require.ErrorIs(t, err, domain.ErrDecodeFailure)
				return
			}
			require.NoError(t, err)
			assert.Len(t, cfg.Groups, tt.groups)
		})
	}
}

func TestDecodeDerivesMissingID(t *testing.T) {
	cfg, err := Decode([]byte(`{"projects":[{"name":"My Links","items":[]}]}`))
	require.NoError(t, err)
	assert.Equal(t, "my-links", cfg.Groups[0].ID)
}

func TestDecodeDerivedIDsAreStable(t *testing.T) {
	data := []byte(`{"projects":[{"name":"Work","items":[]},{"name":"Work","items":[]}]}`)

	first, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, "work", first.Groups[0].ID)
	assert.Equal(t, "work-2", first.Groups[1].ID)

	second, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestEncodeUsesProjectsKey(t *testing.T) {
	data, err := Encode(domain.Configuration{Groups: []domain.LinkGroup{{ID: "a", Name: "A"}}})
	require.NoError(t, err)

	s := string(data)
	assert.Contains(t, s, `"projects"`)
	assert.Contains(t, s, `"items": []`)
	assert.NotContains(t, s, "scrapboxPageURL")
	assert.Equal(t, byte('\n'), data[len(data)-1])
}

func TestEncodeSortsKeys(t *testing.T) {
	data, err := Encode(sampleConfig())
	require.NoError(t, err)

	want := `{
  "projects": [
    {
      "id": "web",
      "items": [
        "https://example.com",
        "https://go.dev"
      ],
      "name": "Web"
    },
    {
      "id": "tools",
      "items": [
        "file:///Applications/Safari.app"
      ],
      "name": "Tools",
      "openWith": "Safari"
    }
  ],
  "scrapboxPageName": "Links",
  "scrapboxPageURL": "https://scrapbox.io/team/Links",
  "scrapboxProjectName": "team"
}
`
	assert.Equal(t, want, string(data))
}
