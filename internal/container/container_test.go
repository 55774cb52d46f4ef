package container

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"gokea/adapters/resource"
	"gokea/app"
	"gokea/domain/kinase"
	"gokea/internal/config"
	"gokea/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T, store string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, resource.KinaseProteinResource), []byte("G1,F1,K1,A\nG1,F1,K1,B\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, resource.PhosphorylationResource), []byte("G2,F2,K2,B\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, resource.KEARanksResource), []byte("K1 1 1\n"), 0o600))

	return &config.Config{
		Data: config.DataConfig{
			Dir:        dir,
			Store:      store,
			SQLitePath: filepath.Join(dir, "kea.db"),
		},
	}
}

func TestNew_FileStore(t *testing.T) {
	c, err := New(context.Background(), testConfig(t, config.StoreFiles), nil)
	require.NoError(t, err)
	defer c.Shutdown()

	assert.Same(t, c.Files, c.Store)
	assert.Nil(t, c.SQLite)

	report, err := c.Enrichment.Run(context.Background(), appRequest())
	require.NoError(t, err)
	assert.Len(t, report.Kinases, 1)
}

func TestNew_SQLiteStoreAfterImport(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t, config.StoreSQLite)

	c, err := New(ctx, cfg, nil)
	require.NoError(t, err)
	defer c.Shutdown()
	assert.Same(t, c.SQLite, c.Store)

	require.NoError(t, c.OpenFiles())
	imported, err := c.SQLite.Import(ctx, c.Files)
	require.NoError(t, err)
	assert.Len(t, imported, 3)

	report, err := c.Enrichment.Run(ctx, appRequest())
	require.NoError(t, err)
	assert.Len(t, report.Kinases, 1)
}

func TestNew_MissingDataDir(t *testing.T) {
	cfg := &config.Config{Data: config.DataConfig{Dir: filepath.Join(t.TempDir(), "missing"), Store: config.StoreFiles}}

	_, err := New(context.Background(), cfg, nil)
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))

	_, err = New(context.Background(), nil, nil)
	assert.Error(t, err)
}

func appRequest() app.EnrichmentRequest {
	return app.EnrichmentRequest{
		Selector: kinase.SelectorBoth,
		Options:  kinase.DefaultOptions(),
		Genes:    []string{"a"},
	}
}
