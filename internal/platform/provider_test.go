package platform

import (
	"context"
	"errors"
	"testing"

	"github.com/mj1618/novawin-cli/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProvider_NoBackend(t *testing.T) {
	orig := NewProviderFunc
	NewProviderFunc = nil
	defer func() { NewProviderFunc = orig }()

	_, err := NewProvider(context.Background(), config.Default())
	assert.ErrorIs(t, err, ErrNoBackend)
}

func TestNewProvider_UsesRegisteredBackend(t *testing.T) {
	orig := NewProviderFunc
	defer func() { NewProviderFunc = orig }()

	var gotCfg *config.Config
	NewProviderFunc = func(ctx context.Context, cfg *config.Config) (*Provider, error) {
		gotCfg = cfg
		return &Provider{SessionID: "s1"}, nil
	}

	cfg := config.Default()
	p, err := NewProvider(context.Background(), cfg)
	require.NoError(t, err)
	assert.Same(t, cfg, gotCfg)
	assert.Equal(t, "s1", p.SessionID)
}

func TestProviderClose_Once(t *testing.T) {
	calls := 0
	p := &Provider{}
	p.SetCloser(func() error {
		calls++
		return errors.New("delete session: gone")
	})

	assert.EqualError(t, p.Close(), "delete session: gone")
	assert.EqualError(t, p.Close(), "delete session: gone")
	assert.Equal(t, 1, calls)

	assert.NoError(t, (&Provider{}).Close())
}
