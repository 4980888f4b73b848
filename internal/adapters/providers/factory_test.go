package providers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chartwatch/internal/adapters/config"
	"chartwatch/pkg/errors"
)

func TestNew(t *testing.T) {
	t.Run("alphavantage", func(t *testing.T) {
		p, err := New(config.ProviderConfig{Active: "AlphaVantage", AlphaVantageAPIKey: "k"})
		require.NoError(t, err)
		assert.Equal(t, "alphavantage", p.Name())
	})

	t.Run("twelvedata", func(t *testing.T) {
		p, err := New(config.ProviderConfig{Active: "twelvedata", TwelveDataAPIKey: "k"})
		require.NoError(t, err)
		assert.Equal(t, "twelvedata", p.Name())
	})

	t.Run("missing api key", func(t *testing.T) {
		_, err := New(config.ProviderConfig{Active: "alphavantage"})
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrInvalidInput))
	})

	t.Run("unknown provider", func(t *testing.T) {
		_, err := New(config.ProviderConfig{Active: "bloomberg"})
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrInvalidInput))
	})
}
