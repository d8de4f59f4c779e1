package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amaumene/streamfr/internal/controllers"
	"github.com/amaumene/streamfr/internal/models"
)

func TestParseTitleArgs(t *testing.T) {
	mediaType, titleID, err := parseTitleArgs([]string{"TV", "1399"})
	require.NoError(t, err)
	assert.Equal(t, models.MediaTypeTV, mediaType)
	assert.Equal(t, 1399, titleID)

	_, _, err = parseTitleArgs([]string{"episode", "1"})
	assert.ErrorIs(t, err, models.ErrInvalidMediaType)

	_, _, err = parseTitleArgs([]string{"movie", "0"})
	assert.ErrorIs(t, err, controllers.ErrInvalidTitleID)
}

func TestRootCommandTree(t *testing.T) {
	root := newRootCommand()

	for _, path := range [][]string{{"serve"}, {"lookup"}, {"cache", "clear"}, {"cache", "stats"}} {
		cmd, _, err := root.Find(path)
		require.NoError(t, err)
		assert.Equal(t, path[len(path)-1], cmd.Name())
	}

	clearCmd, _, err := root.Find([]string{"cache", "clear"})
	require.NoError(t, err)
	assert.NotNil(t, clearCmd.Flags().Lookup("title"))

	assert.NotNil(t, root.PersistentFlags().Lookup("port"))
	assert.NotNil(t, root.PersistentFlags().Lookup("log-level"))
}
