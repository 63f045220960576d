package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateRepository_UpsertAndFind(t *testing.T) {
	db := newTestDB(t)
	repo := NewStateRepository(db)

	block, err := repo.FindLatestProcessedBlock("m1")
	require.NoError(t, err)
	assert.Nil(t, block)

	require.NoError(t, repo.UpsertLatestProcessedBlock("m1", 100))
	block, err = repo.FindLatestProcessedBlock("m1")
	require.NoError(t, err)
	require.NotNil(t, block)
	assert.Equal(t, int64(100), *block)

	require.NoError(t, repo.UpsertLatestProcessedBlock("m1", 150))
	block, err = repo.FindLatestProcessedBlock("m1")
	require.NoError(t, err)
	require.NotNil(t, block)
	assert.Equal(t, int64(150), *block)
}
