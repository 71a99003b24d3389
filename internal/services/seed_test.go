package services

import (
	"context"
	"testing"

	"viralhub-backend-go/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedIsIdempotent(t *testing.T) {
	store := storage.NewMemory()
	ctx := context.Background()

	first, err := SeedDemoAssistants(ctx, store)
	require.NoError(t, err)
	assert.True(t, first.Created)
	assert.Equal(t, "Seed completado correctamente", first.Message)
	assert.Equal(t, 6, first.Count)

	_, ok, err := store.GetUser(ctx, DemoUserID)
	require.NoError(t, err)
	assert.True(t, ok)

	second, err := SeedDemoAssistants(ctx, store)
	require.NoError(t, err)
	assert.False(t, second.Created)
	assert.Equal(t, "Ya existen asistentes", second.Message)
	assert.Equal(t, 6, second.Count)

	items, err := store.GetUserAssistants(ctx, DemoUserID)
	require.NoError(t, err)
	require.Len(t, items, 6)
	assert.Equal(t, "Asistente J", items[0].Name)
	assert.Equal(t, "Cerebro Central", items[5].Name)
	assert.Equal(t, 0.3, *items[1].Temperature)
}
