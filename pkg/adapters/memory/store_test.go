package memory_test

import (
	"context"
	"testing"

	"github.com/aretw0/bbsdemo/pkg/adapters/memory"
	"github.com/aretw0/bbsdemo/pkg/ports"
	"github.com/stretchr/testify/assert"
)

func TestMemoryStore_Contract(t *testing.T) {
	store := memory.NewStore()
	ports.RunKeyValueStoreContract(t, store)
}

func TestMemoryStore_Delete(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	assert.NoError(t, store.Put(ctx, "k", "v"))
	assert.NoError(t, store.Delete(ctx, "k"))

	_, err := store.Get(ctx, "k")
	assert.ErrorIs(t, err, ports.ErrKeyNotFound)
}
