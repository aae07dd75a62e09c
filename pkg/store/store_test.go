package store

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKV(t *testing.T) {
	db, err := OpenBadger(t.TempDir())
	require.NoError(t, err)
	defer db.Close()

	tests := []struct {
		name string
		kv   KV
	}{
		{name: "memory", kv: NewMemory()},
		{name: "badger", kv: db},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()

			_, err := tt.kv.Get(ctx, "instance/missing")
			assert.True(t, errors.Is(err, ErrNotFound))

			require.NoError(t, tt.kv.Put(ctx, "instance/1", []byte("one")))
			require.NoError(t, tt.kv.Put(ctx, "instance/2", []byte("two")))
			require.NoError(t, tt.kv.Put(ctx, "other/1", []byte("other")))

			got, err := tt.kv.Get(ctx, "instance/1")
			assert.NoError(t, err)
			assert.Equal(t, []byte("one"), got)

			list, err := tt.kv.List(ctx, "instance/")
			assert.NoError(t, err)
			assert.Equal(t, map[string][]byte{
				"instance/1": []byte("one"),
				"instance/2": []byte("two"),
			}, list)

			require.NoError(t, tt.kv.Delete(ctx, "instance/1"))
			_, err = tt.kv.Get(ctx, "instance/1")
			assert.True(t, errors.Is(err, ErrNotFound))
		})
	}
}
