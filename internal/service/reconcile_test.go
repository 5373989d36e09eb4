package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	id   uint
	name string
}

func rowKey(r row) uint { return r.id }

func TestReconcile(t *testing.T) {
	existing := []row{{1, "a"}, {2, "b"}, {3, "c"}}
	requested := []row{{3, "c2"}, {0, "new"}, {1, "a2"}, {42, "unknown"}}

	diff, err := Reconcile(existing, requested, rowKey, rowKey)
	require.NoError(t, err)

	assert.Equal(t, []row{{2, "b"}}, diff.Delete)

	require.Len(t, diff.Update, 2)
	assert.Equal(t, row{3, "c"}, diff.Update[0].Existing)
	assert.Equal(t, "c2", diff.Update[0].Requested.name)
	assert.Equal(t, 0, diff.Update[0].Position)
	assert.Equal(t, 2, diff.Update[1].Position)

	require.Len(t, diff.Insert, 2)
	assert.Equal(t, "new", diff.Insert[0].Requested.name)
	assert.Equal(t, 1, diff.Insert[0].Position)
	assert.Equal(t, uint(42), diff.Insert[1].Requested.id)
	assert.Equal(t, 3, diff.Insert[1].Position)
}

func TestReconcileEmptyRequestDeletesEverything(t *testing.T) {
	existing := []row{{1, "a"}, {2, "b"}}

	diff, err := Reconcile(existing, nil, rowKey, rowKey)
	require.NoError(t, err)
	assert.Equal(t, existing, diff.Delete)
	assert.Empty(t, diff.Update)
	assert.Empty(t, diff.Insert)
}

func TestReconcileDuplicateKey(t *testing.T) {
	existing := []row{{1, "a"}}

	_, err := Reconcile(existing, []row{{1, "x"}, {1, "y"}}, rowKey, rowKey)
	var dup *DuplicateKeyError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, uint(1), dup.Key)
}

func TestReconcileRepeatedNewEntries(t *testing.T) {
	diff, err := Reconcile(nil, []row{{0, "x"}, {0, "y"}}, rowKey, rowKey)
	require.NoError(t, err)
	assert.Len(t, diff.Insert, 2)
}
