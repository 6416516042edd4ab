package cached

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"streetpaws/internal/adapters/storage/memory"
	"streetpaws/internal/domain/helplines"
)

type countingRepo struct {
	helplines.Repository
	lists  int
	counts int
	fail   bool
}

func (r *countingRepo) List(ctx context.Context) ([]helplines.Helpline, error) {
	r.lists++
	if r.fail {
		return nil, errors.New("db down")
	}
	return r.Repository.List(ctx)
}

func (r *countingRepo) Count(ctx context.Context) (int, error) {
	r.counts++
	return r.Repository.Count(ctx)
}

func TestHelplines_ListIsCached(t *testing.T) {
	ctx := context.Background()
	base := &countingRepo{Repository: memory.NewStore().Helplines()}
	c := NewHelplines(base, time.Minute)

	_, err := c.Create(ctx, helplines.DefaultDirectory[0])
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		items, err := c.List(ctx)
		require.NoError(t, err)
		assert.Len(t, items, 1)
	}
	assert.Equal(t, 1, base.lists)
}

func TestHelplines_CreateInvalidates(t *testing.T) {
	ctx := context.Background()
	base := &countingRepo{Repository: memory.NewStore().Helplines()}
	c := NewHelplines(base, time.Minute)

	n, err := c.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	svc := helplines.NewService(c)
	inserted, err := svc.Seed(ctx, helplines.DefaultDirectory)
	require.NoError(t, err)
	assert.Equal(t, len(helplines.DefaultDirectory), inserted)

	n, err = c.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(helplines.DefaultDirectory), n)

	items, err := c.List(ctx)
	require.NoError(t, err)
	assert.Len(t, items, len(helplines.DefaultDirectory))
}

func TestHelplines_ErrorsAreNotCached(t *testing.T) {
	ctx := context.Background()
	base := &countingRepo{Repository: memory.NewStore().Helplines(), fail: true}
	c := NewHelplines(base, time.Minute)

	_, err := c.List(ctx)
	require.Error(t, err)

	base.fail = false
	_, err = c.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, base.lists)
}

func TestWrap_KeepsOtherRepos(t *testing.T) {
	base := memory.NewStore()
	s := Wrap(base, time.Minute)

	assert.IsType(t, &Helplines{}, s.Helplines())
	assert.NotNil(t, s.Animals())
	assert.NoError(t, s.Close())
}
