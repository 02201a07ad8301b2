package taxrate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoport/internal/core/apperror"
	"invoport/internal/core/id"
	"invoport/internal/core/types"
)

type fakeTx struct{}

func (fakeTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// fakeRepo keeps tax rates in memory keyed by id.
type fakeRepo struct {
	rates map[id.ID]*TaxRate
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{rates: make(map[id.ID]*TaxRate)}
}

func (f *fakeRepo) Create(ctx context.Context, rate *TaxRate) error {
	f.rates[rate.ID] = rate
	return nil
}

func (f *fakeRepo) GetByID(ctx context.Context, rateID id.ID) (*TaxRate, error) {
	if r, ok := f.rates[rateID]; ok {
		return r, nil
	}
	return nil, apperror.NewNotFound("tax rate", rateID)
}

func (f *fakeRepo) FindByName(ctx context.Context, name string) (*TaxRate, error) {
	for _, r := range f.rates {
		if r.Name == name {
			return r, nil
		}
	}
	return nil, apperror.NewNotFound("tax rate", name)
}

func (f *fakeRepo) UnsetDefault(ctx context.Context) error {
	for _, r := range f.rates {
		r.IsDefault = false
	}
	return nil
}

func (f *fakeRepo) MarkDefault(ctx context.Context, rateID id.ID) error {
	r, ok := f.rates[rateID]
	if !ok {
		return apperror.NewNotFound("tax rate", rateID)
	}
	r.IsDefault = true
	return nil
}

func (f *fakeRepo) Purge(ctx context.Context) (int64, error) {
	n := int64(len(f.rates))
	f.rates = make(map[id.ID]*TaxRate)
	return n, nil
}

var _ Repository = (*fakeRepo)(nil)

func TestSetDefault_FlipsPreviousDefault(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc := NewService(repo, fakeTx{})

	old := New("VAT 21", types.MustMoney("21"))
	old.IsDefault = true
	require.NoError(t, repo.Create(ctx, old))

	next := New("VAT 9", types.MustMoney("9"))
	require.NoError(t, repo.Create(ctx, next))

	require.NoError(t, svc.SetDefault(ctx, next))

	assert.False(t, repo.rates[old.ID].IsDefault)
	assert.True(t, repo.rates[next.ID].IsDefault)
	assert.True(t, next.IsDefault)
}

func TestSetDefault_UnknownRate(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc := NewService(repo, fakeTx{})

	ghost := New("Ghost", types.MustMoney("5"))
	err := svc.SetDefault(ctx, ghost)
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}
