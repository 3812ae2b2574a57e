package clients_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"repairdesk/internal/core/apperror"
	"repairdesk/internal/core/id"
	"repairdesk/internal/domain/clients"
	"repairdesk/internal/infrastructure/storage/memory"
)

var now = time.Date(2026, time.October, 14, 10, 0, 0, 0, time.UTC)

func newService() *clients.Service {
	return clients.NewService(memory.New[clients.Client](clients.Kind), func() time.Time { return now })
}

func TestService_CreateAndLookup(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	c, err := svc.Create(ctx, clients.Client{Name: "  Ivan Sidorov ", Phone: "+7 900 000-00-01"})
	require.NoError(t, err)
	assert.Equal(t, "Ivan Sidorov", c.Name)
	assert.Equal(t, now, c.CreatedAt)

	name, found, err := svc.LookupName(ctx, c.ID)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "Ivan Sidorov", name)

	_, found, err = svc.LookupName(ctx, id.New())
	require.NoError(t, err)
	assert.False(t, found, "missing client is not an error")
}

func TestService_CreateValidates(t *testing.T) {
	_, err := newService().Create(context.Background(), clients.Client{Name: "No phone"})
	assert.True(t, apperror.IsValidation(err))
}

func TestService_ListSearch(t *testing.T) {
	ctx := context.Background()
	svc := newService()
	for _, c := range []clients.Client{
		{Name: "Ivan Sidorov", Phone: "111"},
		{Name: "Olga Ivanova", Phone: "222"},
		{Name: "Petr Smirnov", Phone: "333"},
	} {
		_, err := svc.Create(ctx, c)
		require.NoError(t, err)
	}

	got, err := svc.List(ctx, "ivan")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Ivan Sidorov", got[0].Name)
	assert.Equal(t, "Olga Ivanova", got[1].Name)

	got, err = svc.List(ctx, "333")
	require.NoError(t, err)
	require.Len(t, got, 1)
}

func TestService_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	c, err := svc.Create(ctx, clients.Client{Name: "Old", Phone: "1"})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, c.ID, clients.Client{Name: "New", Phone: "2"})
	require.NoError(t, err)
	assert.Equal(t, c.CreatedAt, updated.CreatedAt)

	got, err := svc.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "New", got.Name)

	require.NoError(t, svc.Delete(ctx, c.ID))
	_, err = svc.Get(ctx, c.ID)
	assert.True(t, apperror.IsNotFound(err))
}

func TestCreatedSince(t *testing.T) {
	snapshot := []clients.Client{
		{Name: "a", CreatedAt: now.Add(-48 * time.Hour)},
		{Name: "b", CreatedAt: now.Add(-time.Hour)},
		{Name: "c", CreatedAt: now},
	}
	assert.Equal(t, 2, clients.CreatedSince(snapshot, now.Add(-24*time.Hour)))
	assert.Equal(t, 1, clients.CreatedSince(snapshot, now))
}
