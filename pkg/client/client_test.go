package client_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marketctl/marketctl/internal/apitest"
	"github.com/marketctl/marketctl/pkg/client"
	"github.com/marketctl/marketctl/pkg/marketplace"
)

func newBackend(t *testing.T) *apitest.Server {
	t.Helper()
	backend := apitest.New()
	t.Cleanup(backend.Close)
	return backend
}

func TestHealth(t *testing.T) {
	t.Parallel()

	backend := newBackend(t)
	c := client.New(backend.URL())
	assert.NoError(t, c.Health(context.Background()))
}

func TestHealthUnreachable(t *testing.T) {
	t.Parallel()

	c := client.New("http://127.0.0.1:1")
	err := c.Health(context.Background())
	require.Error(t, err)

	apiErr, ok := client.AsAPIError(err)
	require.True(t, ok, "transport failures still surface as APIError")
	assert.Zero(t, apiErr.StatusCode)
	assert.Contains(t, apiErr.Message, "cannot reach marketplace API")
}

func TestListServicesWithQuery(t *testing.T) {
	t.Parallel()

	backend := newBackend(t)
	backend.SeedService(marketplace.Service{ID: "svc_1", Title: "Gutter cleaning", Status: marketplace.StatusPending, CategoryID: "cat_home"})
	backend.SeedService(marketplace.Service{ID: "svc_2", Title: "Dog walking", Status: marketplace.StatusApproved, CategoryID: "cat_pets"})
	backend.SeedService(marketplace.Service{ID: "svc_3", Title: "Deep cleaning", Status: marketplace.StatusApproved, CategoryID: "cat_home"})

	c := client.New(backend.URL())

	result, err := c.Services().List(context.Background(), marketplace.ListQuery{
		Status: marketplace.StatusApproved,
	})
	require.NoError(t, err)
	require.Len(t, result.Data, 2)
	assert.Equal(t, 2, result.Pagination.TotalItems)
	require.NotNil(t, result.Summary)
	assert.Equal(t, 2, result.Summary.Approved)

	result, err = c.Services().List(context.Background(), marketplace.ListQuery{Search: "cleaning"})
	require.NoError(t, err)
	assert.Len(t, result.Data, 2)

	result, err = c.Services().List(context.Background(), marketplace.ListQuery{CategoryID: "cat_pets"})
	require.NoError(t, err)
	require.Len(t, result.Data, 1)
	assert.Equal(t, "svc_2", result.Data[0].ID)
}

func TestListServicesPagination(t *testing.T) {
	t.Parallel()

	backend := newBackend(t)
	for i := 0; i < 25; i++ {
		backend.SeedService(marketplace.Service{Title: "Service", Status: marketplace.StatusApproved})
	}

	c := client.New(backend.URL())
	result, err := c.Services().List(context.Background(), marketplace.ListQuery{Page: 2, Limit: 10})
	require.NoError(t, err)

	assert.Len(t, result.Data, 10)
	assert.Equal(t, 2, result.Pagination.CurrentPage)
	assert.Equal(t, 3, result.Pagination.TotalPages)
	assert.Equal(t, 25, result.Pagination.TotalItems)
	assert.True(t, result.Pagination.HasNextPage)
	assert.True(t, result.Pagination.HasPrevPage)
}

func TestServiceCRUD(t *testing.T) {
	t.Parallel()

	backend := newBackend(t)
	c := client.New(backend.URL())
	ctx := context.Background()

	created, err := c.Services().Create(ctx, client.ServiceDraft{
		Title:      "Window washing",
		CategoryID: "cat_home",
		Price:      45,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, marketplace.StatusPending, created.Status, "new listings enter the queue pending")

	got, err := c.Services().Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Window washing", got.Title)

	updated, err := c.Services().Update(ctx, created.ID, client.ServiceDraft{
		Title: "Window washing deluxe",
		Price: 60,
	})
	require.NoError(t, err)
	assert.Equal(t, "Window washing deluxe", updated.Title)

	require.NoError(t, c.Services().Delete(ctx, created.ID))
	archived, ok := backend.Service(created.ID)
	require.True(t, ok)
	assert.Equal(t, marketplace.StatusArchived, archived.Status)
}

func TestGetServiceNotFound(t *testing.T) {
	t.Parallel()

	backend := newBackend(t)
	c := client.New(backend.URL())

	_, err := c.Services().Get(context.Background(), "svc_missing")
	require.Error(t, err)
	assert.True(t, client.IsNotFoundError(err))
	assert.False(t, client.IsAuthError(err))
}

func TestServiceTransitions(t *testing.T) {
	t.Parallel()

	backend := newBackend(t)
	seeded := backend.SeedService(marketplace.Service{Title: "Gutter cleaning", Status: marketplace.StatusPending})
	c := client.New(backend.URL())
	ctx := context.Background()

	svc, err := c.Services().Approve(ctx, seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, marketplace.StatusApproved, svc.Status)

	svc, err = c.Services().Flag(ctx, seeded.ID, "reported by user")
	require.NoError(t, err)
	assert.Equal(t, marketplace.StatusFlagged, svc.Status)

	svc, err = c.Services().Reject(ctx, seeded.ID, "prohibited item")
	require.NoError(t, err)
	assert.Equal(t, marketplace.StatusRejected, svc.Status)

	svc, err = c.Services().Restore(ctx, seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, marketplace.StatusPending, svc.Status)

	svc, err = c.Services().SetPopular(ctx, seeded.ID, true)
	require.NoError(t, err)
	assert.True(t, svc.Popular)
}

func TestBatchApprovePartialFailure(t *testing.T) {
	t.Parallel()

	backend := newBackend(t)
	a := backend.SeedService(marketplace.Service{Title: "A", Status: marketplace.StatusPending})
	b := backend.SeedService(marketplace.Service{Title: "B", Status: marketplace.StatusPending})
	c := client.New(backend.URL())

	result, err := c.Services().BatchApprove(context.Background(), []string{a.ID, "svc_missing", b.ID})
	require.NoError(t, err, "per-ID failures do not fail the batch call")

	assert.Equal(t, 3, result.Requested)
	assert.ElementsMatch(t, []string{a.ID, b.ID}, result.Succeeded)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, "svc_missing", result.Failed[0].ID)
	assert.False(t, result.AllSucceeded())
	assert.Error(t, result.Err())
}

func TestAuthRequired(t *testing.T) {
	t.Parallel()

	backend := newBackend(t)
	backend.RequireAuth("secret-token")
	backend.SeedService(marketplace.Service{Title: "A", Status: marketplace.StatusApproved})

	anon := client.New(backend.URL())
	_, err := anon.Services().List(context.Background(), marketplace.ListQuery{})
	require.Error(t, err)
	assert.True(t, client.IsAuthError(err))

	authed := client.New(backend.URL(), client.WithToken("secret-token"))
	result, err := authed.Services().List(context.Background(), marketplace.ListQuery{})
	require.NoError(t, err)
	assert.Len(t, result.Data, 1)
}

func TestForcedFailureSurfacesMessage(t *testing.T) {
	t.Parallel()

	backend := newBackend(t)
	backend.FailNext(1, 500, "database locked")
	c := client.New(backend.URL())

	_, err := c.Services().List(context.Background(), marketplace.ListQuery{})
	require.Error(t, err)

	apiErr, ok := client.AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, 500, apiErr.StatusCode)
	assert.Equal(t, "database locked", apiErr.Message)
}

func TestStats(t *testing.T) {
	t.Parallel()

	backend := newBackend(t)
	backend.SeedService(marketplace.Service{Title: "A", Status: marketplace.StatusPending})
	backend.SeedService(marketplace.Service{Title: "B", Status: marketplace.StatusFlagged})
	c := client.New(backend.URL())

	stats, err := c.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.PendingServices)
	assert.Equal(t, 1, stats.FlaggedServices)
}

func TestProfileVerify(t *testing.T) {
	t.Parallel()

	backend := newBackend(t)
	p := backend.SeedProfile(marketplace.ProviderProfile{DisplayTag: "Acme Plumbing"})
	c := client.New(backend.URL())

	verified, err := c.Profiles().SetVerified(context.Background(), p.ID, true)
	require.NoError(t, err)
	assert.True(t, verified.Verified)
}

func TestProfileGetAndUpdate(t *testing.T) {
	t.Parallel()

	backend := newBackend(t)
	p := backend.SeedProfile(marketplace.ProviderProfile{DisplayTag: "Acme Plumbing", Bio: "Pipes"})
	c := client.New(backend.URL())

	got, err := c.Profiles().Get(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme Plumbing", got.DisplayTag)

	updated, err := c.Profiles().Update(context.Background(), p.ID, client.ProfileDraft{
		DisplayName: "Acme Plumbing & Heating",
		Bio:         "Pipes and boilers",
	})
	require.NoError(t, err)
	assert.Equal(t, "Acme Plumbing & Heating", updated.DisplayTag)
	assert.Equal(t, "Pipes and boilers", updated.Bio)

	_, err = c.Profiles().Get(context.Background(), "prf_missing")
	apiErr, ok := client.AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, 404, apiErr.StatusCode)
}

func TestCategoryUpdateAndDelete(t *testing.T) {
	t.Parallel()

	backend := newBackend(t)
	cat := backend.SeedCategory(marketplace.Category{Name: "Cleaning", Slug: "cleaning"})
	c := client.New(backend.URL())

	updated, err := c.Categories().Update(context.Background(), cat.ID, client.CategoryDraft{
		Name: "Home Cleaning",
		Slug: "home-cleaning",
	})
	require.NoError(t, err)
	assert.Equal(t, "Home Cleaning", updated.Name)
	assert.Equal(t, "home-cleaning", updated.Slug)

	require.NoError(t, c.Categories().Delete(context.Background(), cat.ID))
	_, err = c.Categories().Get(context.Background(), cat.ID)
	apiErr, ok := client.AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, 404, apiErr.StatusCode)
}

func TestCategoryDeleteRefusedWhileInUse(t *testing.T) {
	t.Parallel()

	backend := newBackend(t)
	cat := backend.SeedCategory(marketplace.Category{Name: "Pets"})
	backend.SeedService(marketplace.Service{Title: "Dog walking", CategoryID: cat.ID})
	c := client.New(backend.URL())

	err := c.Categories().Delete(context.Background(), cat.ID)
	apiErr, ok := client.AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, 409, apiErr.StatusCode)
	assert.Contains(t, apiErr.Message, "category has services")
}
