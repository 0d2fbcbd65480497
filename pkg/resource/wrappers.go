package resource

import (
	"context"

	"github.com/marketctl/marketctl/pkg/client"
	"github.com/marketctl/marketctl/pkg/marketplace"
)

// Services is the controller for the services collection, with the
// moderation transitions that resource supports.
type Services struct {
	*Controller[marketplace.Service, client.ServiceDraft]
	api client.ServiceAPI
}

// NewServices builds a services controller over the given remote API.
func NewServices(api client.ServiceAPI, opts ...Option) *Services {
	ctrl := New(Remote[marketplace.Service, client.ServiceDraft]{
		List:   api.List,
		Get:    api.Get,
		Create: api.Create,
		Update: api.Update,
		Delete: api.Delete,
	}, opts...)
	return &Services{Controller: ctrl, api: api}
}

// API returns the underlying remote method set, for batch coordination.
func (s *Services) API() client.ServiceAPI { return s.api }

// Approve transitions one service to approved.
func (s *Services) Approve(ctx context.Context, id string) (*marketplace.Service, error) {
	return s.Act(ctx, "Approved", func(ctx context.Context) (*marketplace.Service, error) {
		return s.api.Approve(ctx, id)
	})
}

// Reject transitions one service to rejected.
func (s *Services) Reject(ctx context.Context, id, reason string) (*marketplace.Service, error) {
	return s.Act(ctx, "Rejected", func(ctx context.Context) (*marketplace.Service, error) {
		return s.api.Reject(ctx, id, reason)
	})
}

// Restore moves an archived service back to pending.
func (s *Services) Restore(ctx context.Context, id string) (*marketplace.Service, error) {
	return s.Act(ctx, "Restored", func(ctx context.Context) (*marketplace.Service, error) {
		return s.api.Restore(ctx, id)
	})
}

// Flag marks a service for re-review.
func (s *Services) Flag(ctx context.Context, id, reason string) (*marketplace.Service, error) {
	return s.Act(ctx, "Flagged", func(ctx context.Context) (*marketplace.Service, error) {
		return s.api.Flag(ctx, id, reason)
	})
}

// SetPopular toggles the featured flag on a service.
func (s *Services) SetPopular(ctx context.Context, id string, popular bool) (*marketplace.Service, error) {
	verb := "Featured"
	if !popular {
		verb = "Unfeatured"
	}
	return s.Act(ctx, verb, func(ctx context.Context) (*marketplace.Service, error) {
		return s.api.SetPopular(ctx, id, popular)
	})
}

// Categories is the controller for the categories collection.
type Categories struct {
	*Controller[marketplace.Category, client.CategoryDraft]
	api client.CategoryAPI
}

// NewCategories builds a categories controller over the given remote API.
func NewCategories(api client.CategoryAPI, opts ...Option) *Categories {
	ctrl := New(Remote[marketplace.Category, client.CategoryDraft]{
		List:   api.List,
		Get:    api.Get,
		Create: api.Create,
		Update: api.Update,
		Delete: api.Delete,
	}, opts...)
	return &Categories{Controller: ctrl, api: api}
}

// SetActive toggles whether the category accepts new listings.
func (c *Categories) SetActive(ctx context.Context, id string, active bool) (*marketplace.Category, error) {
	verb := "Activated"
	if !active {
		verb = "Deactivated"
	}
	return c.Act(ctx, verb, func(ctx context.Context) (*marketplace.Category, error) {
		return c.api.SetActive(ctx, id, active)
	})
}

// SetPopular toggles the featured flag on a category.
func (c *Categories) SetPopular(ctx context.Context, id string, popular bool) (*marketplace.Category, error) {
	verb := "Featured"
	if !popular {
		verb = "Unfeatured"
	}
	return c.Act(ctx, verb, func(ctx context.Context) (*marketplace.Category, error) {
		return c.api.SetPopular(ctx, id, popular)
	})
}

// Profiles is the controller for the provider-profile collection.
type Profiles struct {
	*Controller[marketplace.ProviderProfile, client.ProfileDraft]
	api client.ProfileAPI
}

// NewProfiles builds a profiles controller over the given remote API.
// Profiles cannot be created or deleted from this client.
func NewProfiles(api client.ProfileAPI, opts ...Option) *Profiles {
	ctrl := New(Remote[marketplace.ProviderProfile, client.ProfileDraft]{
		List: api.List,
		Get:  api.Get,
		Update: func(ctx context.Context, id string, draft client.ProfileDraft) (*marketplace.ProviderProfile, error) {
			return api.Update(ctx, id, draft)
		},
	}, opts...)
	return &Profiles{Controller: ctrl, api: api}
}

// SetVerified toggles the verified badge on a profile.
func (p *Profiles) SetVerified(ctx context.Context, id string, verified bool) (*marketplace.ProviderProfile, error) {
	verb := "Verified"
	if !verified {
		verb = "Unverified"
	}
	return p.Act(ctx, verb, func(ctx context.Context) (*marketplace.ProviderProfile, error) {
		return p.api.SetVerified(ctx, id, verified)
	})
}
