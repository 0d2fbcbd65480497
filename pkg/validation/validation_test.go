package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marketctl/marketctl/pkg/client"
)

func TestValidateServiceDraft(t *testing.T) {
	t.Parallel()

	result, err := ValidatePayload(ResourceService, client.ServiceDraft{
		Title:      "Deep house cleaning",
		CategoryID: "cat_1",
		Price:      79.5,
	})
	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.NoError(t, result.Err())
}

func TestValidateServiceDraftFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		draft client.ServiceDraft
		field string
	}{
		{
			name:  "title too short",
			draft: client.ServiceDraft{Title: "ab", CategoryID: "cat_1", Price: 10},
			field: "title",
		},
		{
			name:  "negative price",
			draft: client.ServiceDraft{Title: "Lawn mowing", CategoryID: "cat_1", Price: -5},
			field: "price",
		},
		{
			name:  "missing category",
			draft: client.ServiceDraft{Title: "Lawn mowing", Price: 10},
			field: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			result, err := ValidatePayload(ResourceService, tt.draft)
			require.NoError(t, err)
			assert.False(t, result.Valid)
			require.NotEmpty(t, result.Errors)
			assert.Error(t, result.Err())

			found := false
			for _, fe := range result.Errors {
				if fe.Field == tt.field {
					found = true
				}
			}
			assert.True(t, found, "expected an error on field %q, got %v", tt.field, result.Errors)
		})
	}
}

func TestValidateCategoryDraft(t *testing.T) {
	t.Parallel()

	result, err := ValidatePayload(ResourceCategory, client.CategoryDraft{
		Name: "Home Services",
		Slug: "home-services",
	})
	require.NoError(t, err)
	assert.True(t, result.Valid)

	result, err = ValidatePayload(ResourceCategory, client.CategoryDraft{
		Name: "Home Services",
		Slug: "Home Services!",
	})
	require.NoError(t, err)
	assert.False(t, result.Valid)
}

func TestValidateProfileDraft(t *testing.T) {
	t.Parallel()

	result, err := ValidatePayload(ResourceProfile, client.ProfileDraft{
		DisplayName: "Acme Plumbing",
		Bio:         "Licensed and insured.",
	})
	require.NoError(t, err)
	assert.True(t, result.Valid)

	result, err = ValidatePayload(ResourceProfile, map[string]any{"bio": "no name"})
	require.NoError(t, err)
	assert.False(t, result.Valid)
}

func TestValidateUnknownResource(t *testing.T) {
	t.Parallel()

	_, err := ValidatePayload("widget", map[string]any{})
	assert.Error(t, err)
}
