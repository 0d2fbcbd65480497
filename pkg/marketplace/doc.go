// Package marketplace defines the entity model shared by the marketctl
// client, state, and CLI layers.
//
// The types here mirror what the marketplace backend serves: provider-submitted
// Services, browsing Categories, and ProviderProfiles, each carrying a
// moderation Status. The client treats all of them as server-owned records —
// the only hard requirement is a stable ID, captured by the Entity interface.
//
// OwnerRef handles the backend's polymorphic owner fields, which arrive either
// as a bare user ID or as an embedded user object depending on the endpoint.
// It keeps the discriminant explicit so consumers never shape-sniff JSON.
package marketplace
