// Package cli provides the command-line interface for marketctl.
//
// Commands:
//   - services: List, create, update, delete, and transition service listings
//   - categories: Manage categories and their active/popular flags
//   - profiles: List provider profiles and manage verification badges
//   - moderate: Review the moderation queue and run bulk actions
//   - context: Manage named backend + token pairs, kubeconfig-style
//   - whoami: Decode the configured auth token
//   - health: Check backend reachability
//   - version: Show version information
//
// Commands talk to the marketplace backend over its admin HTTP API. The API
// URL and token resolve from --api-url, then MARKETCTL_API_URL and
// MARKETCTL_TOKEN, then the active context, then defaults.
//
// Usage:
//
//	marketctl services list --status pending
//	marketctl services approve svc_123
//	marketctl moderate approve --all
//	marketctl moderate reject --ids svc_1,svc_2 --reason "prohibited item"
//	marketctl context add staging https://staging.example.com --token TOKEN
//	marketctl context use staging
package cli
