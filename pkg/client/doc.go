// Package client implements the HTTP client for the marketplace REST API.
//
// A Client wraps the API root URL, timeout, and bearer token, and exposes one
// typed method set per resource: Services, Categories, and Profiles. Every
// method takes a context and returns either decoded entities or an *APIError
// carrying the server's status code and message. Callers never read response
// bodies or status codes themselves; errors.As (or the AsAPIError helper) is
// the only inspection the layers above ever need.
//
//	c := client.New("http://localhost:4380", client.WithToken(token))
//	page, err := c.Services().List(ctx, marketplace.ListQuery{Status: marketplace.StatusPending})
//
// Batch moderation endpoints (BatchApprove, BatchReject, BatchDelete) accept
// the full ID list in a single request and return a per-ID BatchResult; the
// server does not abort on the first failure.
package client
