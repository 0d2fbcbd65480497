// Package validation checks draft payloads against JSON Schema before they
// reach the backend. Catching a bad draft locally keeps a form submission
// from burning a round trip, and keeps error messages addressed to the field
// that caused them.
package validation
