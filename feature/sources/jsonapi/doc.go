// Package jsonapi fetches a user's game collection from a paginated JSON API
// authenticated with a bearer token. It is the SourceB collaborator of the
// reconciliation engine.
package jsonapi
