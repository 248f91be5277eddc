// Package bgg fetches a user's board game collection from an XML collection
// API. It is the SourceA collaborator of the reconciliation engine.
//
// Collections are requested page by page. The upstream answers 202 while it
// prepares a collection; such answers are retried like rate limits and server
// errors.
package bgg
