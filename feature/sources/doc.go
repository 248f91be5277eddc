// Package sources holds the HTTP plumbing shared by the collection sources:
// a rate limited, retrying page fetcher and the pagination loop that turns a
// failure after the first page into a *reconcile.PartialError.
//
// The provider specific clients live in the bgg and jsonapi sub-packages.
package sources
