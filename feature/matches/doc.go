// Package matches is the match store: the only writer of committed matches.
//
// Matches live in the game_matches table with two unique indexes per account
// pair, one on the A item (provider id and variant id) and one on the B item.
// ProposeMatches checks both sides against the stored state before every
// insert, one candidate per transaction, so earlier candidates of a batch block
// later ones. A stored match keeps both of its items claimed even when one of
// them has left its collection; refused claims are logged with the blocking
// match.
//
// The feature also exposes the housekeeping routes:
//
//	GET    /matches        list
//	POST   /matches        accept a manual pair
//	DELETE /matches/:id    remove one match
//	DELETE /matches        clear the account pair (confirm=true)
package matches
