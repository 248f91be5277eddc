// Package matcher is the fuzzy match gateway.
//
// Residual items of both collections are listed in a bounded prompt (at most
// max_names per side, deduplicated, sorted, evenly sampled) and sent to an
// OpenAI compatible chat model. The answer is untrusted text: Extract reads a
// match list out of it by strict parse, then fenced code blocks, then a
// bracket balanced scan, and accepts only the expected shapes. Every exchange
// can be written to object storage under audit/matcher/.
//
// A failing service or an unusable answer never fails a sync run; the gateway
// returns no candidates and a diagnostic.
package matcher
