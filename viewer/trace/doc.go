// Package trace stores the named one-dimensional series of a spectrum
// together with their display state.
//
// A trace is replaced wholesale by [Store.Set]; its extrema are scanned once
// at that point, ignoring NaN entries, and seed the user-adjustable clip
// bounds. Lookups on unknown names fail soft and report ok == false.
package trace
