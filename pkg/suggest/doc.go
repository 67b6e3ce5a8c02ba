// Package suggest ranks the declared options of a choice or autocomplete
// field against a typed query and serves the matches as JSON, so clients can
// fetch suggestions instead of shipping every option in the page.
//
// Matching is case-insensitive substring search; prefix matches sort first.
package suggest
