// Package openapi builds form schemas from OpenAPI 3 operations. The request
// body of an operation becomes a flat list of fields; nested objects are not
// expanded.
//
// Widget and option hints travel as vendor extensions:
//
//	x-formgen-order:   [full_name, email]     (on the object schema)
//	x-formgen-widget:  textarea | autocomplete | radio | checkbox | select
//	x-formgen-options: [Canada, Japan]
package openapi
