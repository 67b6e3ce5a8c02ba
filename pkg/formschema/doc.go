// Package formschema defines the form document model (FormSchema, FieldSpec,
// Validation), the submitted value model (FormValues) and the plumbing to
// decode JSON or YAML documents from files, fs.FS entries or URLs.
//
// A document looks like:
//
//	{
//	  "title": "Contact",
//	  "fields": [
//	    {"name": "email", "label": "Email", "type": "email",
//	     "validation": {"required": true, "pattern": "^.+@.+\\..+$"}}
//	  ]
//	}
//
// Decode validates the document against an embedded JSON Schema before
// building the Go value.
package formschema
