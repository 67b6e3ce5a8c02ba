package jsonform

import (
	"io/fs"

	"github.com/goliatone/go-jsonform/pkg/dashboard"
	"github.com/goliatone/go-jsonform/pkg/renderers/vanilla"
)

// EmbeddedTemplates exposes the built-in vanilla renderer templates so callers
// can copy or override them without importing the renderer package directly.
func EmbeddedTemplates() fs.FS {
	return vanilla.TemplatesFS()
}

// DashboardTemplates exposes the built-in dashboard templates.
func DashboardTemplates() fs.FS {
	return dashboard.TemplatesFS()
}

// AssetsFS exposes the stylesheet served next to rendered forms.
//
// Typical mount:
//
//	mux.Handle("/assets/",
//	  http.StripPrefix("/assets/",
//	    http.FileServerFS(jsonform.AssetsFS()),
//	  ),
//	)
func AssetsFS() fs.FS {
	return vanilla.AssetsFS()
}
