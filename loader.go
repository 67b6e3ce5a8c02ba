package jsonform

import (
	internalLoader "github.com/goliatone/go-jsonform/internal/formschema/loader"
	"github.com/goliatone/go-jsonform/pkg/formschema"
)

// NewLoader constructs a loader using the internal implementation while keeping
// the concrete type hidden from consumers.
func NewLoader(options ...formschema.LoaderOption) formschema.Loader {
	cfg := formschema.NewLoaderOptions(options...)
	return internalLoader.New(cfg)
}
