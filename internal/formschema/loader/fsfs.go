package loader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"
)

func loadFromFS(ctx context.Context, files fs.FS, name string) ([]byte, error) {
	if name == "" {
		return nil, errors.New("formschema loader: fs path is required")
	}
	if files == nil {
		return nil, errors.New("formschema loader: fs is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// fs.FS paths are slash separated and unrooted.
	name = strings.TrimPrefix(name, "/")
	data, err := fs.ReadFile(files, name)
	if err != nil {
		return nil, fmt.Errorf("formschema loader: read %q: %w", name, err)
	}
	return data, nil
}
