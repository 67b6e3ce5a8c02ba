package vanilla

import (
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"
)

// StaticTheme serves a single manifest as a theme.ThemeSelector. Empty
// names select the manifest itself; a variant must exist on the manifest.
func StaticTheme(manifest *theme.Manifest) theme.ThemeSelector {
	return staticSelector{manifest: manifest}
}

type staticSelector struct {
	manifest *theme.Manifest
}

func (s staticSelector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	if s.manifest == nil {
		return nil, errors.New("vanilla theme: manifest is nil")
	}
	if name != "" && name != s.manifest.Name {
		return nil, fmt.Errorf("vanilla theme: theme %q not found", name)
	}
	if variant != "" {
		if _, ok := s.manifest.Variants[variant]; !ok {
			return nil, fmt.Errorf("vanilla theme: variant %q not found in %q", variant, s.manifest.Name)
		}
	}
	return &theme.Selection{Theme: s.manifest.Name, Variant: variant, Manifest: s.manifest}, nil
}

// ThemeConfig flattens a selection into the renderer view: variant templates,
// tokens and asset files override the base manifest, and every token becomes
// a "--token" CSS custom property.
func ThemeConfig(selection *theme.Selection) *theme.RendererConfig {
	if selection == nil {
		return nil
	}
	cfg := &theme.RendererConfig{
		Theme:   selection.Theme,
		Variant: selection.Variant,
	}
	manifest := selection.Manifest
	if manifest == nil {
		return cfg
	}

	partials := mergeStrings(manifest.Templates, nil)
	tokens := mergeStrings(manifest.Tokens, nil)
	prefix := manifest.Assets.Prefix
	files := mergeStrings(manifest.Assets.Files, nil)
	if variant, ok := manifest.Variants[selection.Variant]; ok {
		partials = mergeStrings(partials, variant.Templates)
		tokens = mergeStrings(tokens, variant.Tokens)
		files = mergeStrings(files, variant.Assets.Files)
		if variant.Assets.Prefix != "" {
			prefix = variant.Assets.Prefix
		}
	}

	cfg.Partials = partials
	cfg.Tokens = tokens
	if len(tokens) > 0 {
		cfg.CSSVars = make(map[string]string, len(tokens))
		for key, value := range tokens {
			cfg.CSSVars["--"+strings.TrimPrefix(key, "--")] = value
		}
	}
	cfg.AssetURL = func(key string) string {
		file := files[key]
		if file == "" {
			return ""
		}
		if strings.Contains(file, "://") || prefix == "" {
			return file
		}
		return path.Join(prefix, file)
	}
	return cfg
}

// cssVarsStyle renders custom properties as an inline style declaration
// list, sorted by name.
func cssVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, key+": "+vars[key])
	}
	return strings.Join(parts, "; ")
}

func mergeStrings(base, overrides map[string]string) map[string]string {
	if len(base) == 0 && len(overrides) == 0 {
		return nil
	}
	out := make(map[string]string, len(base)+len(overrides))
	for key, value := range base {
		out[key] = value
	}
	for key, value := range overrides {
		out[key] = value
	}
	return out
}
