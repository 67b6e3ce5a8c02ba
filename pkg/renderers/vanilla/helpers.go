package vanilla

import (
	"strconv"
	"strings"

	"github.com/goliatone/go-jsonform/pkg/renderers/vanilla/components"
)

func componentControlID(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return ""
	}
	return "fg-" + trimmed
}

func componentLabelID(name string) string {
	if id := componentControlID(name); id != "" {
		return id + "-label"
	}
	return ""
}

func componentErrorID(name string) string {
	if id := componentControlID(name); id != "" {
		return id + "-error"
	}
	return ""
}

func optionID(name string, idx int) string {
	return componentControlID(name) + "-" + strconv.Itoa(idx)
}

// datalistID keeps the "{name}-list" id the browser binds through list=.
func datalistID(name string) string {
	return strings.TrimSpace(name) + "-list"
}

// labelSupportsFor reports whether the component has a single control a
// <label for> can point at. Option groups are labelled through
// aria-labelledby instead.
func labelSupportsFor(componentName string) bool {
	switch componentName {
	case components.NameRadio, components.NameCheckbox:
		return false
	default:
		return true
	}
}
