// Package mesoninfo reads the introspection data meson writes under
// <build-root>/meson-info. Only the target list is consumed; the report is
// loaded once and never mutated.
package mesoninfo
