package pixbuf

import (
	"fmt"
	"io"
	"strings"
)

// ModuleFileEnv is the variable gdk-pixbuf reads the module file path from.
const ModuleFileEnv = "GDK_PIXBUF_MODULE_FILE"

// Signature is one magic-byte pattern of a loader. Prefix and Mask are
// written verbatim, so escapes such as \x1f stay as text.
type Signature struct {
	Prefix    string
	Mask      string
	Relevance int
}

// Module is one loader entry of a gdk-pixbuf module file.
type Module struct {
	Path        string
	Name        string
	Flags       int
	Domain      string
	Description string
	License     string
	MimeTypes   []string
	Extensions  []string
	Signatures  []Signature
}

// SVGModule returns the registration of librsvg's SVG loader plugin at path.
func SVGModule(path string) Module {
	return Module{
		Path:        path,
		Name:        "svg",
		Flags:       2,
		Domain:      "librsvg",
		Description: "Scalable Vector Graphics",
		License:     "LGPL",
		MimeTypes: []string{
			"image/svg+xml",
			"image/svg",
			"image/svg-xml",
			"image/vnd.adobe.svg+xml",
			"text/xml-svg",
			"image/svg+xml-compressed",
		},
		Extensions: []string{"svg", "svgz", "svg.gz"},
		Signatures: []Signature{
			{Prefix: " <svg", Mask: "*    ", Relevance: 100},
			{Prefix: " <!DOCTYPE svg", Mask: "*             ", Relevance: 100},
			{Prefix: `\x1f\x8b\x08`, Mask: "   ", Relevance: 10},
		},
	}
}

// WriteTo writes the module entry followed by the blank separator line.
func (m Module) WriteTo(w io.Writer) (int64, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n", quote(m.Path))
	fmt.Fprintf(&b, "%s %d %s %s %s\n", quote(m.Name), m.Flags, quote(m.Domain), quote(m.Description), quote(m.License))
	b.WriteString(quotedList(m.MimeTypes))
	b.WriteString(quotedList(m.Extensions))
	for _, sig := range m.Signatures {
		fmt.Fprintf(&b, "%s %s %d\n", quote(sig.Prefix), quote(sig.Mask), sig.Relevance)
	}
	b.WriteString("\n")

	n, err := io.WriteString(w, b.String())
	return int64(n), err
}

// String renders the entry as it appears in the module file.
func (m Module) String() string {
	var b strings.Builder
	_, _ = m.WriteTo(&b)
	return b.String()
}

// quotedList writes an empty-string terminated list on one line.
func quotedList(items []string) string {
	parts := make([]string, 0, len(items)+1)
	for _, it := range items {
		parts = append(parts, quote(it))
	}
	parts = append(parts, quote(""))
	return strings.Join(parts, " ") + "\n"
}

func quote(s string) string {
	return `"` + s + `"`
}
