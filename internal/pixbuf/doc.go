// Package pixbuf exercises a gdk-pixbuf loader plugin from outside the
// library: it writes a module file (the format gdk-pixbuf-query-loaders
// produces) registering the plugin, points GDK_PIXBUF_MODULE_FILE at it for a
// child process only, and runs a loader executable against an input image.
package pixbuf
