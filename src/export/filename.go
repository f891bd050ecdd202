package export

import (
	"net/url"
	"regexp"
	"strings"
)

// DefaultPrefix names reports whose response carries no usable filename.
const DefaultPrefix = "ChemViz_Report"

var (
	extFilenameRe = regexp.MustCompile(`(?i)filename\*\s*=\s*([^']*)'[^']*'([^;\n]*)`)
	filenameRe    = regexp.MustCompile(`(?i)filename\s*=\s*(?:"([^"]*)"|'([^']*)'|([^;\n]*))`)
)

// FallbackFilename is the templated name used when the header yields nothing.
func FallbackFilename(id, prefix string) string {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return prefix + "_" + id + ".pdf"
}

// ResolveFilename extracts the download name from a Content-Disposition header. Only an
// attachment disposition is honoured. Quoted, unquoted and RFC 5987 (filename*=UTF-8''...)
// forms are accepted and any directory part is dropped. It never fails: anything unusable
// yields FallbackFilename(id, prefix).
func ResolveFilename(header, id, prefix string) string {
	fallback := FallbackFilename(id, prefix)
	if !strings.Contains(strings.ToLower(header), "attachment") {
		return fallback
	}
	var name string
	if m := extFilenameRe.FindStringSubmatch(header); m != nil {
		if v, err := url.PathUnescape(strings.TrimSpace(m[2])); err == nil {
			name = v
		}
	}
	if name == "" {
		if m := filenameRe.FindStringSubmatch(header); m != nil {
			name = m[1] + m[2] + m[3]
		}
	}
	name = sanitize(name)
	if name == "" {
		return fallback
	}
	return name
}

func sanitize(name string) string {
	name = strings.TrimSpace(strings.Trim(strings.TrimSpace(name), `"'`))
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	name = strings.TrimSpace(name)
	if name == "." || name == ".." {
		return ""
	}
	return name
}
