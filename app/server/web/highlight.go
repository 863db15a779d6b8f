package web

import (
	"bytes"
	"html/template"
	"mime"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	log "github.com/go-pkgz/lgr"
)

// lexerByMediaType maps RDF and SPARQL result media types to chroma lexers.
// Types not listed here are looked up by chroma's own mime type registry.
var lexerByMediaType = map[string]string{
	"text/turtle":                     "turtle",
	"application/n-triples":           "turtle",
	"text/n3":                         "turtle",
	"application/ld+json":             "json",
	"application/json":                "json",
	"application/sparql-results+json": "json",
	"application/rdf+xml":             "xml",
	"application/sparql-results+xml":  "xml",
	"application/xml":                 "xml",
	"text/xml":                        "xml",
	"application/sparql-query":        "sparql",
	"application/sparql-update":       "sparql",
	"text/html":                       "html",
}

// Highlighter renders repository payloads as highlighted HTML.
type Highlighter struct {
	formatter *html.Formatter
}

// NewHighlighter makes a highlighter emitting inline styles, no stylesheet is needed.
func NewHighlighter() *Highlighter {
	return &Highlighter{formatter: html.New(html.WithClasses(false), html.TabWidth(2))}
}

// Code highlights code of the given content type using the named chroma style.
// Unknown content types are rendered as escaped plain text.
func (h *Highlighter) Code(code, contentType, style string) template.HTML {
	lexer := lexerFor(contentType)
	if lexer == nil {
		return plain(code)
	}
	lexer = chroma.Coalesce(lexer)

	st := styles.Get(style)
	if st == nil {
		st = styles.Fallback
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		log.Printf("[DEBUG] failed to tokenise %s: %v", contentType, err)
		return plain(code)
	}
	var buf bytes.Buffer
	if err := h.formatter.Format(&buf, st, iterator); err != nil {
		log.Printf("[DEBUG] failed to format %s: %v", contentType, err)
		return plain(code)
	}
	return template.HTML(buf.String()) //nolint:gosec // chroma escapes token values
}

// IsText reports whether contentType is something the console can show as text.
func IsText(contentType string) bool {
	mt := mediaType(contentType)
	if mt == "" || strings.HasPrefix(mt, "text/") {
		return true
	}
	if _, ok := lexerByMediaType[mt]; ok {
		return true
	}
	return strings.HasSuffix(mt, "+json") || strings.HasSuffix(mt, "+xml")
}

func lexerFor(contentType string) chroma.Lexer {
	mt := mediaType(contentType)
	if name, ok := lexerByMediaType[mt]; ok {
		return lexers.Get(name)
	}
	if mt == "" {
		return nil
	}
	return lexers.MatchMimeType(mt)
}

// mediaType strips parameters such as charset.
func mediaType(contentType string) string {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return mt
}

func plain(code string) template.HTML {
	return template.HTML("<pre>" + template.HTMLEscapeString(code) + "</pre>") //nolint:gosec // escaped above
}
