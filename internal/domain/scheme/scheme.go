package scheme

import (
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"path"
	"strings"
)

// Handler serves the resource behind a custom-scheme URI.
type Handler func(uri string) ([]byte, error)

// Protocol is a custom URI scheme registered on a webview, e.g. "wry" for
// wry://index.html.
type Protocol struct {
	Name    string
	Handler Handler
}

// Validate checks that the scheme name is usable in a URI.
func (p Protocol) Validate() error {
	if p.Handler == nil {
		return fmt.Errorf("protocol %q: nil handler", p.Name)
	}
	if p.Name == "" {
		return fmt.Errorf("protocol name is required")
	}
	for i, r := range p.Name {
		alpha := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		if i == 0 && !alpha {
			return fmt.Errorf("protocol %q: must start with a letter", p.Name)
		}
		if !alpha && !(r >= '0' && r <= '9') && r != '+' && r != '-' && r != '.' {
			return fmt.Errorf("protocol %q: invalid character %q", p.Name, r)
		}
	}
	switch strings.ToLower(p.Name) {
	case "http", "https", "file", "about", "data", "javascript":
		return fmt.Errorf("protocol %q is reserved", p.Name)
	}
	return nil
}

// Matches reports whether uri uses this protocol's scheme.
func (p Protocol) Matches(uri string) bool {
	u, err := url.Parse(uri)
	return err == nil && strings.EqualFold(u.Scheme, p.Name)
}

// Serve runs the handler and returns the body with its MIME type.
func (p Protocol) Serve(uri string) ([]byte, string, error) {
	data, err := p.Handler(uri)
	if err != nil {
		return nil, "", fmt.Errorf("protocol %s: %w", p.Name, err)
	}
	return data, MimeType(data, uri), nil
}

// MimeType picks the content type for a custom-scheme response. The URI's
// extension wins; content sniffing is the fallback.
func MimeType(data []byte, uri string) string {
	p := uri
	if u, err := url.Parse(uri); err == nil {
		p = u.Path
		if p == "" {
			p = u.Opaque
		}
		if p == "" {
			p = u.Host
		}
	}
	if ext := path.Ext(p); ext != "" {
		if t := mime.TypeByExtension(ext); t != "" {
			return t
		}
	}
	return http.DetectContentType(data)
}
