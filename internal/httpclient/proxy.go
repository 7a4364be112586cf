package httpclient

import (
	"fmt"
	"strings"
)

// WebshareProxyConfig describes a rotating Webshare proxy.
type WebshareProxyConfig struct {
	Username string
	Password string
	Domain   string // defaults to p.webshare.io
	Port     int    // defaults to 80
}

func (w *WebshareProxyConfig) url() string {
	if w == nil || strings.TrimSpace(w.Username) == "" || strings.TrimSpace(w.Password) == "" {
		return ""
	}
	domain := w.Domain
	if domain == "" {
		domain = "p.webshare.io"
	}
	port := w.Port
	if port == 0 {
		port = 80
	}
	return fmt.Sprintf("http://%s-rotate:%s@%s:%d/", w.Username, w.Password, domain, port)
}
