package web

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"

	"github.com/jrsteele09/go-bank-client/internal/utils"
	"github.com/jrsteele09/go-bank-client/session"
	"github.com/rs/zerolog/log"
)

//go:embed templates/*
var templateFiles embed.FS

const (
	contentTypeHTML = "text/html; charset=utf-8"
	layoutTemplate  = "layout.html"
)

var pageTemplates = []string{
	"index.html",
	"login.html",
	"register.html",
	"dashboard.html",
	"cards.html",
	"card_new.html",
	"invoices.html",
	"transactions.html",
	"transaction_new.html",
}

var templateFuncs = template.FuncMap{
	"money": func(v float64) string { return fmt.Sprintf("%.2f", v) },
	"maskCard": func(number string) string {
		if len(number) <= 4 {
			return number
		}
		return strings.Repeat("•", 4) + " " + number[len(number)-4:]
	},
	"deref": func(v *string) string { return utils.Value(v) },
	"lower": strings.ToLower,
}

func TemplateFilesFS() fs.FS {
	subFS, err := fs.Sub(templateFiles, "templates")
	if err != nil {
		panic("Failed to create templates sub filesystem: " + err.Error())
	}
	return subFS
}

// ParseTemplate parses a page from the embedded filesystem together with the shared layout
func ParseTemplate(name string) (*template.Template, error) {
	return template.New(layoutTemplate).Funcs(templateFuncs).ParseFS(TemplateFilesFS(), layoutTemplate, name)
}

func (s *Server) parsePages() error {
	s.pages = make(map[string]*template.Template, len(pageTemplates))
	for _, name := range pageTemplates {
		tmpl, err := ParseTemplate(name)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		s.pages[name] = tmpl
	}
	return nil
}

// pageData is what every page template receives
type pageData struct {
	AppName       string
	Title         string
	Authenticated bool
	User          *session.Identity
	Error         string
	Content       any
}

// render writes page name. An empty errMsg falls back to the ?error= flash.
func (s *Server) render(w http.ResponseWriter, r *http.Request, name, title string, content any, errMsg string) {
	tmpl, ok := s.pages[name]
	if !ok {
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}
	if errMsg == "" {
		errMsg = r.URL.Query().Get("error")
	}
	current := s.sessions.Current()
	data := pageData{
		AppName:       s.appName,
		Title:         title,
		Authenticated: current.IsAuthenticated(),
		User:          current.User,
		Error:         errMsg,
		Content:       content,
	}

	w.Header().Set("Content-Type", contentTypeHTML)
	if err := tmpl.Execute(w, data); err != nil {
		log.Err(err).Str("template", name).Msg("Failed to render template")
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
	}
}
