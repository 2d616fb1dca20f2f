package web

import (
	"embed"
	"io/fs"
	"net/http"
)

var (
	//go:embed static/*
	embeddedStaticFiles embed.FS

	//go:embed templates/*
	embeddedTemplates embed.FS
)

// templatesFS serves the embedded dashboard templates rooted at templates/.
func templatesFS() http.FileSystem {
	sub, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		// the directory is embedded at build time
		panic(err)
	}

	return http.FS(sub)
}
