// Package web 内嵌页面模板、静态资源与关于页文案，二进制与测试共用同一份文件。
package web

import (
	"embed"
	"html/template"
	"io/fs"
)

//go:embed template/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// AboutMarkdown is the source of the about page.
//
//go:embed content/about.md
var AboutMarkdown string

// Templates parses every page and fragment template with funcs.
func Templates(funcs template.FuncMap) (*template.Template, error) {
	return template.New("").Funcs(funcs).ParseFS(templateFS, "template/*.html")
}

// Static returns the embedded assets rooted at static/.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
