package httpapi

import (
	_ "embed"
	"html/template"
)

// pageHTML contains the embedded voting page template.
//
//go:embed page.html
var pageHTML string

var pageTmpl = template.Must(template.New("page").Parse(pageHTML))

// pageData feeds the voting page template.
type pageData struct {
	Version   string
	RedisHost string
	Hostname  string
}
