package web

import (
	_ "embed"
	"html/template"
	"strings"
)

//go:embed templates/index.html
var indexHTML string

var templateFuncs = template.FuncMap{
	"join": strings.Join,
}

var pageTemplate = template.Must(template.New("index").Funcs(templateFuncs).Parse(indexHTML))
