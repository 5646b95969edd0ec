package banner

import (
	"bytes"
	"io"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

const logo = `
    __    __                            ______ ______ ____
   / /   / /   ____ _____ ___  ____ _  / ____//_  __// __ \
  / /   / /   / __ '/ __ '__ \/ __ '/ / /      / /  / / / /
 / /___/ /___/ /_/ / / / / / / /_/ / / /___   / /  / /_/ /
/_____/_____/\__,_/_/ /_/ /_/\__,_/  \____/  /_/   \____/
`

const defaultTemplate = logo + `
 {{ .Name | default "Llama Gin" }} v{{ .Version | default "0.0.0" }} ({{ .Environment | default "local" | lower }})
 Running on: http://{{ .Host | default "0.0.0.0" }}:{{ .Port }}
 Health:     http://{{ .Host | default "0.0.0.0" }}:{{ .Port }}/health
{{ repeat 58 "-" }}
`

type Info struct {
	Name        string
	Version     string
	Environment string
	Host        string
	Port        string
}

// Render executes tmplStr with sprig's text functions available.
func Render(tmplStr string, data any) (string, error) {
	tmpl, err := template.New("banner").Funcs(sprig.TxtFuncMap()).Parse(tmplStr)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Print writes the startup banner to w.
func Print(w io.Writer, info Info) error {
	out, err := Render(defaultTemplate, info)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}
