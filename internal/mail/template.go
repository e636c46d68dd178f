package mail

import (
	"bytes"
	"html/template"
)

type activationData struct {
	FirstName string
	URL       string
	ExpireAt  string
}

var activationTmpl = template.Must(template.New("activation").Parse(`<!DOCTYPE html>
<html lang="en">
  <head>
    <meta charset="UTF-8">
  </head>
  <body>
    <h1>Hi {{.FirstName}}</h1>
    <p>To activate your account, click on the link below:</p><br>
    <a href="{{.URL}}">{{.URL}}</a>
    <p>The link expires at {{.ExpireAt}} UTC.</p>
  </body>
</html>`))

func renderActivation(data activationData) (string, error) {
	var buf bytes.Buffer
	if err := activationTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
