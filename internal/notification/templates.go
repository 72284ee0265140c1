package notification

import (
	"bytes"
	"fmt"
	"html/template"
)

var drawTemplate = template.Must(template.New("draw").Parse(
	`<p>Você está participando do amigo secreto do grupo "{{.GroupName}}". <br/><br/>
O seu amigo secreto é <strong>"{{.ReceiverName}}"</strong>!</p>`))

var loginTemplate = template.Must(template.New("login").Parse(
	`<p>Olá{{if .Name}}, {{.Name}}{{end}}!</p>
<p>Use o link abaixo para entrar no Amigo Secreto. Ele expira em {{.TTL}}.</p>
<p><a href="{{.Link}}">Entrar</a></p>`))

// DrawSubject is the subject line of the assignment e-mail
func DrawSubject(groupName string) string {
	return "Sorteio de Amigo Secreto - " + groupName
}

// ComposeDrawMessage builds the e-mail telling giver who they drew
func ComposeDrawMessage(from string, giver Recipient, receiverName, groupName string) (Message, error) {
	var body bytes.Buffer
	err := drawTemplate.Execute(&body, map[string]string{
		"GroupName":    groupName,
		"ReceiverName": receiverName,
	})
	if err != nil {
		return Message{}, fmt.Errorf("render draw message: %w", err)
	}

	return Message{
		From:    from,
		To:      giver.Email,
		Subject: DrawSubject(groupName),
		HTML:    body.String(),
	}, nil
}

// ComposeLoginMessage builds the magic-link e-mail
func ComposeLoginMessage(from, to, name, link, ttl string) (Message, error) {
	var body bytes.Buffer
	err := loginTemplate.Execute(&body, map[string]string{
		"Name": name,
		"Link": link,
		"TTL":  ttl,
	})
	if err != nil {
		return Message{}, fmt.Errorf("render login message: %w", err)
	}

	return Message{
		From:    from,
		To:      to,
		Subject: "Seu link de acesso ao Amigo Secreto",
		HTML:    body.String(),
	}, nil
}
