package mail

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"
	"time"

	"github.com/VaneSolis/Sitio-AFAD/internal/ports/notify"
)

// message es un email ya renderizado.
type message struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

var methodLabels = map[string]string{
	"paypal":        "PayPal",
	"transferencia": "Transferencia bancaria",
	"efectivo":      "Efectivo en refugio",
}

func methodLabel(m string) string {
	if l, ok := methodLabels[m]; ok {
		return l
	}
	return m
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

var funcs = map[string]any{
	"money":    func(v float64) string { return fmt.Sprintf("$%.2f", v) },
	"method":   methodLabel,
	"date":     func(t time.Time) string { return t.Format("02/01/2006") },
	"stamp":    func(t time.Time) string { return t.Format("02/01/2006 15:04") },
	"fallback": orDefault,
}

// html/template escapa los valores ingresados por el usuario (nombre, mensaje).
var htmlTpl = htmltemplate.Must(htmltemplate.New("mail").Funcs(funcs).Parse(`
{{define "receipt"}}<!DOCTYPE html>
<html lang="es"><body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
<div style="background: #ff6b35; color: #fff; padding: 24px; text-align: center;">
<h1>¡Gracias por tu donación!</h1><p>AFAD - Albergue Franciscano del Animal Desprotegido</p></div>
<div style="padding: 24px; background: #f8f9fa;">
<h2>Hola {{.D.Name}},</h2>
<p>Recibimos tu donación. Tu apoyo nos ayuda a seguir rescatando y cuidando animales en situación de calle.</p>
<p><strong>Monto:</strong> {{money .D.Amount}}</p>
<p><strong>Método de pago:</strong> {{method .D.Method}}</p>
<p><strong>Referencia:</strong> <code>{{.D.Reference}}</code></p>
<p><strong>Fecha:</strong> {{date .D.Date}}</p>
<p><a href="{{.SiteURL}}">Visitar nuestro sitio</a></p>
</div></body></html>{{end}}

{{define "admin_donation"}}<!DOCTYPE html>
<html lang="es"><body style="font-family: Arial, sans-serif;">
<h1>Nueva donación recibida</h1>
<p><strong>Donante:</strong> {{.D.Name}}</p>
<p><strong>Email:</strong> {{.D.Email}}</p>
<p><strong>Teléfono:</strong> {{fallback .D.Phone "No proporcionado"}}</p>
<p><strong>Monto:</strong> {{money .D.Amount}}</p>
<p><strong>Método de pago:</strong> {{method .D.Method}}</p>
<p><strong>Mensaje:</strong> {{fallback .D.Message "Sin mensaje"}}</p>
<p><strong>Fecha:</strong> {{stamp .D.Date}}</p>
<p>ID de donación: {{.D.ID}} ({{.D.Reference}})</p>
</body></html>{{end}}

{{define "admin_contact"}}<!DOCTYPE html>
<html lang="es"><body style="font-family: Arial, sans-serif;">
<h1>Nuevo mensaje de contacto</h1>
<p><strong>De:</strong> {{.C.Name}}</p>
<p><strong>Email:</strong> {{.C.Email}}</p>
<p><strong>Teléfono:</strong> {{fallback .C.Phone "No proporcionado"}}</p>
<p><strong>Mensaje:</strong></p>
<p>{{.C.Message}}</p>
<p>Fecha: {{stamp .C.Date}}</p>
</body></html>{{end}}
`))

var textTpl = texttemplate.Must(texttemplate.New("mail").Funcs(funcs).Parse(`
{{define "receipt"}}¡Gracias por tu donación, {{.D.Name}}!

Detalles de tu donación:
- Monto: {{money .D.Amount}}
- Método de pago: {{method .D.Method}}
- Referencia: {{.D.Reference}}
- Fecha: {{date .D.Date}}

AFAD - Albergue Franciscano del Animal Desprotegido
{{.SiteURL}}
{{end}}
`))

type view struct {
	D       notify.DonationMail
	C       notify.ContactMail
	SiteURL string
}

func render(name string, v view, withText bool) (html, text string, err error) {
	var hb bytes.Buffer
	if err := htmlTpl.ExecuteTemplate(&hb, name, v); err != nil {
		return "", "", fmt.Errorf("render %s: %w", name, err)
	}
	if !withText {
		return hb.String(), "", nil
	}

	var tb bytes.Buffer
	if err := textTpl.ExecuteTemplate(&tb, name, v); err != nil {
		return "", "", fmt.Errorf("render %s text: %w", name, err)
	}
	return hb.String(), tb.String(), nil
}

func receipt(d notify.DonationMail, siteURL string) (message, error) {
	html, text, err := render("receipt", view{D: d, SiteURL: siteURL}, true)
	if err != nil {
		return message{}, err
	}
	return message{
		To:      d.Email,
		Subject: "Confirmación de Donación - " + d.Reference,
		HTML:    html,
		Text:    text,
	}, nil
}

func adminDonation(d notify.DonationMail, adminEmail string) (message, error) {
	html, _, err := render("admin_donation", view{D: d}, false)
	if err != nil {
		return message{}, err
	}
	return message{
		To:      adminEmail,
		Subject: fmt.Sprintf("Nueva Donación - $%.2f - %s", d.Amount, d.Name),
		HTML:    html,
	}, nil
}

func adminContact(c notify.ContactMail, adminEmail string) (message, error) {
	html, _, err := render("admin_contact", view{C: c}, false)
	if err != nil {
		return message{}, err
	}
	return message{
		To:      adminEmail,
		Subject: "Nuevo Mensaje de Contacto - " + c.Name,
		HTML:    html,
	}, nil
}
