package notify

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"
	"time"
)

const leadHTML = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"></head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
<div style="max-width: 600px; margin: 0 auto; padding: 20px;">
  <div style="background: #f97316; color: white; padding: 20px; border-radius: 8px 8px 0 0;">
    <h1 style="margin: 0;">Thông báo khách hàng mới</h1>
    <p style="margin: 10px 0 0 0;">{{.ActionLabel}}</p>
  </div>
  <div style="background: #f9fafb; padding: 20px; border: 1px solid #e5e7eb;">
    <p style="background: #fff7ed; border-left: 4px solid #f97316; padding: 10px 15px;"><strong>Thời gian:</strong> {{.Timestamp}}</p>
    <p><strong>Họ và tên:</strong><br>{{.FullName}}</p>
    <p><strong>Số điện thoại:</strong><br><a href="tel:{{.Phone}}" style="color: #f97316;">{{.Phone}}</a></p>
{{- if .Email}}
    <p><strong>Email:</strong><br><a href="mailto:{{.Email}}" style="color: #f97316;">{{.Email}}</a></p>
{{- end}}
{{- if .Address}}
    <p><strong>Địa chỉ:</strong><br>{{.Address}}</p>
{{- end}}
{{- if .ProductName}}
    <p><strong>Sản phẩm quan tâm:</strong><br><span style="color: #f97316; font-weight: bold;">{{.ProductName}}</span></p>
{{- end}}
{{- if .Message}}
    <p><strong>Lời nhắn:</strong><br>{{.Message}}</p>
{{- end}}
    <p><strong>Nguồn:</strong><br>{{.Source}}</p>
  </div>
  <div style="background: #1f2937; color: #9ca3af; padding: 15px; text-align: center; font-size: 12px;">
    <p>Email này được gửi tự động từ hệ thống {{.Brand}}</p>
  </div>
</div>
</body>
</html>
`

const leadText = `Thông báo khách hàng mới: {{.ActionLabel}}

Thời gian: {{.Timestamp}}
Họ và tên: {{.FullName}}
Số điện thoại: {{.Phone}}
{{- if .Email}}
Email: {{.Email}}
{{- end}}
{{- if .Address}}
Địa chỉ: {{.Address}}
{{- end}}
{{- if .ProductName}}
Sản phẩm quan tâm: {{.ProductName}}
{{- end}}
{{- if .Message}}
Lời nhắn: {{.Message}}
{{- end}}
Nguồn: {{.Source}}

-- {{.Brand}}
`

var (
	leadHTMLTemplate = htmltemplate.Must(htmltemplate.New("lead_html").Parse(leadHTML))
	leadTextTemplate = texttemplate.Must(texttemplate.New("lead_text").Parse(leadText))
)

// RenderedEmail is a notification ready to hand to an EmailSender.
type RenderedEmail struct {
	Subject string
	Text    string
	HTML    string
}

type templateData struct {
	Payload
	Brand     string
	Timestamp string
}

// Render builds the subject and both bodies for p. Times are shown in loc.
func Render(p Payload, brand string, loc *time.Location) (RenderedEmail, error) {
	if loc == nil {
		loc = LoadLocation(DefaultTimezone)
	}
	data := templateData{
		Payload:   p,
		Brand:     brand,
		Timestamp: p.SentAt.In(loc).Format(TimestampLayout),
	}

	var html, text bytes.Buffer
	if err := leadHTMLTemplate.Execute(&html, data); err != nil {
		return RenderedEmail{}, fmt.Errorf("notify: render html: %w", err)
	}
	if err := leadTextTemplate.Execute(&text, data); err != nil {
		return RenderedEmail{}, fmt.Errorf("notify: render text: %w", err)
	}

	return RenderedEmail{
		Subject: Subject(brand, p),
		Text:    text.String(),
		HTML:    html.String(),
	}, nil
}

// Subject formats "[Brand] <label> - <name>".
func Subject(brand string, p Payload) string {
	label := p.ActionLabel
	if label == "" {
		label = ActionLabel(p.Action)
	}
	return fmt.Sprintf("[%s] %s - %s", strings.TrimSpace(brand), label, p.FullName)
}
