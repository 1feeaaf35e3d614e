package core

import (
	"bytes"
	htmltmpl "html/template"
	"io/fs"
	"net/mail"
	"path/filepath"
	"strings"
	"sync"
	texttmpl "text/template"

	"github.com/pkg/errors"
)

var (
	textTemplates *texttmpl.Template
	htmlTemplates *htmltmpl.Template
	tmplInit      sync.Once
	tmplInitErr   error
)

type (
	Attachment struct {
		Content     *bytes.Buffer
		ContentType string
		Filename    string
	}

	EmailMessage struct {
		To          []mail.Address
		Cc          []mail.Address
		Bcc         []mail.Address
		Subject     string
		BodyStr     string // simple text/plain, non-templated content
		Attachments []Attachment

		// templated contents
		TemplateName string // without ext
		TemplateData interface{}
		TextContent  string
		HTMLContent  string
	}

	// ContextData is the root context passed to every email template.
	ContextData struct {
		FrontendBaseURL string
		AppName         string
		Data            interface{}
	}

	// EmailService is any service that can send emails.
	EmailService interface {
		// SendMessages sends messages concurrently
		SendMessages(messages ...*EmailMessage)
	}
)

// InitEmailTemplates parses the `.txt` and `.gohtml` email templates
// found under dir in the given fs.
func InitEmailTemplates(fsys fs.FS, dir string) error {
	tmplInit.Do(func() {
		textTemplates, tmplInitErr = texttmpl.ParseFS(fsys, filepath.Join(dir, "*.txt"))
		if tmplInitErr != nil {
			tmplInitErr = errors.Wrap(tmplInitErr, "parsing text email templates")
			return
		}
		htmlTemplates, tmplInitErr = htmltmpl.ParseFS(fsys, filepath.Join(dir, "*.gohtml"))
		if tmplInitErr != nil {
			tmplInitErr = errors.Wrap(tmplInitErr, "parsing html email templates")
		}
	})
	return tmplInitErr
}

func (m *EmailMessage) getContextData(conf *Config) ContextData {
	return ContextData{
		FrontendBaseURL: conf.FrontendBaseURL,
		AppName:         conf.AppName,
		Data:            m.TemplateData,
	}
}

func (m *EmailMessage) renderText(conf *Config) error {
	if m.BodyStr != "" {
		m.TextContent = m.BodyStr
		return nil
	}
	if m.TemplateName == "" || textTemplates == nil {
		return nil
	}
	tmpl := textTemplates.Lookup(m.TemplateName + ".txt")
	if tmpl == nil {
		return nil
	}
	var buff bytes.Buffer
	if err := tmpl.Execute(&buff, m.getContextData(conf)); err != nil {
		return errors.Wrap(err, "rendering text email")
	}
	m.TextContent = buff.String()
	return nil
}

func (m *EmailMessage) renderHTML(conf *Config) error {
	if m.TemplateName == "" || htmlTemplates == nil {
		return nil
	}
	tmpl := htmlTemplates.Lookup(m.TemplateName + ".gohtml")
	if tmpl == nil {
		return nil
	}
	var buff bytes.Buffer
	if err := tmpl.Execute(&buff, m.getContextData(conf)); err != nil {
		return errors.Wrap(err, "rendering html email")
	}
	m.HTMLContent = buff.String()
	return nil
}

// Render renders both the text and HTML contents of the message.
func (m *EmailMessage) Render(conf *Config) error {
	if err := m.renderText(conf); err != nil {
		return err
	}
	return m.renderHTML(conf)
}

func (m *EmailMessage) HasRecipients() bool {
	return len(m.To)+len(m.Cc)+len(m.Bcc) > 0
}

func (m *EmailMessage) HasContent() bool {
	return strings.TrimSpace(m.TextContent) != "" || strings.TrimSpace(m.HTMLContent) != ""
}

func (m *EmailMessage) HasAttachments() bool {
	return len(m.Attachments) > 0
}
