package messaging

import (
	"bytes"
	_ "embed"
	"fmt"
	"text/template"

	"gopkg.in/yaml.v3"

	"github.com/arcagent/arcagent/internal/model"
)

//go:embed notices.yaml
var defaultNotices []byte

type catalogFile struct {
	VerificationCode    string            `yaml:"verification_code"`
	PINSetupLink        string            `yaml:"pin_setup_link"`
	Welcome             string            `yaml:"welcome"`
	ConfirmationRequest string            `yaml:"confirmation_request"`
	Receipt             string            `yaml:"receipt"`
	Cancelled           string            `yaml:"cancelled"`
	Reply               string            `yaml:"reply"`
	Errors              map[string]string `yaml:"errors"`
}

// Catalog renders outbound notices from templates.
type Catalog struct {
	templates map[model.NoticeKind]*template.Template
	errors    map[string]string
}

var funcs = template.FuncMap{
	"shortHash": ShortHash,
}

// DefaultCatalog parses the embedded templates.
func DefaultCatalog() (*Catalog, error) {
	return ParseCatalog(defaultNotices)
}

// ParseCatalog parses a YAML template document.
func ParseCatalog(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse notice catalog: %w", err)
	}
	if f.Errors[model.ErrorGeneral] == "" {
		return nil, fmt.Errorf("notice catalog: missing errors.%s", model.ErrorGeneral)
	}

	c := &Catalog{
		templates: make(map[model.NoticeKind]*template.Template),
		errors:    f.Errors,
	}
	for kind, text := range map[model.NoticeKind]string{
		model.NoticeVerificationCode:    f.VerificationCode,
		model.NoticePINSetupLink:        f.PINSetupLink,
		model.NoticeWelcome:             f.Welcome,
		model.NoticeConfirmationRequest: f.ConfirmationRequest,
		model.NoticeReceipt:             f.Receipt,
		model.NoticeCancelled:           f.Cancelled,
		model.NoticeReply:               f.Reply,
	} {
		if text == "" {
			return nil, fmt.Errorf("notice catalog: missing template %s", kind)
		}
		tmpl, err := template.New(string(kind)).Funcs(funcs).Option("missingkey=error").Parse(text)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", kind, err)
		}
		c.templates[kind] = tmpl
	}
	return c, nil
}

// Render produces the message body for a notice. Error notices look up
// data.ErrorKind and fall back to the general error text.
func (c *Catalog) Render(kind model.NoticeKind, data model.NoticeData) (string, error) {
	if kind == model.NoticeError {
		if msg, ok := c.errors[data.ErrorKind]; ok {
			return msg, nil
		}
		return c.errors[model.ErrorGeneral], nil
	}

	tmpl, ok := c.templates[kind]
	if !ok {
		return "", fmt.Errorf("unknown notice kind %q", kind)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s: %w", kind, err)
	}
	return buf.String(), nil
}

// ShortHash abbreviates a transaction hash for display.
func ShortHash(hash string) string {
	if len(hash) <= 18 {
		return hash
	}
	return hash[:10] + "..." + hash[len(hash)-8:]
}
