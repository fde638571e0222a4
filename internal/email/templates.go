package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

// Template names understood by Render.
const (
	TemplateInquiryNotification = "inquiry_notification"
	TemplateInquiryConfirmation = "inquiry_confirmation"
	TemplateImportSummary       = "import_summary"
)

// Render executes the named template inside the shared base layout.
func Render(name string, data any) (string, error) {
	templates := []string{"templates/base.html", "templates/" + name + ".html"}
	tmpl, err := template.New("base.html").Funcs(template.FuncMap{
		"usd": formatCurrencyUSD,
	}).ParseFS(templateFS, templates...)
	if err != nil {
		return "", fmt.Errorf("parse email template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "email", data); err != nil {
		return "", fmt.Errorf("execute email template %s: %w", name, err)
	}
	return buf.String(), nil
}

func formatCurrencyUSD(amount any) string {
	switch v := amount.(type) {
	case int64:
		return fmt.Sprintf("$%d", v)
	case *int64:
		if v == nil {
			return ""
		}
		return fmt.Sprintf("$%d", *v)
	case float64:
		return fmt.Sprintf("$%.0f", v)
	default:
		return fmt.Sprint(v)
	}
}
