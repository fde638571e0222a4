package email

import "fmt"

// Base carries the layout fields every template renders.
type Base struct {
	Title    string `json:"title"`
	Heading  string `json:"heading"`
	CTALabel string `json:"ctaLabel,omitempty"`
	CTAURL   string `json:"ctaUrl,omitempty"`
}

// InquiryData feeds both inquiry templates.
type InquiryData struct {
	Base
	InquiryID       string   `json:"inquiryId"`
	InquiryType     string   `json:"inquiryType"`
	Name            string   `json:"name"`
	Email           string   `json:"email"`
	Phone           string   `json:"phone,omitempty"`
	Message         string   `json:"message"`
	PropertyAddress string   `json:"propertyAddress,omitempty"`
	PropertyPrice   *int64   `json:"propertyPrice,omitempty"`
}

// ImportSummaryData feeds the import summary template.
type ImportSummaryData struct {
	Base
	StartedAt     string `json:"startedAt"`
	Elapsed       string `json:"elapsed"`
	Loaded        int    `json:"loaded"`
	Skipped       int    `json:"skipped"`
	Rejected      int    `json:"rejected"`
	Lost          int    `json:"lost"`
	Files         int    `json:"files"`
	FileErrors    int    `json:"fileErrors"`
	Batches       int    `json:"batches"`
	FailedBatches int    `json:"failedBatches"`
	Error         string `json:"error,omitempty"`
	ReportKey     string `json:"reportKey,omitempty"`
}

// NewData returns an empty data value for the named template, ready to be
// decoded into.
func NewData(templateName string) (any, error) {
	switch templateName {
	case TemplateInquiryNotification, TemplateInquiryConfirmation:
		return &InquiryData{}, nil
	case TemplateImportSummary:
		return &ImportSummaryData{}, nil
	default:
		return nil, fmt.Errorf("unknown email template %q", templateName)
	}
}
