package email

const (
	subjectInquiryNotification = "New property inquiry"
	subjectInquiryConfirmation = "We received your inquiry"
	subjectImportSummary       = "Property import finished"
)

// Subject returns the subject line for a template.
func Subject(templateName string) string {
	switch templateName {
	case TemplateInquiryNotification:
		return subjectInquiryNotification
	case TemplateInquiryConfirmation:
		return subjectInquiryConfirmation
	case TemplateImportSummary:
		return subjectImportSummary
	default:
		return "HomeFinder"
	}
}
