package helpers

import (
	"fmt"
	"strings"

	"github.com/oksasatya/go-task-manager/pkg/mailer"
)

// EnsureRecipientAndEmail fills the template's Email/RecipientEmail from job.To when absent.
func EnsureRecipientAndEmail(job *mailer.EmailJob) {
	if job.Data == nil {
		job.Data = map[string]any{}
	}
	if v, ok := job.Data["Email"]; !ok || fmt.Sprintf("%v", v) == "" {
		job.Data["Email"] = job.To
	}
	if v, ok := job.Data["RecipientEmail"]; !ok || fmt.Sprintf("%v", v) == "" {
		job.Data["RecipientEmail"] = job.To
	}
}

// NormalizeTemplate lowercases the template name and falls back to the
// data's Type when the job carries no explicit template.
func NormalizeTemplate(job *mailer.EmailJob) {
	job.Template = strings.ToLower(strings.TrimSpace(job.Template))
	if job.Template != "" || job.Data == nil {
		return
	}
	if t, ok := job.Data["Type"]; ok {
		job.Template = strings.ToLower(fmt.Sprintf("%v", t))
	}
}
