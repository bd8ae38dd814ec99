package llm

import (
	_ "embed"
	"strings"
)

var (
	//go:embed prompts/role.txt
	coverLetterRole string
	//go:embed prompts/task.txt
	coverLetterTask string
	//go:embed prompts/rules.txt
	coverLetterRules string
)

// CoverLetterInstructions is the top-level behavioral instruction sent
// alongside every cover letter prompt.
const CoverLetterInstructions = "Responses must be conversational but professional"

// BuildCoverLetterPrompt assembles the cover letter instructions in a fixed
// order: role, task, job description, resume, rules.
// Callers must ensure jobDescription is non-empty.
func BuildCoverLetterPrompt(resumeText, jobDescription string) string {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(coverLetterRole))
	b.WriteString("\n\n")
	b.WriteString(strings.TrimSpace(coverLetterTask))
	b.WriteString("\n\nJob Description:\n")
	b.WriteString(jobDescription)
	b.WriteString("\n\nResume:\n")
	b.WriteString(resumeText)
	b.WriteString("\n\nRules:\n")
	b.WriteString(strings.TrimSpace(coverLetterRules))
	b.WriteString("\n")
	return b.String()
}
