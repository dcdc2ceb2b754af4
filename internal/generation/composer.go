package generation

import (
	"fmt"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// DefaultQuestionCount is how many questions the prompt asks for.
const DefaultQuestionCount = 10

// Composer turns a Request into a provider prompt.
type Composer struct {
	sanitizer     *bluemonday.Policy
	questionCount int
}

// NewComposer builds a composer asking for questionCount questions (DefaultQuestionCount when <= 0).
func NewComposer(questionCount int) *Composer {
	if questionCount <= 0 {
		questionCount = DefaultQuestionCount
	}
	return &Composer{
		sanitizer:     bluemonday.StrictPolicy(),
		questionCount: questionCount,
	}
}

// Compose renders the prompt. Only the certification is required.
func (c *Composer) Compose(req Request) (string, error) {
	certification := c.clean(req.Certification)
	if certification == "" {
		return "", CallerFailure(MessageCertificationRequired)
	}

	domains := make([]string, 0, len(req.Descriptions))
	for _, description := range req.Descriptions {
		if cleaned := c.clean(description); cleaned != "" {
			domains = append(domains, cleaned)
		}
	}

	builder := strings.Builder{}
	builder.WriteString(fmt.Sprintf("Generate %d multiple-choice practice questions for the %s certification exam.\n", c.questionCount, certification))

	if len(domains) > 0 {
		builder.WriteString("\n## Domains\n")
		for i, domain := range domains {
			builder.WriteString(fmt.Sprintf("%d. %s\n", i+1, domain))
		}
		builder.WriteString("Spread the questions across the domains above.\n")
	}

	if instruction := c.clean(req.CustomPrompt); instruction != "" {
		builder.WriteString("\n## Additional Instructions\n")
		builder.WriteString(instruction)
		builder.WriteString("\n")
	}

	builder.WriteString("\n## Format\n")
	builder.WriteString("Return only a JSON array. Each element must be an object with:\n")
	builder.WriteString(`- "text": the question` + "\n")
	builder.WriteString(`- "options": an array of 4 answer options` + "\n")
	builder.WriteString(`- "correctIndex": the zero-based index of the correct option` + "\n")
	builder.WriteString(`Example: [{"text":"Which service stores objects?","options":["S3","EC2","VPC","IAM"],"correctIndex":0}]`)
	builder.WriteString("\n")

	return builder.String(), nil
}

// clean strips markup and collapses whitespace. The policy escapes entities, which are restored for the prompt.
func (c *Composer) clean(value string) string {
	sanitized := html.UnescapeString(c.sanitizer.Sanitize(value))
	return strings.Join(strings.Fields(sanitized), " ")
}
