package emaildoc

import (
	"fmt"
	"regexp"
	"strings"
)

// Severity grades a validation finding. Structural issues are advisory
// warnings; security findings are errors. The validator reports, it does
// not strip or enforce: whether an error blocks save or send is the
// caller's policy.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Finding is one validation result entry.
type Finding struct {
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

var (
	scriptTagPattern    = regexp.MustCompile(`(?i)<script`)
	jsSchemePattern     = regexp.MustCompile(`(?i)javascript:`)
	eventHandlerPattern = regexp.MustCompile(`(?i)\bon\w+\s*=`)

	// Recognizes opening and closing tags by name. Comments and the
	// doctype declaration start with "<!" and are never matched.
	tagPattern = regexp.MustCompile(`<(/?)([a-zA-Z][a-zA-Z0-9-]*)([^>]*?)(/?)>`)
)

// Void elements are never pushed on the open-tag stack.
var voidElements = map[string]bool{
	"br": true, "hr": true, "img": true, "input": true, "link": true,
	"meta": true, "area": true, "base": true, "col": true, "embed": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// ValidateHTML checks an HTML string for disallowed active content and
// for balanced tags, returning every finding rather than stopping at the
// first. It is a lightweight balance checker, not an HTML grammar
// validator: invalid attribute syntax and wrong nesting semantics pass
// through unreported.
func ValidateHTML(htmlString string) []Finding {
	var findings []Finding
	findings = append(findings, securityFindings(htmlString)...)
	findings = append(findings, structureFindings(htmlString)...)
	return findings
}

// HasErrors reports whether any finding carries error severity.
func HasErrors(findings []Finding) bool {
	for _, f := range findings {
		if f.Severity == SeverityError {
			return true
		}
	}
	return false
}

// securityFindings applies the active-content denylist: script tags,
// javascript: URIs and inline event-handler attributes.
func securityFindings(htmlString string) []Finding {
	var findings []Finding
	if scriptTagPattern.MatchString(htmlString) {
		findings = append(findings, Finding{
			Message:  "script tags are not allowed in email content",
			Severity: SeverityError,
		})
	}
	if jsSchemePattern.MatchString(htmlString) {
		findings = append(findings, Finding{
			Message:  "javascript: URIs are not allowed in email content",
			Severity: SeverityError,
		})
	}
	if eventHandlerPattern.MatchString(htmlString) {
		findings = append(findings, Finding{
			Message:  "inline event handler attributes are not allowed in email content",
			Severity: SeverityError,
		})
	}
	return findings
}

// structureFindings runs a single forward scan over the tag stream with
// a stack of open tag names. Mismatches are reported and the scan
// continues; no error recovery is attempted beyond the bookkeeping.
func structureFindings(htmlString string) []Finding {
	var findings []Finding
	var stack []string

	for _, match := range tagPattern.FindAllStringSubmatch(htmlString, -1) {
		closing := match[1] == "/"
		name := strings.ToLower(match[2])
		selfClosed := match[4] == "/"

		if closing {
			if len(stack) == 0 {
				findings = append(findings, Finding{
					Message:  fmt.Sprintf("closing tag </%s> has no matching opening tag", name),
					Severity: SeverityWarning,
				})
				continue
			}
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if top != name {
				findings = append(findings, Finding{
					Message:  fmt.Sprintf("closing tag </%s> does not match open tag <%s>", name, top),
					Severity: SeverityWarning,
				})
			}
			continue
		}

		if voidElements[name] || selfClosed {
			continue
		}
		stack = append(stack, name)
	}

	for i := len(stack) - 1; i >= 0; i-- {
		findings = append(findings, Finding{
			Message:  fmt.Sprintf("tag <%s> is not closed", stack[i]),
			Severity: SeverityWarning,
		})
	}
	return findings
}
