package emaildoc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countSeverity(findings []Finding, severity Severity) int {
	n := 0
	for _, f := range findings {
		if f.Severity == severity {
			n++
		}
	}
	return n
}

func TestValidateHTMLBalanced(t *testing.T) {
	tests := []string{
		"<div><p>text</p></div>",
		"<table><tr><td>x</td></tr></table>",
		"",
		"plain text without markup",
		"<div><br><hr><img src='x.png'></div>",
		"<div><span/></div>",
	}
	for _, html := range tests {
		assert.Empty(t, ValidateHTML(html), "input: %s", html)
	}
}

func TestValidateHTMLMismatchedClose(t *testing.T) {
	findings := ValidateHTML("<div><p>text</div>")
	require.NotEmpty(t, findings)
	assert.GreaterOrEqual(t, countSeverity(findings, SeverityWarning), 1)
	assert.Zero(t, countSeverity(findings, SeverityError))
}

func TestValidateHTMLUnclosedTag(t *testing.T) {
	findings := ValidateHTML("<div>text")
	require.Len(t, findings, 1)
	assert.Equal(t, SeverityWarning, findings[0].Severity)
	assert.Contains(t, findings[0].Message, "div")
	assert.Contains(t, findings[0].Message, "not closed")
}

func TestValidateHTMLOrphanClosingTag(t *testing.T) {
	findings := ValidateHTML("text</div>")
	require.Len(t, findings, 1)
	assert.Equal(t, SeverityWarning, findings[0].Severity)
	assert.Contains(t, findings[0].Message, "no matching opening tag")
}

func TestValidateHTMLVoidElements(t *testing.T) {
	// Void elements are unclosed by nature and produce no warning.
	assert.Empty(t, ValidateHTML("<img src='x.png'>"))
	assert.Empty(t, ValidateHTML("<br><hr><meta charset='utf-8'>"))
}

func TestValidateHTMLSecurityScriptTag(t *testing.T) {
	findings := ValidateHTML("<script>alert(1)</script>")
	assert.GreaterOrEqual(t, countSeverity(findings, SeverityError), 1)
}

func TestValidateHTMLSecurityEventHandler(t *testing.T) {
	findings := ValidateHTML("<div onclick='x()'>")
	assert.GreaterOrEqual(t, countSeverity(findings, SeverityError), 1)
}

func TestValidateHTMLSecurityJavascriptURI(t *testing.T) {
	findings := ValidateHTML(`<a href="javascript:alert(1)">x</a>`)
	assert.GreaterOrEqual(t, countSeverity(findings, SeverityError), 1)
}

func TestValidateHTMLSecurityCaseInsensitive(t *testing.T) {
	findings := ValidateHTML("<SCRIPT>alert(1)</SCRIPT>")
	assert.GreaterOrEqual(t, countSeverity(findings, SeverityError), 1)

	findings = ValidateHTML(`<a href="JavaScript:x()">x</a>`)
	assert.GreaterOrEqual(t, countSeverity(findings, SeverityError), 1)
}

func TestValidateHTMLReportsEverything(t *testing.T) {
	// The scan accumulates all findings instead of stopping at the first.
	findings := ValidateHTML("<div><span>x</p></div><section>")
	assert.GreaterOrEqual(t, len(findings), 2)
}

func TestValidateHTMLIgnoresCommentsAndDoctype(t *testing.T) {
	assert.Empty(t, ValidateHTML("<!DOCTYPE html><!-- note --><div>x</div>"))
}

func TestValidateHTMLCaseInsensitiveTagMatch(t *testing.T) {
	assert.Empty(t, ValidateHTML("<DIV>x</div>"))
}

func TestHasErrors(t *testing.T) {
	assert.False(t, HasErrors(nil))
	assert.False(t, HasErrors([]Finding{{Severity: SeverityWarning}}))
	assert.True(t, HasErrors([]Finding{{Severity: SeverityWarning}, {Severity: SeverityError}}))
}
