package emaildoc

import (
	"encoding/json"
	"html"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Merge tag scopes. The context assembled per recipient maps each scope
// name to a map of field values; flat synthetic entries such as
// unsubscribeUrl map directly to a scalar.
const (
	ScopeContact  = "contact"
	ScopeProject  = "project"
	ScopeCampaign = "campaign"
	ScopeCustom   = "custom"
)

// TagUnsubscribeURL is the flat unsubscribe placeholder. The send
// pipeline deliberately leaves it unresolved so the true unsubscribe
// link can be injected by a later step, outside click tracking.
const TagUnsubscribeURL = "{{unsubscribeUrl}}"

// MergeContext is the per-recipient lookup structure for merge tag
// resolution. Built fresh per send, never mutated, never persisted.
type MergeContext map[string]any

// MergeTagOptions controls value substitution.
type MergeTagOptions struct {
	// EscapeValues HTML-escapes substituted values. Off by default to
	// match historical output for existing templates; callers rendering
	// attacker-controlled contact data should turn it on.
	EscapeValues bool
}

var mergeTagPattern = regexp.MustCompile(`\{\{\s*([A-Za-z_][A-Za-z0-9_]*)(?:\.([A-Za-z_][A-Za-z0-9_]*))?\s*\}\}`)

// ReplaceMergeTags substitutes {{scope.field}} and flat {{name}} tokens
// in the HTML against the given context. Tokens whose scope or field
// cannot be resolved are left verbatim in the output: this fail-open
// policy keeps malformed or forward-referenced tags from corrupting
// otherwise-valid HTML, and downstream steps rely on it (unsubscribe
// placeholders survive until a dedicated injection step). A string with
// no {{...}} substrings is returned unchanged.
func ReplaceMergeTags(htmlString string, ctx MergeContext) string {
	return ReplaceMergeTagsWithOptions(htmlString, ctx, MergeTagOptions{})
}

// ReplaceMergeTagsWithOptions is ReplaceMergeTags with explicit options.
func ReplaceMergeTagsWithOptions(htmlString string, ctx MergeContext, opts MergeTagOptions) string {
	if !strings.Contains(htmlString, "{{") {
		return htmlString
	}
	return mergeTagPattern.ReplaceAllStringFunc(htmlString, func(token string) string {
		parts := mergeTagPattern.FindStringSubmatch(token)
		if parts == nil {
			return token
		}
		scope, field := parts[1], parts[2]

		var value any
		var ok bool
		if field == "" {
			value, ok = lookupFlat(ctx, scope)
		} else {
			value, ok = lookupField(ctx, scope, field)
			if !ok && scope == ScopeContact {
				// Triggered sends merge ad-hoc payload data under the
				// custom scope; fall back there before giving up.
				value, ok = lookupField(ctx, ScopeCustom, field)
			}
		}
		if !ok {
			return token
		}
		str, ok := stringifyValue(value)
		if !ok {
			return token
		}
		if opts.EscapeValues {
			str = html.EscapeString(str)
		}
		return str
	})
}

func lookupFlat(ctx MergeContext, name string) (any, bool) {
	value, present := ctx[name]
	if !present || value == nil {
		return nil, false
	}
	// Scope maps are not substitutable values themselves.
	switch value.(type) {
	case map[string]any, MapOfAny:
		return nil, false
	}
	return value, true
}

func lookupField(ctx MergeContext, scope, field string) (any, bool) {
	raw, present := ctx[scope]
	if !present {
		return nil, false
	}
	var m map[string]any
	switch v := raw.(type) {
	case map[string]any:
		m = v
	case MapOfAny:
		m = v
	default:
		return nil, false
	}
	value, ok := m[field]
	if !ok || value == nil {
		return nil, false
	}
	return value, true
}

// stringifyValue converts a scalar to its natural string form. Nil and
// non-scalar values report false so the token stays unresolved rather
// than substituting an empty string.
func stringifyValue(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, true
	case bool:
		return strconv.FormatBool(v), true
	case int:
		return strconv.Itoa(v), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32), true
	case json.Number:
		return v.String(), true
	case time.Time:
		return v.Format(time.RFC3339), true
	default:
		return "", false
	}
}
