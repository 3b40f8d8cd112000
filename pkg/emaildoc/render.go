package emaildoc

import (
	"context"
	"fmt"
	"html"
	"sort"
	"strconv"
	"strings"

	mjmlgo "github.com/Boostport/mjml-go"
	"github.com/osteele/liquid"
)

// indentPad returns a string of n spaces.
func indentPad(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat(" ", n)
}

// attrLine converts an attribute map to a sorted string of key="value"
// pairs, skipping empty values.
func attrLine(attrs map[string]string) string {
	keys := make([]string, 0, len(attrs))
	for k, v := range attrs {
		if v != "" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, fmt.Sprintf(`%s="%s"`, k, attrs[k]))
	}
	return strings.Join(pairs, " ")
}

func openTag(name string, attrs map[string]string) string {
	if line := attrLine(attrs); line != "" {
		return "<" + name + " " + line + ">"
	}
	return "<" + name + ">"
}

// RenderHTML compiles a design document to email HTML: the tree is
// rendered to MJML and the MJML compiled with mjml-go. templateData
// feeds liquid blocks; pass nil when the document has none.
func RenderHTML(ctx context.Context, doc *Document, templateData MapOfAny) (string, error) {
	mjml, err := RenderMJML(doc, templateData)
	if err != nil {
		return "", err
	}
	htmlResult, err := mjmlgo.ToHTML(ctx, mjml)
	if err != nil {
		return "", fmt.Errorf("failed to compile MJML to HTML: %w", err)
	}
	return htmlResult, nil
}

// RenderMJML renders the document tree into an MJML string. Merge tags
// in block content pass through untouched; they are resolved per
// recipient at send time, after compilation.
func RenderMJML(doc *Document, templateData MapOfAny) (string, error) {
	var sb strings.Builder
	sb.WriteString("<mjml>\n")

	// Document-wide defaults go through mj-attributes.
	sb.WriteString("  <mj-head>\n    <mj-attributes>\n      ")
	sb.WriteString("<mj-all " + attrLine(map[string]string{
		"font-family": doc.Settings.FontFamily,
		"color":       doc.Settings.TextColor,
	}) + " />\n")
	sb.WriteString("    </mj-attributes>\n  </mj-head>\n")

	bodyAttrs := map[string]string{
		"background-color": doc.Settings.BackgroundColor,
		"width":            doc.Settings.ContentWidth,
	}
	sb.WriteString("  " + openTag("mj-body", bodyAttrs) + "\n")

	for _, row := range doc.Rows {
		if err := renderRow(&sb, row, templateData, 4); err != nil {
			return "", err
		}
	}

	sb.WriteString("  </mj-body>\n</mjml>")
	return sb.String(), nil
}

func renderRow(sb *strings.Builder, row *Row, templateData MapOfAny, indent int) error {
	space := indentPad(indent)
	attrs := map[string]string{
		"background-color": row.Settings.BackgroundColor,
		"text-align":       row.Settings.Align,
		"padding-top":      row.Settings.Padding.Top,
		"padding-right":    row.Settings.Padding.Right,
		"padding-bottom":   row.Settings.Padding.Bottom,
		"padding-left":     row.Settings.Padding.Left,
	}
	if row.Settings.FullWidth {
		attrs["full-width"] = "full-width"
	}
	sb.WriteString(space + openTag("mj-section", attrs) + "\n")

	for _, column := range row.Columns {
		colAttrs := map[string]string{}
		if column.Width > 0 {
			colAttrs["width"] = strconv.FormatFloat(column.Width, 'f', -1, 64) + "%"
		}
		sb.WriteString(space + "  " + openTag("mj-column", colAttrs) + "\n")
		for _, block := range column.Blocks {
			rendered, err := renderBlock(block, templateData, indent+4)
			if err != nil {
				return err
			}
			if strings.TrimSpace(rendered) != "" {
				sb.WriteString(rendered)
				sb.WriteString("\n")
			}
		}
		sb.WriteString(space + "  </mj-column>\n")
	}

	sb.WriteString(space + "</mj-section>\n")
	return nil
}

func renderBlock(block *Block, templateData MapOfAny, indent int) (string, error) {
	space := indentPad(indent)

	switch block.Kind {
	case BlockKindText:
		var data TextBlockData
		if err := block.DecodeData(&data); err != nil {
			return "", err
		}
		attrs := map[string]string{
			"align":     data.Align,
			"color":     data.Color,
			"font-size": data.FontSize,
		}
		return space + openTag("mj-text", attrs) + "<p>" + data.Text + "</p></mj-text>", nil

	case BlockKindHeading:
		var data HeadingBlockData
		if err := block.DecodeData(&data); err != nil {
			return "", err
		}
		level := data.Level
		if level != "h1" && level != "h2" && level != "h3" {
			level = "h2"
		}
		attrs := map[string]string{
			"align": data.Align,
			"color": data.Color,
		}
		return fmt.Sprintf("%s%s<%s>%s</%s></mj-text>",
			space, openTag("mj-text", attrs), level, data.Text, level), nil

	case BlockKindImage:
		var data ImageBlockData
		if err := block.DecodeData(&data); err != nil {
			return "", err
		}
		attrs := map[string]string{
			"src":   data.Src,
			"alt":   data.Alt,
			"href":  data.Href,
			"width": data.Width,
			"align": data.Align,
		}
		return space + "<mj-image " + attrLine(attrs) + " />", nil

	case BlockKindButton:
		var data ButtonBlockData
		if err := block.DecodeData(&data); err != nil {
			return "", err
		}
		attrs := map[string]string{
			"href":             data.Href,
			"background-color": data.BackgroundColor,
			"color":            data.Color,
			"border-radius":    data.BorderRadius,
			"align":            data.Align,
			"font-size":        data.FontSize,
		}
		if data.FontWeight > 0 {
			attrs["font-weight"] = strconv.Itoa(data.FontWeight)
		}
		return space + openTag("mj-button", attrs) + data.Text + "</mj-button>", nil

	case BlockKindDivider:
		var data DividerBlockData
		if err := block.DecodeData(&data); err != nil {
			return "", err
		}
		attrs := map[string]string{
			"border-color": data.BorderColor,
			"border-style": data.BorderStyle,
			"border-width": data.BorderWidth,
			"width":        data.Width,
		}
		return space + "<mj-divider " + attrLine(attrs) + " />", nil

	case BlockKindList:
		var data ListBlockData
		if err := block.DecodeData(&data); err != nil {
			return "", err
		}
		listTag := "ul"
		if data.Ordered {
			listTag = "ol"
		}
		var items strings.Builder
		for _, item := range data.Items {
			items.WriteString("<li>" + html.EscapeString(item) + "</li>")
		}
		attrs := map[string]string{
			"align": data.Align,
			"color": data.Color,
		}
		return fmt.Sprintf("%s%s<%s>%s</%s></mj-text>",
			space, openTag("mj-text", attrs), listTag, items.String(), listTag), nil

	case BlockKindProductLine:
		var data ProductLineBlockData
		if err := block.DecodeData(&data); err != nil {
			return "", err
		}
		attrs := map[string]string{
			"color":     data.Color,
			"font-size": data.FontSize,
		}
		return fmt.Sprintf(`%s%s<tr><td align="left">%s</td><td align="right">%s</td></tr></mj-table>`,
			space, openTag("mj-table", attrs),
			html.EscapeString(data.Left), html.EscapeString(data.Right)), nil

	case BlockKindSocial:
		var data SocialBlockData
		if err := block.DecodeData(&data); err != nil {
			return "", err
		}
		attrs := map[string]string{
			"align":     data.Align,
			"icon-size": data.IconSize,
			"mode":      "horizontal",
		}
		var sb strings.Builder
		sb.WriteString(space + openTag("mj-social", attrs) + "\n")
		for _, icon := range data.Icons {
			sb.WriteString(space + "  " + openTag("mj-social-element", map[string]string{
				"name": icon.Network,
				"href": icon.Href,
			}) + "</mj-social-element>\n")
		}
		sb.WriteString(space + "</mj-social>")
		return sb.String(), nil

	case BlockKindLiquid:
		var data LiquidBlockData
		if err := block.DecodeData(&data); err != nil {
			return "", err
		}
		if strings.TrimSpace(data.LiquidCode) == "" {
			return "", nil
		}
		bindings := map[string]any(templateData)
		if bindings == nil {
			bindings = map[string]any{}
		}
		engine := liquid.NewEngine()
		rendered, err := engine.ParseAndRenderString(data.LiquidCode, bindings)
		if err != nil {
			return "", fmt.Errorf("liquid rendering error in block %s: %w", block.ID, err)
		}
		return space + "<mj-raw>" + rendered + "</mj-raw>", nil

	default:
		// Unknown kinds render to nothing so forward-version documents
		// degrade instead of failing.
		return "", nil
	}
}
