package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mailsmith/mailsmith/pkg/emaildoc"
	"github.com/mailsmith/mailsmith/pkg/logger"
)

func TestComposeMergeThenTrack(t *testing.T) {
	svc := NewComposeService(logger.NewLogger())

	out := svc.Compose(ComposeRequest{
		HTML: "Hi {{contact.first_name}}, <a href='https://shop.example/item'>buy</a>",
		MergeContext: emaildoc.MergeContext{
			emaildoc.ScopeContact: map[string]any{"first_name": "Sam"},
		},
		APIEndpoint:         "https://app.example",
		CampaignID:          "7",
		Email:               "sam@x.com",
		EnableClickTracking: true,
	})

	assert.Equal(t,
		"Hi Sam, <a href='https://app.example/track/click/7/sam%40x.com?url=https%3A%2F%2Fshop.example%2Fitem'>buy</a>",
		out)
}

func TestComposeMergedHrefGetsTracked(t *testing.T) {
	// A tag that resolves to a URL is wrapped because merging runs first.
	svc := NewComposeService(logger.NewLogger())

	out := svc.Compose(ComposeRequest{
		HTML: `<a href="{{project.website_url}}">visit</a>`,
		MergeContext: emaildoc.MergeContext{
			emaildoc.ScopeProject: map[string]any{"website_url": "https://acme.example"},
		},
		APIEndpoint:         "https://app.example",
		CampaignID:          "7",
		Email:               "sam@x.com",
		EnableClickTracking: true,
	})

	assert.Contains(t, out, "/track/click/7/sam%40x.com?url=https%3A%2F%2Facme.example")
	assert.NotContains(t, out, "{{project.website_url}}")
}

func TestComposeUnsubscribePlaceholderSurvives(t *testing.T) {
	svc := NewComposeService(logger.NewLogger())

	out := svc.Compose(ComposeRequest{
		HTML:                `<a href="{{unsubscribeUrl}}">unsubscribe</a>`,
		MergeContext:        emaildoc.MergeContext{},
		APIEndpoint:         "https://app.example",
		CampaignID:          "7",
		Email:               "sam@x.com",
		EnableClickTracking: true,
	})

	assert.Equal(t, `<a href="{{unsubscribeUrl}}">unsubscribe</a>`, out)
}

func TestComposeOpenPixel(t *testing.T) {
	svc := NewComposeService(logger.NewLogger())

	out := svc.Compose(ComposeRequest{
		HTML:               "<html><body><p>Hi</p></body></html>",
		APIEndpoint:        "https://app.example",
		CampaignID:         "7",
		Email:              "sam@x.com",
		EnableOpenTracking: true,
	})

	assert.Contains(t, out, `<img src="https://app.example/track/open/7/sam%40x.com" alt="" width="1" height="1"></body>`)
}

func TestComposeNoEndpointDisablesTracking(t *testing.T) {
	svc := NewComposeService(logger.NewLogger())

	html := `<a href="https://shop.example">buy</a>`
	out := svc.Compose(ComposeRequest{
		HTML:                html,
		EnableClickTracking: true,
		EnableOpenTracking:  true,
	})

	assert.Equal(t, html, out)
}

func TestComposeIdempotentOnSecondPass(t *testing.T) {
	svc := NewComposeService(logger.NewLogger())

	req := ComposeRequest{
		HTML:                `<a href="https://shop.example/item">buy</a>`,
		APIEndpoint:         "https://app.example",
		CampaignID:          "7",
		Email:               "sam@x.com",
		EnableClickTracking: true,
	}
	once := svc.Compose(req)

	req.HTML = once
	twice := svc.Compose(req)
	assert.Equal(t, once, twice)
}
