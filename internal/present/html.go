// Package present renders digest entries into the breaking-news HTML
// fragment consumed by the website. Pure formatting: it makes no
// decisions about content or order.
package present

import (
	"fmt"
	"html/template"
	"strings"

	"t1ddigest/internal/domain"
)

// emptyDigestHTML is the placeholder shown when no relevant items
// survived a run; an empty digest is a valid state, not an error.
const emptyDigestHTML = `<div class="loading">No breaking news at this time. Check back soon!</div>`

var itemTemplate = template.Must(template.New("breaking-item").Parse(`
<div class="breaking-item">
  <div class="breaking-badge">{{.Badge}}</div>
  <h3 class="breaking-title">{{.Title}}</h3>
  <p class="breaking-summary">{{.Summary}}</p>
  <div class="breaking-details">
    <h4>{{.Details.Heading}}</h4>
    <p>{{.Details.Content}}</p>
  </div>
  <div class="breaking-meta">
    <span>Published: {{.Meta.Published}}</span>
    <span>Phase: {{.Meta.Phase}}</span>
    <span>Status: {{.Meta.Status}}</span>
    <span>Priority: {{.Meta.Priority}}</span>
  </div>
  <a href="{{.Link}}" class="breaking-link" target="_blank">Read Full Report &rarr;</a>
</div>`))

// RenderDigest produces the HTML fragment for the digest, in digest
// order, or the placeholder when the digest is empty.
func RenderDigest(digest []domain.DigestEntry) (string, error) {
	if len(digest) == 0 {
		return emptyDigestHTML, nil
	}

	var b strings.Builder
	for i, entry := range digest {
		if i > 0 {
			b.WriteString("\n")
		}
		if err := itemTemplate.Execute(&b, entry); err != nil {
			return "", fmt.Errorf("render item %s: %w", entry.ID, err)
		}
	}
	return b.String(), nil
}
