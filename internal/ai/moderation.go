package ai

import (
	"context"
	"encoding/json"
	"fmt"
)

// Content types a moderation scan can flag.
const (
	ContentBio              = "bio"
	ContentSpotlightTitle   = "blogPostTitle"
	ContentSpotlightContent = "blogPostContent"
)

// ContentItem is one piece of user-generated text to review.
type ContentItem struct {
	Type    string
	Content string
}

// Subject groups the reviewable content of one expert.
type Subject struct {
	ExpertID   string
	ExpertName string
	Items      []ContentItem
}

// ModerationAlert is a flagged piece of content. Alerts are transient scan
// results and are never persisted.
type ModerationAlert struct {
	ExpertID       string `json:"expert_id"`
	ExpertName     string `json:"expert_name"`
	ContentType    string `json:"content_type"`
	FlaggedContent string `json:"flagged_content"`
	Reason         string `json:"reason"`
}

const communityGuidelines = `
    - Be Respectful. Be Kind.
    - Zero-tolerance for hate speech, harassment, or discriminatory content.
    - No offensive content based on race, color, ethnic origin, religion, political affiliation, sexual orientation, gender identity, minority status, nationality, or disability.
    - No abusive, threatening, or hostile content.
`

// verdictSchema constrains the model to a strict JSON verdict per item.
var verdictSchema = json.RawMessage(`{
  "type": "OBJECT",
  "properties": {
    "isViolation": {
      "type": "BOOLEAN",
      "description": "Is there a violation of the community guidelines?"
    },
    "reason": {
      "type": "STRING",
      "description": "If it is a violation, provide a brief, specific reason why based on the guidelines. Otherwise, this should be an empty string."
    }
  },
  "required": ["isViolation", "reason"]
}`)

type verdict struct {
	IsViolation bool   `json:"isViolation"`
	Reason      string `json:"reason"`
}

// ScanContent reviews each subject's content against the community
// guidelines and returns one alert per violating item. Items whose verdict
// cannot be parsed are skipped rather than failing the whole scan.
func (c *Client) ScanContent(ctx context.Context, subjects []Subject) ([]ModerationAlert, error) {
	alerts := []ModerationAlert{}

	for _, subject := range subjects {
		for _, item := range subject.Items {
			if item.Content == "" {
				continue
			}

			prompt := fmt.Sprintf(`Review the following user-generated content based on our community guidelines.
Determine if it violates any rules and provide a reason if it does.
Respond with a JSON object that strictly adheres to the provided schema.

COMMUNITY GUIDELINES:
%s

CONTENT TO REVIEW:
%q`, communityGuidelines, item.Content)

			text, err := c.generate(ctx, prompt, &generationConfig{
				ResponseMimeType: "application/json",
				ResponseSchema:   verdictSchema,
			})
			if err != nil {
				return nil, fmt.Errorf("moderation scan failed for expert %s: %w", subject.ExpertID, err)
			}

			var v verdict
			if err := json.Unmarshal([]byte(text), &v); err != nil {
				// Malformed verdicts are skipped; the rest of the scan continues.
				continue
			}

			if v.IsViolation {
				alerts = append(alerts, ModerationAlert{
					ExpertID:       subject.ExpertID,
					ExpertName:     subject.ExpertName,
					ContentType:    item.Type,
					FlaggedContent: item.Content,
					Reason:         v.Reason,
				})
			}
		}
	}

	return alerts, nil
}
