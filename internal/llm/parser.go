package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// parseReview extracts the review verdict from the LLM response body.
func parseReview(content string) (ReviewResponse, error) {
	var jsonResp struct {
		NeedsReview       bool     `json:"needs_review"`
		Confidence        float64  `json:"confidence"`
		Issues            []string `json:"issues"`
		SuggestedOverride bool     `json:"suggested_override"`
		Explanation       string   `json:"explanation"`
	}

	content = cleanMarkdownWrapper(content)

	if err := json.Unmarshal([]byte(content), &jsonResp); err != nil {
		return ReviewResponse{}, fmt.Errorf("failed to parse JSON response: %w", err)
	}

	if jsonResp.Confidence < 0 {
		jsonResp.Confidence = 0
	}
	if jsonResp.Confidence > 1 {
		jsonResp.Confidence = 1
	}

	return ReviewResponse{
		NeedsReview:       jsonResp.NeedsReview,
		Confidence:        jsonResp.Confidence,
		Issues:            jsonResp.Issues,
		SuggestedOverride: jsonResp.SuggestedOverride,
		Explanation:       jsonResp.Explanation,
	}, nil
}

// cleanMarkdownWrapper strips markdown code fences that some models wrap
// around JSON output despite instructions.
func cleanMarkdownWrapper(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```json") {
		content = strings.TrimPrefix(content, "```json")
	} else if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
	}
	content = strings.TrimSuffix(strings.TrimSpace(content), "```")

	return strings.TrimSpace(content)
}
