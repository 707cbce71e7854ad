package agent

import (
	"strings"

	"github.com/tidwall/gjson"
)

// Metadata carries the intent flags the model reports alongside its reply.
// The front end uses these to decorate artifacts and drive confirmations.
type Metadata struct {
	UserStory             bool `json:"userstory"`
	TestCase              bool `json:"testcase"`
	DevTask               bool `json:"devtask"`
	NeedsClarification    bool `json:"needs_clarification"`
	NeedsSaveConfirmation bool `json:"needs_save_confirmation"`
}

// Reply is the parsed assistant response returned to the API layer.
type Reply struct {
	Content  string   `json:"content"`
	Metadata Metadata `json:"metadata"`
}

// ParseReply extracts the structured reply from raw model output. Models
// frequently wrap JSON in markdown fences or drift from the contract, so the
// parser tries a fenced block first, then the whole body, and finally falls
// back to the raw text with heuristic metadata. It never fails; malformed
// output degrades to a plain-text reply.
func ParseReply(raw string) Reply {
	for _, candidate := range []string{extractFenced(raw), strings.TrimSpace(raw)} {
		if candidate == "" || !gjson.Valid(candidate) {
			continue
		}
		parsed := gjson.Parse(candidate)
		if !parsed.IsObject() {
			continue
		}
		content := parsed.Get("content").String()
		if content == "" {
			content = raw
		}
		md := parsed.Get("metadata")
		return Reply{
			Content: content,
			Metadata: Metadata{
				UserStory:             md.Get("userstory").Bool(),
				TestCase:              md.Get("testcase").Bool(),
				DevTask:               md.Get("devtask").Bool(),
				NeedsClarification:    md.Get("needs_clarification").Bool(),
				NeedsSaveConfirmation: md.Get("needs_save_confirmation").Bool(),
			},
		}
	}
	return Reply{Content: raw, Metadata: heuristicMetadata(raw)}
}

// extractFenced returns the body of the first ```json (or plain ```) fenced
// block, or "" when none exists.
func extractFenced(raw string) string {
	start := strings.Index(raw, "```json")
	offset := len("```json")
	if start < 0 {
		start = strings.Index(raw, "```")
		offset = len("```")
	}
	if start < 0 {
		return ""
	}
	rest := raw[start+offset:]
	end := strings.Index(rest, "```")
	if end < 0 {
		return ""
	}
	return strings.TrimSpace(rest[:end])
}

// heuristicMetadata approximates the metadata flags from free text when the
// model ignored the JSON contract.
func heuristicMetadata(raw string) Metadata {
	lower := strings.ToLower(raw)
	return Metadata{
		UserStory:             strings.Contains(lower, "user story") || strings.Contains(lower, "as a "),
		TestCase:              strings.Contains(lower, "test case") || strings.Contains(lower, "test scenario"),
		DevTask:               strings.Contains(lower, "dev task") || strings.Contains(lower, "development task"),
		NeedsClarification:    strings.Contains(lower, "clarif") || strings.Contains(lower, "please provide"),
		NeedsSaveConfirmation: strings.Contains(lower, "save") && strings.Contains(lower, "board"),
	}
}
