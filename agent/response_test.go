package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseReply_BareJSON(t *testing.T) {
	raw := `{"content": "Here is your user story.", "metadata": {"userstory": true, "testcase": false, "devtask": false, "needs_clarification": false, "needs_save_confirmation": false}}`

	reply := ParseReply(raw)
	assert.Equal(t, "Here is your user story.", reply.Content)
	assert.True(t, reply.Metadata.UserStory)
	assert.False(t, reply.Metadata.TestCase)
	assert.False(t, reply.Metadata.NeedsSaveConfirmation)
}

func TestParseReply_FencedJSON(t *testing.T) {
	raw := "Sure, here you go:\n```json\n{\"content\": \"Done\", \"metadata\": {\"devtask\": true}}\n```\nLet me know if you need more."

	reply := ParseReply(raw)
	assert.Equal(t, "Done", reply.Content)
	assert.True(t, reply.Metadata.DevTask)
	assert.False(t, reply.Metadata.UserStory)
}

func TestParseReply_PlainFence(t *testing.T) {
	raw := "```\n{\"content\": \"Done\", \"metadata\": {\"testcase\": true}}\n```"

	reply := ParseReply(raw)
	assert.Equal(t, "Done", reply.Content)
	assert.True(t, reply.Metadata.TestCase)
}

func TestParseReply_MissingContentFallsBackToRaw(t *testing.T) {
	raw := `{"metadata": {"needs_clarification": true}}`

	reply := ParseReply(raw)
	assert.Equal(t, raw, reply.Content)
	assert.True(t, reply.Metadata.NeedsClarification)
}

func TestParseReply_PartialMetadata(t *testing.T) {
	// Flags the model omitted default to false instead of failing the parse.
	reply := ParseReply(`{"content": "ok", "metadata": {"userstory": true}}`)
	assert.True(t, reply.Metadata.UserStory)
	assert.False(t, reply.Metadata.TestCase)
	assert.False(t, reply.Metadata.DevTask)
	assert.False(t, reply.Metadata.NeedsClarification)
}

func TestParseReply_FreeTextHeuristics(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want func(t *testing.T, r Reply)
	}{
		{
			name: "user story prose",
			raw:  "Here is a user story: As a developer, I want tests.",
			want: func(t *testing.T, r Reply) { assert.True(t, r.Metadata.UserStory) },
		},
		{
			name: "test case prose",
			raw:  "I generated three test cases for the login flow.",
			want: func(t *testing.T, r Reply) { assert.True(t, r.Metadata.TestCase) },
		},
		{
			name: "clarification prose",
			raw:  "Could you clarify which sprint this belongs to?",
			want: func(t *testing.T, r Reply) { assert.True(t, r.Metadata.NeedsClarification) },
		},
		{
			name: "save confirmation prose",
			raw:  "Should I save these items to the board?",
			want: func(t *testing.T, r Reply) { assert.True(t, r.Metadata.NeedsSaveConfirmation) },
		},
		{
			name: "plain greeting",
			raw:  "Hello! How can I help you today?",
			want: func(t *testing.T, r Reply) { assert.Equal(t, Metadata{}, r.Metadata) },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply := ParseReply(tt.raw)
			assert.Equal(t, tt.raw, reply.Content, "free text passes through unchanged")
			tt.want(t, reply)
		})
	}
}

func TestParseReply_UnterminatedFence(t *testing.T) {
	raw := "```json\n{\"content\": \"lost\"}"

	// No closing fence and the whole body is not valid JSON either, so the
	// reply degrades to raw text.
	reply := ParseReply(raw)
	assert.Equal(t, raw, reply.Content)
}

func TestExtractFenced(t *testing.T) {
	assert.Equal(t, "", extractFenced("no fences here"))
	assert.Equal(t, `{"a":1}`, extractFenced("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, extractFenced("prefix ```\n{\"a\":1}\n``` suffix"))
	assert.Equal(t, "", extractFenced("```json\nunclosed"))
}
