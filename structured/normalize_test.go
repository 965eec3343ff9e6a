package structured

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "bare json unchanged",
			raw:  `{"a": 1}`,
			want: `{"a": 1}`,
		},
		{
			name: "bare text keeps surrounding whitespace",
			raw:  "  {\"a\": 1}\n",
			want: "  {\"a\": 1}\n",
		},
		{
			name: "json fence",
			raw:  "```json\n{...}\n```",
			want: "{...}",
		},
		{
			name: "fence without language tag",
			raw:  "```\n{\"a\": 1}\n```",
			want: `{"a": 1}`,
		},
		{
			name: "fence with other tag",
			raw:  "```javascript\n{\"a\": 1}\n```",
			want: `{"a": 1}`,
		},
		{
			name: "json tag glued to payload",
			raw:  "```json{\"a\": 1}```",
			want: `{"a": 1}`,
		},
		{
			name: "chatter around fence",
			raw:  "Segue:\n```json\n{\"a\": 1}\n```\nAbraços",
			want: `{"a": 1}`,
		},
		{
			name: "first of several fences",
			raw:  "```json\n{\"a\": 1}\n```\n```json\n{\"b\": 2}\n```",
			want: `{"a": 1}`,
		},
		{
			name: "inner content untouched",
			raw:  "```json\n{\n  \"a\":   \"x  y\"\n}\n```",
			want: "{\n  \"a\":   \"x  y\"\n}",
		},
		{
			name: "unterminated fence",
			raw:  "```json\n{\"a\": 1}\n",
			want: `{"a": 1}`,
		},
		{
			name: "inline marker in prose before json block",
			raw:  "Vou usar blocos ``` para formatar:\n```json\n{\"a\":1}\n```",
			want: `{"a":1}`,
		},
		{
			name: "inline marker in prose before untagged block",
			raw:  "Use ``` para delimitar.\n```\n{\"a\": 1}\n```",
			want: `{"a": 1}`,
		},
		{
			name: "json block preferred over earlier untagged block",
			raw:  "```\nexemplo\n```\n```json\n{\"a\": 1}\n```",
			want: `{"a": 1}`,
		},
		{
			name: "uppercase json tag",
			raw:  "```JSON\n{\"a\": 1}\n```",
			want: `{"a": 1}`,
		},
		{
			name: "empty fence",
			raw:  "```json\n```",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.raw))
		})
	}
}

func TestProperty_Normalize_NoFenceIsIdentity(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		raw := rapid.String().Draw(rt, "raw")
		if strings.Contains(raw, fence) {
			rt.Skip("contains a fence marker")
		}
		assert.Equal(rt, raw, Normalize(raw))
	})
}

func TestProperty_Normalize_RecoversFencedPayload(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		payload := rapid.StringMatching(`\{("[a-z]{1,8}": ?"[a-zA-Z0-9 ]{0,12}",? ?){0,4}\}`).Draw(rt, "payload")
		tag := rapid.SampledFrom([]string{"", "json", "JSON"}).Draw(rt, "tag")
		raw := "```" + tag + "\n" + payload + "\n```"
		assert.Equal(rt, payload, Normalize(raw))
	})
}
