package structured

import (
	"regexp"
	"strings"
)

const fence = "```"

// Fence patterns in order of preference. A stray marker inside prose must not
// hide the payload block that follows it.
var (
	// jsonFence matches a block tagged json, with or without a line break.
	jsonFence = regexp.MustCompile("(?is)```json\\s*(.*?)```")
	// lineFence matches a block whose opening marker starts a line.
	lineFence = regexp.MustCompile("(?ms)^```(?:[A-Za-z][\\w+.-]*)?[ \\t]*\\r?\\n(.*?)```")
	// bareFence matches the first block anywhere. The language tag is
	// optional and must be followed by whitespace.
	bareFence = regexp.MustCompile("(?s)```(?:[A-Za-z][\\w+.-]*\\s)?(.*?)```")
)

var fencePatterns = []*regexp.Regexp{jsonFence, lineFence, bareFence}

// openingFence matches a leading fence marker left without a closing one.
var openingFence = regexp.MustCompile("^```(?:[A-Za-z][\\w+.-]*\\s|json)?")

// Normalize recovers the candidate payload from a raw model response.
// Text without a fence marker is returned unchanged. Otherwise the content of
// the preferred fenced block is returned with surrounding whitespace removed:
// a json-tagged block first, then a block opened at the start of a line,
// then the first block anywhere.
func Normalize(raw string) string {
	if !strings.Contains(raw, fence) {
		return raw
	}

	for _, p := range fencePatterns {
		if m := p.FindStringSubmatch(raw); len(m) > 1 {
			return strings.TrimSpace(m[1])
		}
	}

	// Unterminated fence: keep what follows the lone marker.
	rest := raw[strings.Index(raw, fence):]
	return strings.TrimSpace(openingFence.ReplaceAllString(rest, ""))
}
