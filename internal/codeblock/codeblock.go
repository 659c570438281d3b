// Package codeblock converts between fenced code markup and the tagged
// inline format the message renderer consumes.
//
// The wire format is `<code-block language="LANG">CODE</code-block>`;
// LANG may be empty and CODE is the trimmed fence body. Marking and
// parsing round-trip exactly for correctly-fenced input.
package codeblock

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	fenceRe = regexp.MustCompile("(?s)```(?:(\\w+)\n)?(.*?)```")
	tagRe   = regexp.MustCompile(`(?s)<code-block language="(.*?)">(.*?)</code-block>`)
)

// SegmentType distinguishes plain text from code in a parsed message.
type SegmentType int

const (
	// SegmentText is a plain-text run between code blocks.
	SegmentText SegmentType = iota
	// SegmentCode is a code block carrying a language tag.
	SegmentCode
)

// Segment is one typed piece of a rendered message, in original order.
type Segment struct {
	Type     SegmentType
	Content  string
	Language string
}

// Mark replaces every fenced code region in text with a tagged inline
// element carrying the language (empty if the fence had none) and the
// trimmed body. It reports whether any code block was found.
func Mark(text string) (string, bool) {
	if !fenceRe.MatchString(text) {
		return text, false
	}

	marked := fenceRe.ReplaceAllStringFunc(text, func(block string) string {
		sub := fenceRe.FindStringSubmatch(block)
		language := sub[1]
		code := strings.TrimSpace(sub[2])
		return fmt.Sprintf(`<code-block language="%s">%s</code-block>`, language, code)
	})

	return marked, true
}

// Parse splits content into plain-text and code segments in left-to-right
// order. Code segments with an empty language tag default to "text".
// Content without any tagged element yields a single text segment.
func Parse(content string) []Segment {
	matches := tagRe.FindAllStringSubmatchIndex(content, -1)
	if len(matches) == 0 {
		return []Segment{{Type: SegmentText, Content: content}}
	}

	var segments []Segment
	last := 0
	for _, m := range matches {
		start, end := m[0], m[1]
		if start > last {
			segments = append(segments, Segment{
				Type:    SegmentText,
				Content: content[last:start],
			})
		}

		language := content[m[2]:m[3]]
		if language == "" {
			language = "text"
		}
		segments = append(segments, Segment{
			Type:     SegmentCode,
			Content:  content[m[4]:m[5]],
			Language: language,
		})

		last = end
	}
	if last < len(content) {
		segments = append(segments, Segment{
			Type:    SegmentText,
			Content: content[last:],
		})
	}

	return segments
}
