package chesspresenter

import "strings"

const (
	seeMorePadding  = 500
	zeroWidthSpace  = "\u200b"
	seeMoreMinLines = 4
)

// collapse keeps the first line visible and pads it with zero-width spaces so
// KakaoTalk folds the rest of a long reply behind "see more". Short texts are
// returned unchanged.
func collapse(text string) string {
	text = strings.TrimSpace(text)
	if strings.Count(text, "\n")+1 < seeMoreMinLines {
		return text
	}
	header, body, _ := strings.Cut(text, "\n")

	var b strings.Builder
	b.Grow(len(text) + seeMorePadding*len(zeroWidthSpace) + 1)
	b.WriteString(strings.TrimSpace(header))
	b.WriteString(strings.Repeat(zeroWidthSpace, seeMorePadding))
	b.WriteByte('\n')
	b.WriteString(body)
	return b.String()
}
