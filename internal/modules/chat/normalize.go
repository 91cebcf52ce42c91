// README: Post-processing for generated replies (compact markdown cleanup).
package chat

import (
	"regexp"
	"strings"
)

// RE2's \s omits \v, which strings.TrimSpace does strip.
var (
	blankLinesRe = regexp.MustCompile(`\n[\s\v]*\n`)
	bulletRe     = regexp.MustCompile(`\n[\s\v]*- `)
	numberedRe   = regexp.MustCompile(`\n[\s\v]*\d+\. `)
)

// Normalize collapses blank lines, left-aligns "- " bullets, renders numbered
// items as "1. " (markdown renumbers them) and trims the result. It is
// idempotent: Normalize(Normalize(s)) == Normalize(s).
func Normalize(reply string) string {
	out := blankLinesRe.ReplaceAllString(reply, "\n")
	out = bulletRe.ReplaceAllString(out, "\n- ")
	out = numberedRe.ReplaceAllString(out, "\n1. ")
	return strings.TrimSpace(out)
}
