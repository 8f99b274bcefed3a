/*
normalize.go - Free-text action normalization

PURPOSE:
  Staff report actions over SMS; the text arrives in whatever shape the
  sender typed ("In", "BREAK-OUT", "i", "back in"). Normalize maps that
  text onto the closed canonical Action set.

MATCHING ORDER:
  Break detection runs before bare in/out so that "break in" never reads
  as a plain clock-in. Joined spellings ("breakin", "break-in") are
  tested against the raw lowercase text because stripping removes the
  hyphen. Parsing is intentionally permissive: unrecognized text is not
  an error, it becomes an opaque upper-cased action the engine ignores.

Normalize is pure, deterministic, and total.
*/
package attendance

import "strings"

// Normalize maps a free-text action string to a canonical Action.
// Unrecognized input is returned upper-cased as an opaque action;
// Action.Known reports false for it.
func Normalize(raw string) Action {
	lower := strings.ToLower(strings.TrimSpace(raw))
	words := strings.Fields(stripActionText(lower))

	has := func(w string) bool {
		for _, word := range words {
			if word == w {
				return true
			}
		}
		return false
	}

	switch {
	case has("break") && has("in"):
		return ActionBreakIn
	case has("break") && has("out"):
		return ActionBreakOut
	case strings.Contains(lower, "breakin"), strings.Contains(lower, "break-in"):
		return ActionBreakIn
	case strings.Contains(lower, "breakout"), strings.Contains(lower, "break-out"):
		return ActionBreakOut
	case has("in") && !has("break"):
		return ActionIn
	case has("out") && !has("break"):
		return ActionOut
	}

	cleaned := strings.Join(words, " ")
	switch cleaned {
	case "i", "start":
		return ActionIn
	case "o", "stop":
		return ActionOut
	}

	return Action(strings.ToUpper(strings.TrimSpace(raw)))
}

// stripActionText reduces lowercase text to [a-z0-9 ], replacing every
// other rune with a space so word boundaries survive punctuation.
func stripActionText(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte(' ')
		}
	}
	return b.String()
}
