package retailor

import (
	"strings"
	"unicode"
)

const asciiPunctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// normalizeTitle lowers the text and removes all whitespace and punctuation.
// Used only for equality checks between an LLM rewrite and its input.
func normalizeTitle(text string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(text) {
		if unicode.IsSpace(r) || strings.ContainsRune(asciiPunctuation, r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// normalizeAlnum keeps only lowercase letters and digits. Used for project
// title deduplication.
func normalizeAlnum(text string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// trimQuoted strips surrounding whitespace and any leading/trailing quote
// characters an LLM tends to wrap short answers in.
func trimQuoted(s string) string {
	return strings.Trim(strings.TrimSpace(s), `"'`)
}

// wordCount counts whitespace-separated tokens.
func wordCount(s string) int {
	return len(strings.Fields(s))
}

// capWords truncates s to at most max whitespace-separated words.
func capWords(s string, max int) string {
	fields := strings.Fields(s)
	if len(fields) <= max {
		return strings.TrimSpace(s)
	}
	return strings.Join(fields[:max], " ")
}

// matchRatio computes a similarity ratio in [0, 1] between two strings:
// twice the number of characters in common (as maximal matching blocks)
// divided by the total length. Equal strings score 1, disjoint strings 0.
func matchRatio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 1
	}
	return 2 * float64(matchingChars(ra, rb)) / float64(total)
}

func matchingChars(a, b []rune) int {
	ai, bi, size := longestCommonBlock(a, b)
	if size == 0 {
		return 0
	}
	return size +
		matchingChars(a[:ai], b[:bi]) +
		matchingChars(a[ai+size:], b[bi+size:])
}

func longestCommonBlock(a, b []rune) (int, int, int) {
	bestA, bestB, bestSize := 0, 0, 0

	// lengths[j] is the length of the common suffix ending at a[i-1], b[j-1]
	lengths := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		prev := 0
		for j := 1; j <= len(b); j++ {
			cur := lengths[j]
			if a[i-1] == b[j-1] {
				lengths[j] = prev + 1
				if lengths[j] > bestSize {
					bestSize = lengths[j]
					bestA = i - bestSize
					bestB = j - bestSize
				}
			} else {
				lengths[j] = 0
			}
			prev = cur
		}
	}

	return bestA, bestB, bestSize
}
