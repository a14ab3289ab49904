// Package tokenest provides pluggable token estimation. The Coordinator
// resolves one Estimator at startup and uses the same instance throughout a
// process's lifetime so fingerprint and budget accounting stay consistent
// (spec §4.5 "Tokenization", §9 "Tokenization pluggability").
package tokenest

import "unicode/utf8"

// Estimator counts (approximate) tokens in a string.
type Estimator interface {
	Estimate(s string) int
}

// LenOverFour is the fallback estimator: roughly 4 characters (runes, not
// bytes) per token, and at least 1 for any non-empty string — the same
// heuristic the teacher and the wider ecosystem use when no real tokenizer
// vocabulary is wired in.
type LenOverFour struct{}

func (LenOverFour) Estimate(s string) int {
	n := utf8.RuneCountInString(s)
	if n == 0 {
		return 0
	}
	est := n / 4
	if est == 0 {
		est = 1
	}
	return est
}

// WordPunct is a closer approximation of a BPE-style tokenizer vocabulary:
// it splits on word/punctuation boundaries rather than a flat byte ratio,
// which tracks common LLM tokenizers more closely than len/4 for code (lots
// of short identifiers and punctuation).
type WordPunct struct{}

func (WordPunct) Estimate(s string) int {
	count := 0
	inRun := false
	runIsWord := false
	isWord := func(r rune) bool {
		return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_'
	}
	for _, r := range s {
		switch {
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			inRun = false
		case isWord(r):
			if !inRun || !runIsWord {
				count++
			}
			inRun = true
			runIsWord = true
		default:
			// Punctuation: each run of identical-class punctuation bytes is
			// still cheap relative to a real BPE merge table, so count each
			// non-word rune as its own token — a reasonable upper bound.
			count++
			inRun = true
			runIsWord = false
		}
	}
	if count == 0 {
		return 0
	}
	return count
}

// Resolve picks the precise estimator when available, else the fallback,
// matching §9: "precise tokenizer if available, else fallback... fixed for
// the process lifetime."
func Resolve(precise bool) Estimator {
	if precise {
		return WordPunct{}
	}
	return LenOverFour{}
}
