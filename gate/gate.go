// Package gate decides whether a raw transcript is real speech worth
// rewriting, or one of the usual artifacts a speech recognizer produces on
// silent or noisy input.
package gate

import (
	"regexp"
	"strings"

	"github.com/mrsingh-rishi/interview-voice/model"
)

// Verdict classifies a transcript.
type Verdict int

const (
	Accept Verdict = iota
	Unclear
	Silence
	Noise
	Hallucination
)

// Placeholder is the question-field marker returned for a rejected transcript.
func (v Verdict) Placeholder() string {
	switch v {
	case Silence:
		return "(silence)"
	case Noise, Hallucination:
		return "(noise)"
	default:
		return "(unclear)"
	}
}

// Apology is the user-facing answer returned for a rejected transcript.
func (v Verdict) Apology() string {
	switch v {
	case Silence:
		return "I didn't hear any speech in that recording."
	case Noise, Hallucination:
		return "That sounded like background noise rather than a question."
	default:
		return "I couldn't hear anything clearly."
	}
}

// Policy holds the tuned constants for the checks. These were arrived at by
// trial, not statistics; treat them as configuration.
type Policy struct {
	MinChars        int     // transcripts shorter than this are unclear
	MinWords        int     // transcripts with this many words or fewer are unclear
	MaxNoSpeechProb float64 // above this, the recognizer itself doubted there was speech
	EnglishOnly     bool    // reject Korean/Japanese script as hallucination
	Blocklist       []string
	FillerOpeners   []string
}

// DefaultPolicy returns the policy used in production.
func DefaultPolicy() Policy {
	return Policy{
		MinChars:        4,
		MinWords:        2,
		MaxNoSpeechProb: 0.8,
		Blocklist: []string{
			"thanks for watching",
			"thank you for watching",
			"like and subscribe",
			"subscribe",
			"welcome back",
			"see you in the next video",
			"don't forget to",
		},
		FillerOpeners: []string{"well", "um", "uh", "hmm", "mm"},
	}
}

var (
	urlPattern = regexp.MustCompile(`(?i)(https?://|www\.|\.com\b|\.net\b|\.org\b|\.io\b)`)
	// Hangul syllables and jamo, hiragana, katakana.
	cjkScript = regexp.MustCompile(`[\x{AC00}-\x{D7A3}\x{1100}-\x{11FF}\x{3040}-\x{309F}\x{30A0}-\x{30FF}]`)
)

// Check is one named predicate over a transcript. Eval returns Accept when
// the check does not fire.
type Check struct {
	Name string
	Eval func(p Policy, t model.Transcript) Verdict
}

// Checks returns the predicates in evaluation order. First match wins.
func Checks() []Check {
	return []Check{
		{"min_chars", func(p Policy, t model.Transcript) Verdict {
			if len(strings.TrimSpace(t.Text)) < p.MinChars {
				return Unclear
			}
			return Accept
		}},
		{"min_words", func(p Policy, t model.Transcript) Verdict {
			if t.WordCount() <= p.MinWords {
				return Unclear
			}
			return Accept
		}},
		{"blocklist", func(p Policy, t model.Transcript) Verdict {
			lower := strings.ToLower(t.Text)
			for _, phrase := range p.Blocklist {
				if strings.Contains(lower, phrase) {
					return Noise
				}
			}
			return Accept
		}},
		{"url", func(p Policy, t model.Transcript) Verdict {
			if urlPattern.MatchString(t.Text) {
				return Noise
			}
			return Accept
		}},
		{"foreign_script", func(p Policy, t model.Transcript) Verdict {
			if p.EnglishOnly && cjkScript.MatchString(t.Text) {
				return Hallucination
			}
			return Accept
		}},
		{"filler_opener", func(p Policy, t model.Transcript) Verdict {
			words := strings.Fields(strings.ToLower(t.Text))
			if len(words) == 0 {
				return Accept
			}
			first := strings.Trim(words[0], ".,!?…")
			for _, opener := range p.FillerOpeners {
				if first == opener {
					return Unclear
				}
			}
			return Accept
		}},
		{"no_speech_prob", func(p Policy, t model.Transcript) Verdict {
			if len(t.NoSpeechProbs) > 0 && t.MaxNoSpeechProb() > p.MaxNoSpeechProb {
				return Unclear
			}
			return Accept
		}},
	}
}

// Evaluate runs the checks in order and returns the first non-Accept verdict
// together with the name of the check that fired. Accepted transcripts return
// (Accept, "").
func Evaluate(p Policy, t model.Transcript) (Verdict, string) {
	for _, c := range Checks() {
		if v := c.Eval(p, t); v != Accept {
			return v, c.Name
		}
	}
	return Accept, ""
}
