package model

import "strings"

// Transcript is what the transcription adapter hands back for one clip.
type Transcript struct {
	Text          string
	Language      string // two-letter code, "en" when the API gives us nothing
	NoSpeechProbs []float64
}

// WordCount counts whitespace-separated words in the transcript.
func (t Transcript) WordCount() int {
	return len(strings.Fields(t.Text))
}

// MaxNoSpeechProb returns the highest per-segment no-speech probability,
// or 0 when the API returned no segments.
func (t Transcript) MaxNoSpeechProb() float64 {
	max := 0.0
	for _, p := range t.NoSpeechProbs {
		if p > max {
			max = p
		}
	}
	return max
}

// ListenResult is the assembled outcome of one audio request, ready to be
// serialized by the handler.
type ListenResult struct {
	Question         string `json:"question"`
	Answer           string `json:"answer"`
	DetectedLanguage string `json:"detected_language"`
	OutputLanguage   string `json:"output_language,omitempty"`
}
