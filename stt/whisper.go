// Package stt is the speech-to-text boundary.
package stt

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/mrsingh-rishi/interview-voice/model"
)

// ErrTranscription marks a hard failure of the transcription API, as opposed
// to an empty or unclear transcript, which is a normal outcome.
var ErrTranscription = errors.New("transcription failed")

// Transcriber turns a normalized audio file into a transcript.
type Transcriber interface {
	Transcribe(ctx context.Context, wavPath, hint string) (model.Transcript, error)
}

// A hinted result shorter than this triggers the fallback-hint retries.
const shortResultChars = 4

// WhisperClient transcribes audio files through the OpenAI audio API.
type WhisperClient struct {
	Client *openai.Client
	Model  string
	// LowResourceHints lists languages whisper tends to drop on the first
	// pass. A short result for one of these hints gets a single retry with
	// the caller's own hint forced again; other hints are never substituted.
	LowResourceHints []string
}

func NewWhisperClient(apiKey string) *WhisperClient {
	return NewWhisperClientFrom(openai.NewClient(apiKey))
}

// NewWhisperClientFrom wraps an existing API client; tests point it at a
// local fake server.
func NewWhisperClientFrom(client *openai.Client) *WhisperClient {
	return &WhisperClient{
		Client:           client,
		Model:            openai.Whisper1,
		LowResourceHints: []string{"my"},
	}
}

// Transcribe sends the WAV to the API once, passing the hint as the language
// unless it is "auto". When the hint names a low-resource language and the
// result is too short, the same hint is forced one more time.
func (w *WhisperClient) Transcribe(ctx context.Context, wavPath, hint string) (model.Transcript, error) {
	lang := ""
	if hint != "" && hint != "auto" {
		lang = hint
	}

	resp, err := w.request(ctx, wavPath, lang)
	if err != nil {
		return model.Transcript{}, fmt.Errorf("%w: %v", ErrTranscription, err)
	}

	text := strings.TrimSpace(resp.Text)
	if lang != "" && len(text) < shortResultChars && w.isLowResource(lang) {
		log.Printf("stt: short result for low-resource hint %q, retrying once", lang)
		if retry, err := w.request(ctx, wavPath, lang); err == nil {
			if t := strings.TrimSpace(retry.Text); len(t) >= shortResultChars {
				resp, text = retry, t
			}
		}
	}

	return model.Transcript{
		Text:          text,
		Language:      detectedLanguage(resp.Language, lang),
		NoSpeechProbs: noSpeechProbs(resp),
	}, nil
}

func (w *WhisperClient) isLowResource(lang string) bool {
	for _, l := range w.LowResourceHints {
		if l == lang {
			return true
		}
	}
	return false
}

func (w *WhisperClient) request(ctx context.Context, wavPath, lang string) (openai.AudioResponse, error) {
	return w.Client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    w.Model,
		FilePath: wavPath,
		Language: lang,
		Format:   openai.AudioResponseFormatVerboseJSON,
	})
}

func noSpeechProbs(resp openai.AudioResponse) []float64 {
	if len(resp.Segments) == 0 {
		return nil
	}
	probs := make([]float64, 0, len(resp.Segments))
	for _, s := range resp.Segments {
		probs = append(probs, s.NoSpeechProb)
	}
	return probs
}

// The verbose response spells languages out ("english") while the rest of
// the pipeline works with two-letter codes.
var languageCodes = map[string]string{
	"english":  "en",
	"burmese":  "my",
	"japanese": "ja",
	"korean":   "ko",
	"chinese":  "zh",
	"spanish":  "es",
	"hindi":    "hi",
}

// detectedLanguage normalizes the API's language tag, falling back to the
// hint and finally to "en" when the API omits it.
func detectedLanguage(apiLang, hint string) string {
	apiLang = strings.ToLower(strings.TrimSpace(apiLang))
	if code, ok := languageCodes[apiLang]; ok {
		return code
	}
	if apiLang != "" {
		return apiLang
	}
	if hint != "" {
		return hint
	}
	return "en"
}
