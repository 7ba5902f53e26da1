package stt

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTranscription struct {
	Text     string                   `json:"text"`
	Language string                   `json:"language"`
	Segments []map[string]interface{} `json:"segments,omitempty"`
}

// newFakeServer returns a whisper client pointed at a local server that
// replies per received language form field, plus a counter of calls made.
func newFakeServer(t *testing.T, respond func(language string, call int) (fakeTranscription, int)) (*WhisperClient, *int) {
	t.Helper()
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/audio/transcriptions", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(16<<20))
		calls++
		resp, status := respond(r.FormValue("language"), calls)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(server.Close)

	cfg := openai.DefaultConfig("test-key")
	cfg.BaseURL = server.URL + "/v1"
	return NewWhisperClientFrom(openai.NewClientWithConfig(cfg)), &calls
}

func wavFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clip.wav")
	require.NoError(t, os.WriteFile(path, []byte("RIFF....WAVE"), 0o644))
	return path
}

func TestTranscribe(t *testing.T) {
	client, calls := newFakeServer(t, func(language string, call int) (fakeTranscription, int) {
		assert.Equal(t, "", language) // "auto" must not be forwarded
		return fakeTranscription{
			Text:     "Tell me about yourself",
			Language: "english",
			Segments: []map[string]interface{}{
				{"id": 0, "no_speech_prob": 0.01},
				{"id": 1, "no_speech_prob": 0.12},
			},
		}, http.StatusOK
	})

	tr, err := client.Transcribe(context.Background(), wavFixture(t), "auto")
	require.NoError(t, err)
	assert.Equal(t, "Tell me about yourself", tr.Text)
	assert.Equal(t, "en", tr.Language)
	assert.Equal(t, []float64{0.01, 0.12}, tr.NoSpeechProbs)
	assert.Equal(t, 1, *calls)
}

func TestTranscribeForwardsHint(t *testing.T) {
	client, _ := newFakeServer(t, func(language string, call int) (fakeTranscription, int) {
		assert.Equal(t, "es", language)
		return fakeTranscription{Text: "Háblame de ti mismo", Language: "spanish"}, http.StatusOK
	})

	tr, err := client.Transcribe(context.Background(), wavFixture(t), "es")
	require.NoError(t, err)
	assert.Equal(t, "es", tr.Language)
}

func TestTranscribeFallbackHintRetry(t *testing.T) {
	client, calls := newFakeServer(t, func(language string, call int) (fakeTranscription, int) {
		if call == 1 {
			return fakeTranscription{Text: "", Language: ""}, http.StatusOK
		}
		assert.Equal(t, "my", language)
		return fakeTranscription{Text: "မင်္ဂလာပါ ကျွန်တော့်အကြောင်း ပြောပြပါမယ်", Language: "burmese"}, http.StatusOK
	})

	tr, err := client.Transcribe(context.Background(), wavFixture(t), "my")
	require.NoError(t, err)
	assert.Equal(t, 2, *calls)
	assert.Equal(t, "my", tr.Language)
	assert.NotEmpty(t, tr.Text)
}

func TestTranscribeShortResultKeepsHintedLanguage(t *testing.T) {
	// A short result for a hint outside the low-resource list must be
	// returned as-is, not re-run with some other forced language.
	client, calls := newFakeServer(t, func(language string, call int) (fakeTranscription, int) {
		if language == "my" {
			t.Fatal("short Spanish result must not trigger a Burmese retry")
		}
		assert.Equal(t, "es", language)
		return fakeTranscription{Text: "sí", Language: "spanish"}, http.StatusOK
	})

	tr, err := client.Transcribe(context.Background(), wavFixture(t), "es")
	require.NoError(t, err)
	assert.Equal(t, 1, *calls)
	assert.Equal(t, "es", tr.Language)
	assert.Equal(t, "sí", tr.Text)
}

func TestTranscribeRetryForcesCallersOwnHint(t *testing.T) {
	client, _ := newFakeServer(t, func(language string, call int) (fakeTranscription, int) {
		assert.Equal(t, "my", language, "retry must force the caller's hint, call %d", call)
		if call == 1 {
			return fakeTranscription{Text: "", Language: ""}, http.StatusOK
		}
		return fakeTranscription{Text: "မင်္ဂလာပါ ကျွန်တော့်အကြောင်း", Language: "burmese"}, http.StatusOK
	})

	tr, err := client.Transcribe(context.Background(), wavFixture(t), "my")
	require.NoError(t, err)
	assert.Equal(t, "my", tr.Language)
}

func TestTranscribeNoRetryWithoutHint(t *testing.T) {
	client, calls := newFakeServer(t, func(language string, call int) (fakeTranscription, int) {
		return fakeTranscription{Text: "", Language: ""}, http.StatusOK
	})

	tr, err := client.Transcribe(context.Background(), wavFixture(t), "auto")
	require.NoError(t, err)
	assert.Equal(t, 1, *calls)
	assert.Empty(t, tr.Text)
	assert.Equal(t, "en", tr.Language)
}

func TestTranscribeAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"boom"}}`, http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	cfg := openai.DefaultConfig("test-key")
	cfg.BaseURL = server.URL + "/v1"
	client := NewWhisperClientFrom(openai.NewClientWithConfig(cfg))

	_, err := client.Transcribe(context.Background(), wavFixture(t), "auto")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTranscription))
}

func TestDetectedLanguage(t *testing.T) {
	assert.Equal(t, "en", detectedLanguage("english", ""))
	assert.Equal(t, "es", detectedLanguage("Spanish", "auto"))
	assert.Equal(t, "fr", detectedLanguage("fr", ""))
	assert.Equal(t, "ja", detectedLanguage("", "ja"))
	assert.Equal(t, "en", detectedLanguage("", ""))
}
