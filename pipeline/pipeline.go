// Package pipeline runs one audio request end to end: save the upload,
// normalize it, transcribe, gate, rewrite, and optionally translate.
package pipeline

import (
	"context"
	"io"
	"log"
	"path/filepath"

	"github.com/mrsingh-rishi/interview-voice/audio"
	"github.com/mrsingh-rishi/interview-voice/gate"
	"github.com/mrsingh-rishi/interview-voice/llm"
	"github.com/mrsingh-rishi/interview-voice/model"
	"github.com/mrsingh-rishi/interview-voice/stt"
)

// Converter is the transcoder boundary the pipeline needs.
type Converter interface {
	SaveUpload(src io.Reader, ext string) (string, error)
	ToWAV(ctx context.Context, inputPath string) (string, error)
	IsSilent(ctx context.Context, wavPath string) (bool, error)
}

// synthFailedAnswer is returned with the transcript when the rewrite call
// fails, so the caller is not left with nothing.
const synthFailedAnswer = "There was an error generating the answer."

// Request carries the caller's form fields for one clip.
type Request struct {
	Audio          io.Reader
	Filename       string
	InputLanguage  string // "auto" or a two-letter code
	OutputLanguage string // "same" or a two-letter code
}

// Pipeline wires the adapters for the audio endpoint.
type Pipeline struct {
	Converter   Converter
	Transcriber stt.Transcriber
	Completer   llm.Completer
	Policy      gate.Policy
}

func New(conv Converter, tr stt.Transcriber, comp llm.Completer) *Pipeline {
	return &Pipeline{
		Converter:   conv,
		Transcriber: tr,
		Completer:   comp,
		Policy:      gate.DefaultPolicy(),
	}
}

// Listen runs the whole chain for one clip. Hard adapter failures come back
// as errors (audio.ErrConversion, stt.ErrTranscription); gate rejections and
// synthesis failures are normal results. Temp files are removed on every
// path out of this function.
func (p *Pipeline) Listen(ctx context.Context, req Request) (model.ListenResult, error) {
	var temps []string
	defer func() { audio.Cleanup(temps...) }()

	inputPath, err := p.Converter.SaveUpload(req.Audio, filepath.Ext(req.Filename))
	if err != nil {
		return model.ListenResult{}, err
	}
	temps = append(temps, inputPath)

	wavPath, err := p.Converter.ToWAV(ctx, inputPath)
	if err != nil {
		return model.ListenResult{}, err
	}
	temps = append(temps, wavPath)

	if silent, err := p.Converter.IsSilent(ctx, wavPath); err != nil {
		// The analysis pass is a cost-saving check; a broken diagnostic run
		// must not fail the request.
		log.Printf("pipeline: silence detection failed: %v", err)
	} else if silent {
		return model.ListenResult{
			Question: gate.Silence.Placeholder(),
			Answer:   gate.Silence.Apology(),
		}, nil
	}

	transcript, err := p.Transcriber.Transcribe(ctx, wavPath, req.InputLanguage)
	if err != nil {
		return model.ListenResult{}, err
	}

	policy := p.Policy
	policy.EnglishOnly = req.InputLanguage == "en"
	if verdict, name := gate.Evaluate(policy, transcript); verdict != gate.Accept {
		log.Printf("pipeline: transcript rejected by %s check", name)
		return model.ListenResult{
			Question:         verdict.Placeholder(),
			Answer:           verdict.Apology(),
			DetectedLanguage: transcript.Language,
		}, nil
	}

	outputLang := req.OutputLanguage
	if outputLang == "" || outputLang == "same" {
		outputLang = transcript.Language
	}

	answer, err := p.Completer.Complete(ctx, llm.RewritePrompt(transcript.Text, llm.LanguageName(transcript.Language)))
	if err != nil {
		log.Printf("pipeline: answer synthesis failed: %v", err)
		return model.ListenResult{
			Question:         transcript.Text,
			Answer:           synthFailedAnswer,
			DetectedLanguage: transcript.Language,
		}, nil
	}

	if outputLang != transcript.Language {
		translated, err := p.Completer.Complete(ctx, llm.TranslatePrompt(answer, llm.LanguageName(outputLang)))
		if err != nil {
			// Fall back silently to the source-language answer.
			log.Printf("pipeline: translation failed, keeping source language: %v", err)
		} else {
			answer = translated
		}
	}

	return model.ListenResult{
		Question:         transcript.Text,
		Answer:           answer,
		DetectedLanguage: transcript.Language,
		OutputLanguage:   outputLang,
	}, nil
}
