package llm

import "fmt"

var languageNames = map[string]string{
	"en": "English",
	"my": "Burmese",
	"ja": "Japanese",
	"ko": "Korean",
	"zh": "Chinese",
	"es": "Spanish",
	"hi": "Hindi",
}

// LanguageName resolves a two-letter code to a language name for use inside
// prompts. Unknown codes pass through unchanged.
func LanguageName(code string) string {
	if name, ok := languageNames[code]; ok {
		return name
	}
	return code
}

// RewritePrompt asks for the transcript rewritten as a short interview
// answer in the given language.
func RewritePrompt(text, languageName string) string {
	return fmt.Sprintf(`Rewrite the following into a short, confident 2–3 sentence interview answer.
Write the FINAL version in %s.

Text:
"""%s"""

Rules:
- Keep original meaning
- Simple and confident
- Output ONLY the final answer`, languageName, text)
}

// AnswerPrompt builds the typed-question prompt.
func AnswerPrompt(question, jobRole, background string) string {
	return fmt.Sprintf(`Write a short 2–3 sentence interview answer in clear, confident language.

Question: "%s"
Job role: "%s"
Background: "%s"

Output ONLY the answer.`, question, jobRole, background)
}

// RegenPrompt asks for a rephrasing of an already produced answer.
func RegenPrompt(text string) string {
	return fmt.Sprintf(`Rewrite this in 2–3 confident, clean sentences:

"""%s"""

Output ONLY the improved answer.`, text)
}

// TranslatePrompt asks for a plain translation of a finished answer.
func TranslatePrompt(text, languageName string) string {
	return fmt.Sprintf(`Translate the following into %s. Preserve the meaning and tone.

"""%s"""

Output ONLY the translation.`, languageName, text)
}
