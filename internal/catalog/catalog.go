// Package catalog holds the static language/voice tables the frontend voice
// picker is built around, and expands them into the ordered worklist of demo
// clips to generate.
package catalog

import (
	"fmt"

	"github.com/samber/lo"

	apperrors "voice-demos/pkg/errors"
)

// Langs lists every supported language code, in generation order.
var Langs = []string{"en", "fr", "de", "it", "es", "ru", "ja", "pt", "nl"}

// voiceCandidates mirrors VOICE_CANDIDATES in the frontend. Order matters:
// it is the order clips are generated and listed in.
var voiceCandidates = map[string][]string{
	"en": {"ash", "coral", "alloy", "echo", "verse"},
	"fr": {"nova", "shimmer", "alloy", "verse", "coral"},
	"de": {"verse", "onyx", "alloy", "echo", "shimmer"},
	"it": {"ballad", "alloy", "nova", "ash", "coral"},
	"es": {"ash", "alloy", "nova", "ballad", "coral"},
	// Provisional picks for newer languages, tuned later once the UI
	// integrates them.
	"ru": {"alloy", "echo", "nova"},
	"ja": {"alloy", "nova", "ash"},
	"pt": {"alloy", "nova", "echo"},
	"nl": {"alloy", "echo", "verse"},
}

// defaultVoices applies to any language without an explicit entry.
var defaultVoices = []string{"alloy", "nova", "echo", "verse", "shimmer"}

var sentences = map[string]string{
	"en": "Hello, do you want to learn English with me? Let's go!",
	"fr": "Bonjour, tu veux apprendre le français avec moi ? Allons-y !",
	"de": "Hallo, willst du Deutsch mit mir lernen? Los geht's!",
	"it": "Ciao, vuoi imparare l'italiano con me? Andiamo!",
	"es": "Hola, ¿quieres aprender español conmigo? ¡Vamos!",
	"ru": "Привет, хочешь выучить русский со мной? Поехали!",
	"ja": "こんにちは、一緒に日本語を学びませんか？さあ行こう！",
	"pt": "Olá, quer aprender português comigo? Vamos lá!",
	"nl": "Hallo, wil je samen Nederlands leren? Laten we gaan!",
}

// WorkItem identifies one demo clip to produce.
type WorkItem struct {
	Lang  string
	Voice string
}

// Filename is a pure function of the pair; two distinct pairs never map to
// the same file.
func (w WorkItem) Filename(format string) string {
	return fmt.Sprintf("%s_%s.%s", w.Lang, w.Voice, format)
}

// Sentence returns the localized demo sentence, falling back to English for
// languages without a translation. Sentences stay short on purpose to keep
// the generated clips small.
func Sentence(lang string) string {
	if s, ok := sentences[lang]; ok {
		return s
	}
	return sentences["en"]
}

// Voices returns the candidate voice list for a language, using the default
// list when the language has no explicit entry.
func Voices(lang string) []string {
	if vs, ok := voiceCandidates[lang]; ok {
		return vs
	}
	return defaultVoices
}

// BuildWorklist expands the catalog into the ordered (language, voice)
// sequence: languages in declared order (or the single onlyLang), each
// language's voice list in declared order, intersected with voiceFilter
// when one is given.
func BuildWorklist(onlyLang string, voiceFilter []string) ([]WorkItem, error) {
	langs := Langs
	if onlyLang != "" {
		if !lo.Contains(Langs, onlyLang) {
			return nil, apperrors.New(apperrors.CodeBadConfig,
				fmt.Sprintf("unknown language %q (known: %v)", onlyLang, Langs))
		}
		langs = []string{onlyLang}
	}

	var work []WorkItem
	for _, lang := range langs {
		voices := Voices(lang)
		if len(voiceFilter) > 0 {
			voices = lo.Filter(voices, func(v string, _ int) bool {
				return lo.Contains(voiceFilter, v)
			})
		}
		for _, v := range voices {
			work = append(work, WorkItem{Lang: lang, Voice: v})
		}
	}
	return work, nil
}

// KnownVoices returns the deduplicated set of every voice appearing in the
// catalog, preserving first-seen order.
func KnownVoices() []string {
	all := make([]string, 0, len(Langs)*5)
	for _, lang := range Langs {
		all = append(all, Voices(lang)...)
	}
	all = append(all, defaultVoices...)
	return lo.Uniq(all)
}
