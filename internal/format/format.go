// Package format renders content items into Telegram captions (HTML parse
// mode) and the title/subtitle pair drawn on the card.
//
// Content is pre-authored and trusted, so nothing is escaped.
package format

import (
	"fmt"
	"strings"

	"github.com/abhisek/chebot/internal/content"
)

const (
	MaxVocabExamples = 3
	MaxVocabPhrases  = 2
	MaxExamples      = 2
)

// GrammarLabel is the card title used for every grammar post.
const GrammarLabel = "Грамматика"

// Post is the formatted output for one card-based item.
type Post struct {
	Caption  string
	Title    string
	Subtitle string
}

// Vocab formats a vocabulary card.
func Vocab(item content.Vocab) Post {
	var b lines
	b.add("🧉 <b>Слово (AR):</b> <b>%s</b>", item.Word)
	b.add("Это значит: <b>%s</b>", item.Translation)
	b.blank()
	b.add("<b>Скажи так:</b>")
	b.bullets(item.Examples, MaxVocabExamples)
	if len(item.Phrases) > 0 {
		b.blank()
		b.add("<b>Ещё варианты:</b>")
		b.bullets(item.Phrases, MaxVocabPhrases)
	}
	return Post{Caption: b.String(), Title: item.Word, Subtitle: item.Translation}
}

// LifePhrase formats an everyday phrase.
func LifePhrase(item content.LifePhrase) Post {
	var b lines
	b.add("🗣 <b>Фраза для жизни:</b> <b>%s</b>", item.Phrase)
	b.add("Значит: <b>%s</b>", item.Translation)
	if len(item.Examples) > 0 {
		b.blank()
		b.add("<b>Примеры:</b>")
		b.bullets(item.Examples, MaxExamples)
	}
	return Post{Caption: b.String(), Title: item.Phrase, Subtitle: item.Translation}
}

// Grammar formats a grammar note. The card shows a fixed label with the
// note title underneath.
func Grammar(item content.Grammar) Post {
	var b lines
	b.add("🧩 <b>Грамматика:</b> <b>%s</b>", item.Title)
	b.add("%s", item.Rule)
	if len(item.Examples) > 0 {
		b.blank()
		b.add("<b>Примеры:</b>")
		b.bullets(item.Examples, MaxExamples)
	}
	if item.Note != "" {
		b.blank()
		b.add("💡 %s", item.Note)
	}
	return Post{Caption: b.String(), Title: GrammarLabel, Subtitle: item.Title}
}

// Item formats the item at idx of the given kind.
func Item(store *content.Store, kind content.Kind, idx int) (Post, error) {
	if idx < 0 || idx >= store.Len(kind) {
		return Post{}, fmt.Errorf("%s index %d out of range (have %d)", kind, idx, store.Len(kind))
	}
	switch kind {
	case content.KindVocab:
		return Vocab(store.Vocab[idx]), nil
	case content.KindLifePhrase:
		return LifePhrase(store.LifePhrase[idx]), nil
	case content.KindGrammar:
		return Grammar(store.Grammar[idx]), nil
	default:
		return Post{}, fmt.Errorf("kind %q has no card format", kind)
	}
}

type lines struct {
	l []string
}

func (b *lines) add(f string, args ...any) {
	if len(args) == 0 {
		b.l = append(b.l, f)
		return
	}
	b.l = append(b.l, fmt.Sprintf(f, args...))
}

func (b *lines) blank() { b.l = append(b.l, "") }

func (b *lines) bullets(items []string, limit int) {
	for i, it := range items {
		if i == limit {
			break
		}
		b.l = append(b.l, "• "+it)
	}
}

func (b *lines) String() string { return strings.Join(b.l, "\n") }
