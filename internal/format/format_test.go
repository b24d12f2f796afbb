package format

import (
	"strings"
	"testing"

	"github.com/abhisek/chebot/internal/content"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countPrefix(caption, prefix string) int {
	n := 0
	for _, l := range strings.Split(caption, "\n") {
		if strings.HasPrefix(l, prefix) {
			n++
		}
	}
	return n
}

func TestVocab_Truncation(t *testing.T) {
	item := content.Vocab{
		Word:        "che",
		Translation: "hey/dude",
		Examples:    []string{"e1", "e2", "e3", "e4", "e5"},
		Phrases:     []string{"p1", "p2", "p3"},
	}
	p := Vocab(item)

	assert.Equal(t, 5, countPrefix(p.Caption, "• "))
	assert.Contains(t, p.Caption, "• e3")
	assert.NotContains(t, p.Caption, "• e4")
	assert.Contains(t, p.Caption, "• p2")
	assert.NotContains(t, p.Caption, "• p3")
	assert.Equal(t, "che", p.Title)
	assert.Equal(t, "hey/dude", p.Subtitle)
}

func TestVocab_Layout(t *testing.T) {
	p := Vocab(content.Vocab{Word: "che", Translation: "hey/dude", Examples: []string{"¿Che, cómo andás?"}})

	want := strings.Join([]string{
		"🧉 <b>Слово (AR):</b> <b>che</b>",
		"Это значит: <b>hey/dude</b>",
		"",
		"<b>Скажи так:</b>",
		"• ¿Che, cómo andás?",
	}, "\n")
	assert.Equal(t, want, p.Caption)
	assert.NotContains(t, p.Caption, "Ещё варианты")
}

func TestLifePhrase(t *testing.T) {
	p := LifePhrase(content.LifePhrase{
		Phrase:      "¿Todo bien?",
		Translation: "All good?",
		Examples:    []string{"a", "b", "c"},
	})
	assert.Equal(t, 2, countPrefix(p.Caption, "• "))
	assert.Contains(t, p.Caption, "<b>Примеры:</b>")
	assert.Equal(t, "¿Todo bien?", p.Title)
	assert.Equal(t, "All good?", p.Subtitle)

	bare := LifePhrase(content.LifePhrase{Phrase: "x", Translation: "y"})
	assert.NotContains(t, bare.Caption, "Примеры")
	assert.Equal(t, 2, len(strings.Split(bare.Caption, "\n")))
}

func TestGrammar(t *testing.T) {
	p := Grammar(content.Grammar{
		Title:    "Voseo",
		Rule:     "Use vos instead of tú.",
		Examples: []string{"Vos sos", "Vos tenés", "Vos querés"},
		Note:     "Stress the last syllable.",
	})
	assert.Equal(t, GrammarLabel, p.Title)
	assert.Equal(t, "Voseo", p.Subtitle)
	assert.Equal(t, 2, countPrefix(p.Caption, "• "))
	assert.True(t, strings.HasSuffix(p.Caption, "\n\n💡 Stress the last syllable."))

	noNote := Grammar(content.Grammar{Title: "Voseo", Rule: "r"})
	assert.NotContains(t, noNote.Caption, "💡")
	assert.Equal(t, "🧩 <b>Грамматика:</b> <b>Voseo</b>\nr", noNote.Caption)
}

func TestItem(t *testing.T) {
	store := &content.Store{
		Vocab:   []content.Vocab{{Word: "che", Translation: "hey"}},
		Grammar: []content.Grammar{{Title: "Voseo", Rule: "r"}},
	}

	p, err := Item(store, content.KindVocab, 0)
	require.NoError(t, err)
	assert.Equal(t, "che", p.Title)

	p, err = Item(store, content.KindGrammar, 0)
	require.NoError(t, err)
	assert.Equal(t, "Voseo", p.Subtitle)

	_, err = Item(store, content.KindLifePhrase, 0)
	assert.Error(t, err)

	_, err = Item(store, content.KindDailyCheck, 0)
	assert.Error(t, err)
}
