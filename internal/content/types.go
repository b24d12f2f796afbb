package content

import "fmt"

// Kind is the category of material posted in a single run.
type Kind string

const (
	KindVocab      Kind = "vocab"
	KindLifePhrase Kind = "life_phrase"
	KindGrammar    Kind = "grammar"
	KindDailyCheck Kind = "daily_check"
)

// Kinds returns every content kind in schedule priority order.
func Kinds() []Kind {
	return []Kind{KindDailyCheck, KindVocab, KindLifePhrase, KindGrammar}
}

// ParseKind converts a string to a Kind.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds() {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown content kind %q", s)
}

// Rotates reports whether the kind cycles through its list by index.
// The daily check always uses its single item.
func (k Kind) Rotates() bool {
	return k == KindVocab || k == KindLifePhrase || k == KindGrammar
}

// Vocab is a single slang word with its meaning.
type Vocab struct {
	Word        string   `json:"word"`
	Translation string   `json:"translation"`
	Examples    []string `json:"examples,omitempty"`
	Phrases     []string `json:"phrases,omitempty"`
}

// LifePhrase is an everyday expression.
type LifePhrase struct {
	Phrase      string   `json:"phrase"`
	Translation string   `json:"translation"`
	Examples    []string `json:"examples,omitempty"`
}

// Grammar is a short grammar note.
type Grammar struct {
	Title    string   `json:"title"`
	Rule     string   `json:"rule"`
	Examples []string `json:"examples,omitempty"`
	Note     string   `json:"note,omitempty"`
}

// PollQuestion is one poll of the daily check.
type PollQuestion struct {
	Question string   `json:"q"`
	Options  []string `json:"options"`
}

// DailyCheck is the evening quiz, posted as one poll per question.
type DailyCheck struct {
	Title     string         `json:"title"`
	Questions []PollQuestion `json:"questions"`
}

// Store holds all pre-authored content for a run. It is never mutated
// after Load returns.
type Store struct {
	Vocab      []Vocab      `json:"vocab,omitempty"`
	LifePhrase []LifePhrase `json:"life_phrase,omitempty"`
	Grammar    []Grammar    `json:"grammar,omitempty"`
	DailyCheck []DailyCheck `json:"daily_check,omitempty"`
}

// Len returns the number of items available for kind.
func (s *Store) Len(kind Kind) int {
	switch kind {
	case KindVocab:
		return len(s.Vocab)
	case KindLifePhrase:
		return len(s.LifePhrase)
	case KindGrammar:
		return len(s.Grammar)
	case KindDailyCheck:
		return len(s.DailyCheck)
	default:
		return 0
	}
}

// DailyCheckItem returns the daily check, which always lives at index 0.
func (s *Store) DailyCheckItem() (DailyCheck, error) {
	if len(s.DailyCheck) == 0 {
		return DailyCheck{}, fmt.Errorf("%w: %s", ErrNoContent, KindDailyCheck)
	}
	return s.DailyCheck[0], nil
}
