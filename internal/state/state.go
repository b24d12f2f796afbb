package state

import (
	"context"
	"errors"
	"fmt"

	"github.com/abhisek/chebot/internal/content"
)

// ErrEmptyList is returned when a rotation is asked to pick from no items.
var ErrEmptyList = errors.New("content list is empty")

// DateLayout is the ISO calendar date format used for the daily guard.
const DateLayout = "2006-01-02"

// State is the persisted rotation and daily-check bookkeeping.
type State struct {
	VocabIdx           int    `json:"vocab_idx,omitempty"`
	LifePhraseIdx      int    `json:"life_phrase_idx,omitempty"`
	GrammarIdx         int    `json:"grammar_idx,omitempty"`
	DailyCheckLastDate string `json:"daily_check_last_date,omitempty"`
}

// Repository loads and saves State. Save is a full overwrite.
type Repository interface {
	Load(ctx context.Context) (*State, error)
	Save(ctx context.Context, s *State) error
}

// Index returns the stored rotation index for kind.
func (s *State) Index(kind content.Kind) int {
	switch kind {
	case content.KindVocab:
		return s.VocabIdx
	case content.KindLifePhrase:
		return s.LifePhraseIdx
	case content.KindGrammar:
		return s.GrammarIdx
	default:
		return 0
	}
}

// SetIndex stores the rotation index for kind. Non-rotating kinds are ignored.
func (s *State) SetIndex(kind content.Kind, idx int) {
	switch kind {
	case content.KindVocab:
		s.VocabIdx = idx
	case content.KindLifePhrase:
		s.LifePhraseIdx = idx
	case content.KindGrammar:
		s.GrammarIdx = idx
	}
}

// Advance records that the item at used was posted. The stored value is
// used+1; Pick reduces it modulo the list length on the next run.
func (s *State) Advance(kind content.Kind, used int) {
	s.SetIndex(kind, used+1)
}

// PostedOn reports whether the daily check was already posted on date.
func (s *State) PostedOn(date string) bool {
	return s.DailyCheckLastDate != "" && s.DailyCheckLastDate == date
}

// MarkPosted records date as the last daily check date.
func (s *State) MarkPosted(date string) {
	s.DailyCheckLastDate = date
}

// Pick returns the list position for a stored index.
func Pick(stored, length int) (int, error) {
	if length <= 0 {
		return 0, ErrEmptyList
	}
	if stored < 0 {
		return 0, fmt.Errorf("negative rotation index %d", stored)
	}
	return stored % length, nil
}

func (s *State) validate() error {
	for _, k := range []content.Kind{content.KindVocab, content.KindLifePhrase, content.KindGrammar} {
		if s.Index(k) < 0 {
			return fmt.Errorf("%s index is negative: %d", k, s.Index(k))
		}
	}
	return nil
}
