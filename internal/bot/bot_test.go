package bot

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/chebot/internal/archive"
	"github.com/abhisek/chebot/internal/card"
	"github.com/abhisek/chebot/internal/content"
	"github.com/abhisek/chebot/internal/schedule"
	"github.com/abhisek/chebot/internal/state"
	"github.com/abhisek/chebot/internal/telegram"
)

type fakeRenderer struct {
	calls [][2]string
	err   error
}

func (f *fakeRenderer) RenderFile(path, title, subtitle string) ([]byte, error) {
	f.calls = append(f.calls, [2]string{title, subtitle})
	if f.err != nil {
		return nil, f.err
	}
	return []byte("png:" + title), nil
}

type fakeArchiver struct {
	entries []archive.Entry
	err     error
}

func (f *fakeArchiver) Archive(_ context.Context, e archive.Entry) (string, error) {
	f.entries = append(f.entries, e)
	if f.err != nil {
		return "", f.err
	}
	return "s3://bucket/" + archive.Key("", e), nil
}

// at returns a clock fixed at the given date and hour in the schedule zone.
func at(year int, month time.Month, day, hour int) func() time.Time {
	t := time.Date(year, month, day, hour, 0, 0, 0, schedule.Location)
	return func() time.Time { return t }
}

func sampleStore() *content.Store {
	return &content.Store{
		Vocab: []content.Vocab{
			{Word: "che", Translation: "hey/dude", Examples: []string{"¿Che, cómo andás?"}},
			{Word: "boludo", Translation: "dude"},
			{Word: "quilombo", Translation: "mess"},
		},
		LifePhrase: []content.LifePhrase{
			{Phrase: "¿Todo bien?", Translation: "All good?"},
			{Phrase: "Dale", Translation: "OK"},
		},
		DailyCheck: []content.DailyCheck{{
			Title: "Daily check",
			Questions: []content.PollQuestion{
				{Question: "q1", Options: []string{"a", "b"}},
				{Question: "q2", Options: []string{"c", "d"}},
				{Question: "q3", Options: []string{"e", "f"}},
			},
		}},
	}
}

type harness struct {
	repo     *state.MemoryRepository
	sender   *telegram.MockSender
	renderer *fakeRenderer
	archiver *fakeArchiver
	bot      *Bot
}

func newHarness(t *testing.T, store *content.Store, initial state.State, now func() time.Time) *harness {
	t.Helper()
	h := &harness{
		repo:     state.NewMemoryRepository(initial),
		sender:   telegram.NewMockSender(),
		renderer: &fakeRenderer{},
		archiver: &fakeArchiver{},
	}
	b, err := New(Options{
		Content:  store,
		State:    h.repo,
		Sender:   h.sender,
		Renderer: h.renderer,
		Archiver: h.archiver,
		CardPath: "card.png",
		Now:      now,
		RunID:    "run-1",
	})
	require.NoError(t, err)
	h.bot = b
	return h
}

func TestRun_VocabEndToEnd(t *testing.T) {
	dir := t.TempDir()
	cardPath := filepath.Join(dir, "card.png")
	store := &content.Store{Vocab: []content.Vocab{
		{Word: "che", Translation: "hey/dude", Examples: []string{"¿Che, cómo andás?"}},
	}}
	repo := state.NewFileRepository(filepath.Join(dir, "state.json"))
	sender := telegram.NewMockSender()

	b, err := New(Options{
		Content:  store,
		State:    repo,
		Sender:   sender,
		Renderer: card.NewRenderer(card.FontResolver{Dirs: []string{}}.Resolve()),
		CardPath: cardPath,
		Now:      at(2024, 5, 1, 14),
	})
	require.NoError(t, err)

	res, err := b.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, content.KindVocab, res.Kind)
	assert.Equal(t, 0, res.Index)
	assert.Equal(t, "Posted kind=vocab at 2024-05-01T14:00:00-03:00", res.String())

	require.Len(t, sender.Photos, 1)
	assert.Empty(t, sender.Polls)
	caption := sender.Photos[0].Caption
	assert.Contains(t, caption, "che")
	assert.Contains(t, caption, "hey/dude")
	assert.Equal(t, 1, strings.Count(caption, "• "))
	assert.Equal(t, cardPath, sender.Photos[0].PhotoPath)

	info, err := os.Stat(cardPath)
	require.NoError(t, err)
	assert.Positive(t, info.Size())

	data, err := os.ReadFile(filepath.Join(dir, "state.json"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"vocab_idx": 1}`, string(data))
}

func TestRun_DailyCheckAlreadyPosted(t *testing.T) {
	h := newHarness(t, sampleStore(), state.State{DailyCheckLastDate: "2024-05-01"}, at(2024, 5, 1, 21))

	res, err := h.bot.Run(context.Background())
	require.NoError(t, err)
	assert.True(t, res.Skipped)
	assert.Equal(t, "Daily check already posted today.", res.String())
	assert.Zero(t, h.sender.CallCount())
	assert.Zero(t, h.repo.SaveCount())
}

func TestRun_DailyCheckOncePerDay(t *testing.T) {
	h := newHarness(t, sampleStore(), state.State{VocabIdx: 2, DailyCheckLastDate: "2024-04-30"}, at(2024, 5, 1, 21))
	ctx := context.Background()

	res, err := h.bot.Run(ctx)
	require.NoError(t, err)
	assert.False(t, res.Skipped)
	assert.Equal(t, 3, res.Polls)
	assert.Equal(t, "Daily check posted.", res.String())

	res, err = h.bot.Run(ctx)
	require.NoError(t, err)
	assert.True(t, res.Skipped)

	require.Len(t, h.sender.Polls, 3)
	assert.Equal(t, []string{"q1", "q2", "q3"}, []string{h.sender.Polls[0].Question, h.sender.Polls[1].Question, h.sender.Polls[2].Question})
	assert.Equal(t, []string{"c", "d"}, h.sender.Polls[1].Options)
	assert.Empty(t, h.sender.Photos)
	assert.Equal(t, 1, h.repo.SaveCount())
	assert.Equal(t, state.State{VocabIdx: 2, DailyCheckLastDate: "2024-05-01"}, h.repo.State())
}

func TestRun_DailyCheckNextDay(t *testing.T) {
	h := newHarness(t, sampleStore(), state.State{DailyCheckLastDate: "2024-05-01"}, at(2024, 5, 2, 21))

	res, err := h.bot.Run(context.Background())
	require.NoError(t, err)
	assert.False(t, res.Skipped)
	assert.Equal(t, "2024-05-02", h.repo.State().DailyCheckLastDate)
}

func TestRun_DailyCheckPollFailureKeepsState(t *testing.T) {
	h := newHarness(t, sampleStore(), state.State{}, at(2024, 5, 1, 21))
	h.sender.AddError(nil)
	h.sender.AddError(errors.New("network down"))

	_, err := h.bot.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "send poll 2/3")
	assert.Len(t, h.sender.Polls, 2)
	assert.Zero(t, h.repo.SaveCount())
	assert.Empty(t, h.repo.State().DailyCheckLastDate)
}

func TestRun_DailyCheckMissingContent(t *testing.T) {
	h := newHarness(t, &content.Store{}, state.State{}, at(2024, 5, 1, 21))

	_, err := h.bot.Run(context.Background())
	assert.ErrorIs(t, err, content.ErrNoContent)
	assert.Zero(t, h.repo.SaveCount())
}

func TestRun_RotationWraps(t *testing.T) {
	h := newHarness(t, sampleStore(), state.State{}, at(2024, 5, 1, 10))
	ctx := context.Background()

	var titles []string
	for i := 0; i < 4; i++ {
		res, err := h.bot.Run(ctx)
		require.NoError(t, err)
		assert.Less(t, res.Index, 3)
		titles = append(titles, h.renderer.calls[len(h.renderer.calls)-1][0])
	}
	assert.Equal(t, []string{"che", "boludo", "quilombo", "che"}, titles)
	assert.Equal(t, 1, h.repo.State().VocabIdx)
	assert.Equal(t, 4, h.repo.SaveCount())
}

func TestRun_IndexSelfCorrectsWhenListShrinks(t *testing.T) {
	h := newHarness(t, sampleStore(), state.State{LifePhraseIdx: 11}, at(2024, 5, 1, 15))

	res, err := h.bot.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, content.KindLifePhrase, res.Kind)
	assert.Equal(t, 1, res.Index)
	assert.Equal(t, [2]string{"Dale", "OK"}, h.renderer.calls[0])
	assert.Equal(t, 2, h.repo.State().LifePhraseIdx)
}

func TestRun_SendFailureKeepsState(t *testing.T) {
	h := newHarness(t, sampleStore(), state.State{VocabIdx: 1}, at(2024, 5, 1, 8))
	h.sender.AddError(&telegram.APIError{Method: "sendPhoto", StatusCode: 500})

	_, err := h.bot.Run(context.Background())
	var apiErr *telegram.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Zero(t, h.repo.SaveCount())
	assert.Equal(t, 1, h.repo.State().VocabIdx)
	assert.Empty(t, h.archiver.entries)
}

func TestRun_RenderFailureSendsNothing(t *testing.T) {
	h := newHarness(t, sampleStore(), state.State{}, at(2024, 5, 1, 8))
	h.renderer.err = errors.New("disk full")

	_, err := h.bot.Run(context.Background())
	require.Error(t, err)
	assert.Zero(t, h.sender.CallCount())
	assert.Zero(t, h.repo.SaveCount())
}

func TestRun_SaveFailure(t *testing.T) {
	h := newHarness(t, sampleStore(), state.State{}, at(2024, 5, 1, 8))
	h.repo.SaveErr = errors.New("read-only")

	_, err := h.bot.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "save state")
}

func TestRun_EmptyKind(t *testing.T) {
	// Hour 3 selects life_phrase.
	h := newHarness(t, &content.Store{Vocab: sampleStore().Vocab}, state.State{}, at(2024, 5, 1, 3))

	_, err := h.bot.Run(context.Background())
	assert.ErrorIs(t, err, content.ErrNoContent)
	assert.Zero(t, h.sender.CallCount())
}

func TestRun_ArchivesCard(t *testing.T) {
	h := newHarness(t, sampleStore(), state.State{}, at(2024, 5, 1, 12))

	res, err := h.bot.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, h.archiver.entries, 1)
	e := h.archiver.entries[0]
	assert.Equal(t, content.KindVocab, e.Kind)
	assert.Equal(t, "2024-05-01", e.Date)
	assert.Equal(t, "run-1", e.RunID)
	assert.Equal(t, []byte("png:che"), e.PNG)
	assert.Equal(t, "s3://bucket/cards/2024-05-01/vocab-run-1.png", res.Archived)
}

func TestRun_ArchiveFailureIgnored(t *testing.T) {
	h := newHarness(t, sampleStore(), state.State{}, at(2024, 5, 1, 12))
	h.archiver.err = errors.New("access denied")

	res, err := h.bot.Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, res.Archived)
	assert.Equal(t, 1, h.repo.SaveCount())
}

func TestRun_LoadStateFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o644))

	b, err := New(Options{
		Content:  sampleStore(),
		State:    state.NewFileRepository(path),
		Sender:   telegram.NewMockSender(),
		Renderer: &fakeRenderer{},
		CardPath: "card.png",
		Now:      at(2024, 5, 1, 12),
	})
	require.NoError(t, err)

	_, err = b.Run(context.Background())
	var ce *state.CorruptError
	assert.ErrorAs(t, err, &ce)
}

func TestRun_UsesScheduleZone(t *testing.T) {
	// 00:00 UTC on May 2 is 21:00 on May 1 in Buenos Aires.
	utc := time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)
	h := newHarness(t, sampleStore(), state.State{}, func() time.Time { return utc })

	res, err := h.bot.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, content.KindDailyCheck, res.Kind)
	assert.Equal(t, "2024-05-01", h.repo.State().DailyCheckLastDate)
}

func TestNew_RequiresDependencies(t *testing.T) {
	full := Options{
		Content:  sampleStore(),
		State:    state.NewMemoryRepository(state.State{}),
		Sender:   telegram.NewMockSender(),
		Renderer: &fakeRenderer{},
		CardPath: "card.png",
	}
	_, err := New(full)
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(*Options)
	}{
		{"content", func(o *Options) { o.Content = nil }},
		{"state", func(o *Options) { o.State = nil }},
		{"sender", func(o *Options) { o.Sender = nil }},
		{"renderer", func(o *Options) { o.Renderer = nil }},
		{"card path", func(o *Options) { o.CardPath = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := full
			tt.mutate(&o)
			_, err := New(o)
			assert.Error(t, err)
		})
	}
}
