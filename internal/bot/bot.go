// Package bot runs one posting pass: pick the kind for the current hour,
// post it, and persist the rotation state.
package bot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/chebot/internal/archive"
	"github.com/abhisek/chebot/internal/content"
	"github.com/abhisek/chebot/internal/format"
	"github.com/abhisek/chebot/internal/logging"
	"github.com/abhisek/chebot/internal/schedule"
	"github.com/abhisek/chebot/internal/state"
	"github.com/abhisek/chebot/internal/telegram"
)

// Renderer writes a card image to path and returns the encoded PNG.
type Renderer interface {
	RenderFile(path, title, subtitle string) ([]byte, error)
}

// Options wires a Bot.
type Options struct {
	Content  *content.Store
	State    state.Repository
	Sender   telegram.Sender
	Renderer Renderer
	CardPath string

	// Archiver is optional.
	Archiver archive.Archiver
	// Now defaults to time.Now.
	Now func() time.Time
	// Logger defaults to a no-op logger.
	Logger *logging.Logger
	// RunID defaults to a random UUID.
	RunID string
}

// Bot performs a single run.
type Bot struct {
	content  *content.Store
	state    state.Repository
	sender   telegram.Sender
	renderer Renderer
	archiver archive.Archiver
	cardPath string
	now      func() time.Time
	log      *logging.Logger
	runID    string
}

// New validates opts and returns a Bot.
func New(opts Options) (*Bot, error) {
	switch {
	case opts.Content == nil:
		return nil, errors.New("bot: content store is required")
	case opts.State == nil:
		return nil, errors.New("bot: state repository is required")
	case opts.Sender == nil:
		return nil, errors.New("bot: sender is required")
	case opts.Renderer == nil:
		return nil, errors.New("bot: renderer is required")
	case opts.CardPath == "":
		return nil, errors.New("bot: card path is required")
	}

	b := &Bot{
		content:  opts.Content,
		state:    opts.State,
		sender:   opts.Sender,
		renderer: opts.Renderer,
		archiver: opts.Archiver,
		cardPath: opts.CardPath,
		now:      opts.Now,
		log:      opts.Logger,
		runID:    opts.RunID,
	}
	if b.archiver == nil {
		b.archiver = archive.Nop{}
	}
	if b.now == nil {
		b.now = time.Now
	}
	if b.log == nil {
		b.log = logging.Nop()
	}
	if b.runID == "" {
		b.runID = uuid.NewString()
	}
	b.log = b.log.With("run_id", b.runID)
	return b, nil
}

// Result describes what a run did.
type Result struct {
	Kind content.Kind
	Time time.Time
	// Index is the list position posted, for rotating kinds.
	Index int
	// Skipped is set when the daily check was already posted today.
	Skipped bool
	// Polls is the number of polls sent by the daily check.
	Polls     int
	MessageID int64
	// Archived is the archive location of the card, if any.
	Archived string
}

// String is the single line printed at the end of a run.
func (r *Result) String() string {
	if r.Kind == content.KindDailyCheck {
		if r.Skipped {
			return "Daily check already posted today."
		}
		return "Daily check posted."
	}
	return fmt.Sprintf("Posted kind=%s at %s", r.Kind, r.Time.Format(time.RFC3339))
}

// Run performs one pass. State is saved only after every send for the
// selected kind has succeeded.
func (b *Bot) Run(ctx context.Context) (*Result, error) {
	st, err := b.state.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}

	now := schedule.In(b.now())
	kind := schedule.KindAt(now)
	b.log.Info("run started", "kind", kind, "hour", now.Hour())

	if kind == content.KindDailyCheck {
		return b.runDailyCheck(ctx, st, now)
	}
	return b.runCard(ctx, st, kind, now)
}

func (b *Bot) runDailyCheck(ctx context.Context, st *state.State, now time.Time) (*Result, error) {
	res := &Result{Kind: content.KindDailyCheck, Time: now}
	today := schedule.Date(now)

	if st.PostedOn(today) {
		b.log.Info("daily check already posted", "date", today)
		res.Skipped = true
		return res, nil
	}

	item, err := b.content.DailyCheckItem()
	if err != nil {
		return nil, err
	}

	for i, q := range item.Questions {
		msg, err := b.sender.SendPoll(ctx, q.Question, q.Options)
		if err != nil {
			return nil, fmt.Errorf("send poll %d/%d: %w", i+1, len(item.Questions), err)
		}
		res.Polls++
		if msg != nil {
			res.MessageID = msg.MessageID
		}
	}

	st.MarkPosted(today)
	if err := b.state.Save(ctx, st); err != nil {
		return nil, fmt.Errorf("save state: %w", err)
	}
	b.log.Info("daily check posted", "date", today, "polls", res.Polls, "title", item.Title)
	return res, nil
}

func (b *Bot) runCard(ctx context.Context, st *state.State, kind content.Kind, now time.Time) (*Result, error) {
	n := b.content.Len(kind)
	if n == 0 {
		return nil, fmt.Errorf("%w for kind %s", content.ErrNoContent, kind)
	}
	idx, err := state.Pick(st.Index(kind), n)
	if err != nil {
		return nil, fmt.Errorf("pick %s: %w", kind, err)
	}

	post, err := format.Item(b.content, kind, idx)
	if err != nil {
		return nil, err
	}

	png, err := b.renderer.RenderFile(b.cardPath, post.Title, post.Subtitle)
	if err != nil {
		return nil, fmt.Errorf("render card: %w", err)
	}

	msg, err := b.sender.SendPhoto(ctx, post.Caption, b.cardPath)
	if err != nil {
		return nil, fmt.Errorf("send %s: %w", kind, err)
	}

	st.Advance(kind, idx)
	if err := b.state.Save(ctx, st); err != nil {
		return nil, fmt.Errorf("save state: %w", err)
	}

	res := &Result{Kind: kind, Time: now, Index: idx}
	if msg != nil {
		res.MessageID = msg.MessageID
	}
	b.log.Info("card posted", "kind", kind, "index", idx, "of", n, "title", post.Title)

	loc, err := b.archiver.Archive(ctx, archive.Entry{
		Kind:  kind,
		Date:  schedule.Date(now),
		RunID: b.runID,
		PNG:   png,
	})
	if err != nil {
		// Best effort: the post is out and state is saved.
		b.log.Warn("card archive failed", "error", err)
	} else if loc != "" {
		res.Archived = loc
		b.log.Info("card archived", "location", loc)
	}
	return res, nil
}
