package router

import (
	"context"
	"sync"
	"time"

	"github.com/loadsmile/AIchatbot/internal/archive"
	"github.com/loadsmile/AIchatbot/internal/audit"
	"github.com/loadsmile/AIchatbot/internal/domain"
	"github.com/loadsmile/AIchatbot/internal/history"
	"github.com/loadsmile/AIchatbot/internal/registry"
	"github.com/loadsmile/AIchatbot/internal/suggest"
	"github.com/loadsmile/AIchatbot/internal/translate"
	"github.com/loadsmile/AIchatbot/pkg/log"
)

type Config struct {
	QueueSize        int
	TranslateTimeout time.Duration
	SuggestTimeout   time.Duration
}

// Router consumes join, send, and disconnect events, updates the
// registry and history, and fans each message out as one
// recipient-specific record per participant. Translation and
// suggestion calls run outside every lock; their failures degrade
// delivery (untranslated text, no suggestions) but never fail it.
type Router struct {
	registry   *registry.Registry
	history    *history.Log
	translator translate.Translator
	suggester  suggest.Suggester
	archiver   archive.RecordArchiver
	sender     Sender
	cfg        Config

	mu     sync.Mutex
	queues map[string]*deliveryQueue // connID -> ordered delivery queue
}

func New(
	reg *registry.Registry,
	hist *history.Log,
	translator translate.Translator,
	suggester suggest.Suggester,
	archiver archive.RecordArchiver,
	sender Sender,
	cfg Config,
) *Router {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 64
	}
	if cfg.TranslateTimeout <= 0 {
		cfg.TranslateTimeout = 5 * time.Second
	}
	if cfg.SuggestTimeout <= 0 {
		cfg.SuggestTimeout = 3 * time.Second
	}
	return &Router{
		registry:   reg,
		history:    hist,
		translator: translator,
		suggester:  suggester,
		archiver:   archiver,
		sender:     sender,
		cfg:        cfg,
		queues:     make(map[string]*deliveryQueue),
	}
}

// Join registers the participant, replays any existing history to the
// joining connection only, then delivers the join system message to
// the whole room including the joiner. A connection already in another
// room leaves it first, with the same teardown a disconnect runs.
func (r *Router) Join(ctx context.Context, connID string, p *domain.JoinPayload) error {
	if err := p.Validate(); err != nil {
		return err
	}

	// The queue must exist before the registry publishes membership,
	// or a concurrent send could resolve the joiner as a recipient and
	// drop its delivery.
	r.mu.Lock()
	if _, ok := r.queues[connID]; !ok {
		r.queues[connID] = newDeliveryQueue(r.cfg.QueueSize)
	}
	r.mu.Unlock()

	participant := domain.Participant{
		ConnID:   connID,
		Username: p.Username,
		Language: p.Language,
		Role:     p.Role,
	}
	prevRoom, prevEmptied, displaced := r.registry.Join(p.Room, participant)
	if displaced {
		r.vacate(ctx, connID, p.Username, prevRoom, prevEmptied)
	}
	r.sender.JoinRoom(connID, p.Room)

	if records, ok := r.history.Replay(p.Room, p.Role); ok {
		if err := r.sender.Send(connID, domain.EventMessageHistory, records); err != nil {
			l := log.Ctx(ctx)
			l.Debug().Err(err).Str(log.FieldConnID, connID).Msg("history replay delivery failed")
		}
	}

	rec := domain.NewSystemRecord(p.Username+" has joined the chat", time.Now().UTC())
	r.history.Append(p.Room, rec)
	r.archive(ctx, p.Room, rec)
	for _, member := range r.registry.ParticipantsOf(p.Room) {
		r.enqueue(member.ConnID, r.notifyTask(p.Room, member, rec))
	}

	audit.Log(ctx, audit.ActionJoin, connID, p.Username+" joined room "+p.Room)
	return nil
}

// PublicSend fans a public message out to every participant in the
// room, including the sender, each with its own translation. A sender
// with the user role additionally triggers reply suggestions for
// agents; that path never blocks the send.
func (r *Router) PublicSend(ctx context.Context, connID string, p *domain.ChatMessagePayload) error {
	if err := p.Validate(); err != nil {
		return err
	}

	sender, roomID, ok := r.registry.Lookup(connID)
	if !ok || roomID != p.Room {
		l := log.Ctx(ctx)
		l.Debug().Str(log.FieldConnID, connID).Str(log.FieldRoomID, p.Room).Msg("public send for unknown room or connection")
		return nil
	}

	senderLang := p.Language
	if senderLang == "" {
		senderLang = detectLanguage(p.Message, sender.Language)
	}

	recipients := r.registry.ParticipantsOf(roomID)
	ts := time.Now().UTC()

	if sender.Role == domain.RoleUser && r.suggester != nil {
		go r.pushSuggestions(roomID, p.Message, recipients)
	}

	for _, recipient := range recipients {
		r.enqueue(recipient.ConnID, r.deliverTask(roomID, sender, recipient, p.Message, senderLang, domain.MessageTypePublic, "", ts))
	}

	audit.Log(ctx, audit.ActionPublicSend, connID, sender.Username+" sent to room "+roomID)
	return nil
}

// PrivateSend routes a message to every participant holding the target
// role, plus the sender's own connection so the sender sees the echo.
func (r *Router) PrivateSend(ctx context.Context, connID string, p *domain.PrivateMessagePayload) error {
	if err := p.Validate(); err != nil {
		return err
	}

	sender, roomID, ok := r.registry.Lookup(connID)
	if !ok || roomID != p.Room {
		l := log.Ctx(ctx)
		l.Debug().Str(log.FieldConnID, connID).Str(log.FieldRoomID, p.Room).Msg("private send for unknown room or connection")
		return nil
	}

	ts := time.Now().UTC()
	for _, recipient := range r.registry.ParticipantsOf(roomID) {
		if recipient.Role != p.TargetRole && recipient.ConnID != connID {
			continue
		}
		r.enqueue(recipient.ConnID, r.deliverTask(roomID, sender, recipient, p.Message, sender.Language, domain.MessageTypePrivate, p.TargetRole, ts))
	}

	audit.Log(ctx, audit.ActionPrivateSend, connID, sender.Username+" sent private to "+string(p.TargetRole))
	return nil
}

// Disconnect removes the connection from its room and runs the
// room teardown.
func (r *Router) Disconnect(ctx context.Context, connID string) {
	r.mu.Lock()
	if q, ok := r.queues[connID]; ok {
		delete(r.queues, connID)
		q.close()
	}
	r.mu.Unlock()

	roomID, p, empty, ok := r.registry.Leave(connID)
	if !ok {
		return
	}
	r.vacate(ctx, connID, p.Username, roomID, empty)
	audit.Log(ctx, audit.ActionDisconnect, connID, p.Username+" left room "+roomID)
}

// vacate finishes a departure the registry has already recorded:
// transport membership is dropped, an emptied room loses its history,
// and an occupied room's remaining staff get the leave notice. Shared
// by disconnects and by joins that displace a previous membership.
func (r *Router) vacate(ctx context.Context, connID, username, roomID string, empty bool) {
	r.sender.LeaveRoom(connID, roomID)

	if empty {
		r.history.Clear(roomID)
		audit.Log(ctx, audit.ActionDisconnect, connID, "room "+roomID+" deleted")
		return
	}

	rec := domain.NewSystemRecord(username+" has left the chat", time.Now().UTC())
	r.history.Append(roomID, rec)
	r.archive(ctx, roomID, rec)

	for _, remaining := range r.registry.ParticipantsOf(roomID) {
		if !remaining.Role.Staff() {
			continue
		}
		r.enqueue(remaining.ConnID, r.notifyTask(roomID, remaining, rec))
	}
}

// Close drains and stops every delivery queue.
func (r *Router) Close() {
	r.mu.Lock()
	queues := make([]*deliveryQueue, 0, len(r.queues))
	for connID, q := range r.queues {
		delete(r.queues, connID)
		queues = append(queues, q)
	}
	r.mu.Unlock()

	for _, q := range queues {
		q.close()
		q.wait()
	}
}

// deliverTask builds the per-recipient pipeline step: translate when
// languages differ, fall back to the original text on failure, append
// the recipient's record to history, deliver.
func (r *Router) deliverTask(roomID string, from, to domain.Participant, text, senderLang, msgType string, targetRole domain.Role, ts time.Time) func() {
	return func() {
		rec := domain.MessageRecord{
			Username:     from.Username,
			Text:         text,
			OriginalText: text,
			Timestamp:    ts,
			Type:         msgType,
			SenderRole:   from.Role,
			TargetRole:   targetRole,
		}

		if to.Language != senderLang {
			tctx, cancel := context.WithTimeout(context.Background(), r.cfg.TranslateTimeout)
			translated, err := r.translator.Translate(tctx, text, to.Language)
			cancel()
			if err != nil {
				rec.Error = "Translation failed: " + err.Error()
				l := log.L()
				l.Warn().Err(err).
					Str(log.FieldRoomID, roomID).
					Str(log.FieldLanguage, to.Language).
					Msg("translation failed, delivering original text")
			} else {
				rec.Text = translated
				rec.IsTranslated = translated != text
			}
		}

		// The recipient may have left during the translation call;
		// their room and history may already be gone.
		if !r.registry.InRoom(to.ConnID, roomID) {
			return
		}

		r.history.Append(roomID, rec)
		r.archive(context.Background(), roomID, rec)

		if err := r.sender.Send(to.ConnID, domain.EventMessage, rec); err != nil {
			l := log.L()
			l.Debug().Err(err).Str(log.FieldConnID, to.ConnID).Msg("message delivery failed")
		}
	}
}

// notifyTask delivers a system notice through the recipient's queue,
// so a notice accepted after a public send cannot overtake it while
// that send's translation is still in flight.
func (r *Router) notifyTask(roomID string, to domain.Participant, rec domain.MessageRecord) func() {
	return func() {
		if !r.registry.InRoom(to.ConnID, roomID) {
			return
		}
		if err := r.sender.Send(to.ConnID, domain.EventMessage, rec); err != nil {
			l := log.L()
			l.Debug().Err(err).Str(log.FieldConnID, to.ConnID).Msg("system notice delivery failed")
		}
	}
}

func (r *Router) enqueue(connID string, task func()) {
	r.mu.Lock()
	q, ok := r.queues[connID]
	r.mu.Unlock()

	if !ok {
		return
	}
	if !q.enqueue(task) {
		l := log.L()
		l.Warn().Str(log.FieldConnID, connID).Msg("delivery queue full, dropping message")
	}
}

func (r *Router) pushSuggestions(roomID, text string, recipients []domain.Participant) {
	ctx, cancel := context.WithTimeout(context.Background(), r.cfg.SuggestTimeout)
	defer cancel()

	suggestions, err := r.suggester.Suggest(ctx, text)
	if err != nil {
		l := log.L()
		l.Warn().Err(err).Str(log.FieldRoomID, roomID).Msg("suggestion call failed")
		return
	}
	if len(suggestions) == 0 {
		return
	}

	for _, p := range recipients {
		if p.Role != domain.RoleAgent {
			continue
		}
		if err := r.sender.Send(p.ConnID, domain.EventSuggestions, suggestions); err != nil {
			l := log.L()
			l.Debug().Err(err).Str(log.FieldConnID, p.ConnID).Msg("suggestion delivery failed")
		}
	}
}

func (r *Router) archive(ctx context.Context, roomID string, rec domain.MessageRecord) {
	if r.archiver == nil {
		return
	}
	if err := r.archiver.Archive(ctx, roomID, rec); err != nil {
		l := log.Ctx(ctx)
		l.Warn().Err(err).Str(log.FieldRoomID, roomID).Msg("record archive failed")
	}
}
