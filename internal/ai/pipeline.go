package ai

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/qmuntal/stateless"
	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/rozenaakter/ai-chat-app/internal/chat"
	"github.com/rozenaakter/ai-chat-app/internal/config"
	"github.com/rozenaakter/ai-chat-app/internal/metrics"
	"github.com/rozenaakter/ai-chat-app/internal/models"
)

const systemPrompt = `You are a helpful AI assistant in a global chat room. You have access to the recent chat context. Respond naturally and helpfully. Keep responses concise but informative. You cannot generate actual images, but you can describe them vividly when asked. Be friendly and engaging!`

// fallbackReplies are substituted for the completion when the provider fails;
// the user never sees a raw error.
var fallbackReplies = []string{
	"I'm currently experiencing some technical difficulties, but I'm here to chat! How can I help you?",
	"Sorry, I'm having trouble connecting to my AI services right now. Feel free to continue chatting with others!",
	"My AI circuits are a bit fuzzy at the moment. Is there anything else I can assist you with?",
	"I seem to be having some connectivity issues. The chat is still working though!",
}

// Gateway is the slice of the broadcast hub the pipeline needs.
type Gateway interface {
	Announce(evt chat.Event)
	PostReply(msg models.Message)
}

// History provides the recent-message window for context assembly.
type History interface {
	Recent(n int) []models.Message
}

// Reply state machine: Thinking -> Responded on success, Thinking -> Fallback
// on provider failure. Either way the thinking indicator is cleared.
type pipelineState string

const (
	stateThinking  pipelineState = "Thinking"
	stateResponded pipelineState = "Responded"
	stateFallback  pipelineState = "Fallback"
)

type pipelineTrigger string

const (
	triggerCompleted pipelineTrigger = "CompletionSucceeded"
	triggerErrored   pipelineTrigger = "CompletionFailed"
)

// Pipeline produces AI replies for messages that mention the trigger token.
// Triggers are serialized through a single worker so only one completion call
// is in flight at a time: each trigger yields exactly one thinking /
// stop-thinking bracket and exactly one reply, and overlapping mentions can
// never clear each other's indicator early.
type Pipeline struct {
	log       zerolog.Logger
	completer Completer
	gateway   Gateway
	history   History

	models   []string
	trigger  string
	identity string
	window   int

	queue chan models.Message
}

func NewPipeline(log zerolog.Logger, completer Completer, gateway Gateway, history History, cfg config.AIConfig) *Pipeline {
	return &Pipeline{
		log:       log,
		completer: completer,
		gateway:   gateway,
		history:   history,
		models:    cfg.Models,
		trigger:   strings.ToLower(cfg.Trigger),
		identity:  cfg.Identity,
		window:    cfg.ContextWindow,
		queue:     make(chan models.Message, 16),
	}
}

// Notify enqueues a reply when the message mentions the AI. Non-blocking: if
// the queue is saturated the trigger is dropped with a warning rather than
// stalling the hub.
func (p *Pipeline) Notify(msg models.Message) {
	if msg.IsAI || !p.Mentions(msg.Content) {
		return
	}
	select {
	case p.queue <- msg:
	default:
		metrics.AITriggersDropped.Inc()
		p.log.Warn().Str("id", msg.ID).Msg("assist queue full, dropping trigger")
	}
}

// Mentions reports whether content contains the trigger token,
// case-insensitively.
func (p *Pipeline) Mentions(content string) bool {
	return strings.Contains(strings.ToLower(content), p.trigger)
}

// Run processes queued triggers until the context is cancelled.
func (p *Pipeline) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-p.queue:
			p.respond(ctx, msg)
		}
	}
}

func (p *Pipeline) respond(ctx context.Context, trigger models.Message) {
	p.gateway.Announce(chat.Event{Name: chat.EventAIThinking})
	defer p.gateway.Announce(chat.Event{Name: chat.EventAIStopThinking})

	// Uniform random choice from the pool on every trigger; there is no
	// round-robin guarantee.
	model := p.models[rand.Intn(len(p.models))]
	p.log.Info().Str("model", model).Str("trigger", trigger.ID).Msg("ai assist engaged")
	p.gateway.Announce(chat.Event{Name: chat.EventAIModelInfo, Data: chat.ModelInfoPayload{Model: model}})

	var reply string
	sm := stateless.NewStateMachine(stateThinking)
	sm.Configure(stateThinking).
		Permit(triggerCompleted, stateResponded).
		Permit(triggerErrored, stateFallback)
	sm.Configure(stateResponded).
		OnEntryFrom(triggerCompleted, func(_ context.Context, args ...any) error {
			reply = args[0].(string)
			return nil
		})
	sm.Configure(stateFallback).
		OnEntry(func(_ context.Context, _ ...any) error {
			reply = fallbackReplies[rand.Intn(len(fallbackReplies))]
			return nil
		})

	start := time.Now()
	text, err := p.completer.Complete(ctx, model, systemPrompt, p.renderPrompt(trigger))
	metrics.AICompletionDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		p.log.Warn().Err(err).Str("model", model).Msg("completion failed, using fallback")
		metrics.AICompletions.WithLabelValues("fallback").Inc()
		_ = sm.FireCtx(ctx, triggerErrored)
	} else {
		metrics.AICompletions.WithLabelValues("success").Inc()
		_ = sm.FireCtx(ctx, triggerCompleted, text)
	}

	p.gateway.PostReply(models.Message{Content: reply, Username: p.identity, IsAI: true})
}

// renderPrompt assembles the user turn: the recent history window rendered as
// "author: content" lines in chronological order, then the triggering message.
func (p *Pipeline) renderPrompt(trigger models.Message) string {
	lines := lo.Map(p.history.Recent(p.window), func(m models.Message, _ int) string {
		return m.Username + ": " + m.Content
	})
	return fmt.Sprintf("Recent chat context:\n%s\n\nCurrent message from %s: %s",
		strings.Join(lines, "\n"), trigger.Username, trigger.Content)
}
