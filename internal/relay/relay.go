package relay

import (
	"context"
	"log"
	"strings"
	"time"

	"chatstream-backend/internal/models"

	"github.com/google/uuid"
)

// Outcome reports how one streamed generation ended.
type Outcome int

const (
	OutcomeCompleted Outcome = iota
	OutcomeDisconnected
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCompleted:
		return "completed"
	case OutcomeDisconnected:
		return "disconnected"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Request carries one validated generation: the prompt, the conversation it
// belongs to (already resolved and owned by the caller), and metadata stored
// alongside the assistant message.
type Request struct {
	ConversationUUID uuid.UUID
	Prompt           string
	SystemMessage    string
	Meta             map[string]interface{}
}

// Generator is the upstream generation sequence. Fragments arrive in order
// through the callback; a nil callback return keeps the sequence going.
type Generator interface {
	Stream(ctx context.Context, systemMessage string, prompt string, onFragment func(fragment string) error) error
}

// Sink is the downstream streaming connection. A send error means the peer
// closed the connection; after the first failure the sink is never written
// to again.
type Sink interface {
	SendFragment(text string) error
	SendError(msg string) error
	SendDone() error
}

// MessageStore records the final assistant message.
type MessageStore interface {
	AppendMessage(convUUID uuid.UUID, role models.Role, content string, meta map[string]interface{}) (uuid.UUID, error)
}

// Relay drives one generation to completion and produces exactly one
// persisted assistant message per accepted request, however the stream ends.
type Relay struct {
	messages MessageStore
	timeout  time.Duration
}

func New(messages MessageStore, timeout time.Duration) *Relay {
	return &Relay{messages: messages, timeout: timeout}
}

// Run forwards fragments to the sink as they arrive and accumulates the full
// text. A client disconnect stops forwarding but not draining: the generation
// context is detached from the request, so the upstream sequence runs to
// completion (bounded by the overall timeout) and the full text is still
// stored. The assistant append happens exactly once, unless the accumulated
// text is empty.
func (r *Relay) Run(req Request, gen Generator, sink Sink) Outcome {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	var full strings.Builder
	attached := true

	genErr := gen.Stream(ctx, req.SystemMessage, req.Prompt, func(fragment string) error {
		full.WriteString(fragment)
		if attached {
			if err := sink.SendFragment(fragment); err != nil {
				attached = false
				log.Println("client disconnected, draining generation for storage")
			}
		}
		return nil
	})

	outcome := OutcomeCompleted
	if genErr != nil {
		log.Printf("generation failed: %v", genErr)
		outcome = OutcomeFailed
		if attached {
			if err := sink.SendError("generation failed"); err != nil {
				attached = false
			}
		}
	} else if !attached {
		outcome = OutcomeDisconnected
	}

	// Empty responses are suppressed rather than stored as empty rows.
	if full.Len() > 0 {
		if _, err := r.messages.AppendMessage(req.ConversationUUID, models.RoleAssistant, full.String(), req.Meta); err != nil {
			log.Printf("failed to store assistant message: %v", err)
			if attached {
				if sendErr := sink.SendError("failed to store response"); sendErr != nil {
					attached = false
				}
			}
		}
	}

	if attached {
		if err := sink.SendDone(); err != nil {
			log.Printf("failed to send stream sentinel: %v", err)
		}
	}
	return outcome
}
