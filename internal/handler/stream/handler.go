package stream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/cloudwego/eino/schema"

	chatModel "github.com/mxw1477641857-create/HeartSpace/internal/model/chat"
	aiService "github.com/mxw1477641857-create/HeartSpace/internal/service/ai"
	chatService "github.com/mxw1477641857-create/HeartSpace/internal/service/chat"
	"github.com/mxw1477641857-create/HeartSpace/pkg/utils"
)

// Handler manages streaming companion replies via Server-Sent Events
type Handler struct {
	aiSvc   *aiService.Service
	chatSvc *chatService.Service
}

// New creates a new stream handler
func New(aiSvc *aiService.Service, chatSvc *chatService.Service) *Handler {
	return &Handler{aiSvc: aiSvc, chatSvc: chatSvc}
}

// StreamResponse represents a streaming response chunk
type StreamResponse struct {
	Event     string `json:"event"`
	Content   string `json:"content,omitempty"`
	SessionID string `json:"sessionId,omitempty"`
	Finished  bool   `json:"finished,omitempty"`
}

// HandleStreamRequest processes one chat round-trip. The user turn is
// committed before the remote call, the assistant turn only after the full
// reply is assembled. Remote failures degrade to the in-character fallback
// reply instead of an error event.
func (h *Handler) HandleStreamRequest(ctx context.Context, w http.ResponseWriter, sessionID string, userMessage string) error {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return fmt.Errorf("streaming unsupported")
	}

	utils.SetupSSEHeaders(w)

	session, err := h.chatSvc.GetSession(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("session not found: %w", err)
	}

	// History is the transcript before this round-trip.
	history, err := h.chatSvc.Transcript(ctx, session.ID)
	if err != nil {
		return fmt.Errorf("failed to load transcript: %w", err)
	}

	// Save user turn. When the client already persisted it via REST, avoid
	// duplicating it.
	if hasMatchingUserTurn(history, sessionID, userMessage) {
		history = history[:len(history)-1]
	} else {
		userTurn := chatModel.Turn{
			SessionID: sessionID,
			Role:      chatModel.RoleUser,
			Text:      userMessage,
		}
		if _, err := h.chatSvc.AppendTurn(ctx, userTurn); err != nil {
			return fmt.Errorf("failed to save user turn: %w", err)
		}
	}

	h.sendSSE(w, flusher, StreamResponse{
		Event:     "start",
		SessionID: sessionID,
	})

	reply := h.dispatchReply(ctx, w, flusher, sessionID, history, userMessage)

	if _, err := h.chatSvc.AppendTurn(ctx, chatModel.Turn{
		SessionID: sessionID,
		Role:      chatModel.RoleAssistant,
		Text:      reply,
	}); err != nil {
		log.Printf("failed to save assistant turn: %v", err)
	}

	h.sendSSE(w, flusher, StreamResponse{
		Event:     "end",
		SessionID: sessionID,
		Finished:  true,
	})

	log.Printf("[stream] completed round-trip for session=%s, length=%d", sessionID, len(reply))
	return nil
}

// dispatchReply streams the reply when enabled, otherwise sends it as a
// single message event. Always returns a usable reply string.
func (h *Handler) dispatchReply(ctx context.Context, w http.ResponseWriter, flusher http.Flusher, sessionID string, history []chatModel.Turn, userMessage string) string {
	if !h.aiSvc.StreamingEnabled() {
		reply := h.aiSvc.SendTurn(ctx, history, userMessage)
		h.sendSSE(w, flusher, StreamResponse{
			Event:     "message",
			SessionID: sessionID,
			Content:   reply,
		})
		return reply
	}

	reply, err := h.streamReply(ctx, w, flusher, sessionID, history, userMessage)
	if err != nil {
		fallback := h.aiSvc.Fallback()
		if !errors.Is(err, aiService.ErrNotConfigured) {
			log.Printf("[stream] generation failed for session=%s: %v", sessionID, err)
		}
		h.sendSSE(w, flusher, StreamResponse{
			Event:     "message",
			SessionID: sessionID,
			Content:   fallback,
		})
		return fallback
	}
	return reply
}

func (h *Handler) streamReply(ctx context.Context, w http.ResponseWriter, flusher http.Flusher, sessionID string, history []chatModel.Turn, userMessage string) (string, error) {
	stream, err := h.aiSvc.StreamTurn(ctx, history, userMessage)
	if err != nil {
		return "", err
	}
	defer stream.Close()

	chunks := make([]*schema.Message, 0, 8)

	for {
		chunk, recvErr := stream.Recv()
		if errors.Is(recvErr, io.EOF) {
			break
		}
		if recvErr != nil {
			return "", recvErr
		}
		if chunk == nil {
			continue
		}

		chunks = append(chunks, chunk)
		if chunk.Content != "" {
			h.sendSSE(w, flusher, StreamResponse{
				Event:     "delta",
				SessionID: sessionID,
				Content:   chunk.Content,
			})
		}
	}

	response, err := schema.ConcatMessages(chunks)
	if err != nil {
		return "", err
	}

	h.sendSSE(w, flusher, StreamResponse{
		Event:     "message",
		SessionID: sessionID,
		Content:   response.Content,
	})

	return response.Content, nil
}

func hasMatchingUserTurn(turns []chatModel.Turn, sessionID, text string) bool {
	if len(turns) == 0 {
		return false
	}

	last := turns[len(turns)-1]
	if last.SessionID != sessionID {
		return false
	}

	if last.Role != chatModel.RoleUser {
		return false
	}

	return last.Text == text
}

// sendSSE sends a Server-Sent Event
func (h *Handler) sendSSE(w http.ResponseWriter, flusher http.Flusher, response StreamResponse) {
	utils.SendSSEChunk(w, flusher, response)
}
