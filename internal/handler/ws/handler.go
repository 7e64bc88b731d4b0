package ws

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	chatModel "github.com/mxw1477641857-create/HeartSpace/internal/model/chat"
	aiService "github.com/mxw1477641857-create/HeartSpace/internal/service/ai"
	chatService "github.com/mxw1477641857-create/HeartSpace/internal/service/chat"
)

// Handler WebSocket聊天处理器，为需要逐字渲染的前端提供增量片段通道。
type Handler struct {
	aiSvc    *aiService.Service
	chatSvc  *chatService.Service
	upgrader websocket.Upgrader
}

// New 创建WebSocket处理器
func New(aiSvc *aiService.Service, chatSvc *chatService.Service) *Handler {
	return &Handler{
		aiSvc:   aiSvc,
		chatSvc: chatSvc,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes 注册WebSocket路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/ws/{sessionID}", h.handleWebSocket)
}

type inboundMessage struct {
	Type      string          `json:"type"`
	SessionID string          `json:"sessionId"`
	Data      json.RawMessage `json:"data"`
	Timestamp int64           `json:"timestamp"`
}

// ChatMessage 聊天消息载荷
type ChatMessage struct {
	Text string `json:"text"`
}

type outgoingMessage struct {
	Type      string      `json:"type"`
	SessionID string      `json:"sessionId,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp int64       `json:"timestamp"`
}

// handleWebSocket 处理WebSocket连接
func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if sessionID == "" {
		http.Error(w, "sessionID is required", http.StatusBadRequest)
		return
	}

	if h.chatSvc == nil {
		http.Error(w, "chat service unavailable", http.StatusServiceUnavailable)
		return
	}

	if _, err := h.chatSvc.GetSession(r.Context(), sessionID); err != nil {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[websocket] upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	log.Printf("[websocket] new connection for session: %s", sessionID)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	go h.pingLoop(ctx, conn)

	h.send(conn, sessionID, "connected", map[string]any{
		"sessionId": sessionID,
	})

	for {
		select {
		case <-ctx.Done():
			return
		default:
			var msg inboundMessage
			if err := conn.ReadJSON(&msg); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					log.Printf("[websocket] read error: %v", err)
				}
				return
			}

			conn.SetReadDeadline(time.Now().Add(60 * time.Second))

			if msg.SessionID != "" && msg.SessionID != sessionID {
				h.sendError(conn, "session mismatch")
				continue
			}

			h.handleMessage(ctx, conn, sessionID, &msg)
		}
	}
}

// handleMessage 分发一条入站消息
func (h *Handler) handleMessage(ctx context.Context, conn *websocket.Conn, sessionID string, msg *inboundMessage) {
	switch msg.Type {
	case "chat":
		var payload ChatMessage
		if err := json.Unmarshal(msg.Data, &payload); err != nil {
			h.sendError(conn, "invalid chat payload")
			return
		}
		if payload.Text == "" {
			h.sendError(conn, "text is required")
			return
		}
		h.handleChat(ctx, conn, sessionID, payload.Text)
	case "ping":
		h.send(conn, sessionID, "pong", nil)
	default:
		h.sendError(conn, "unknown message type")
	}
}

// handleChat 执行一次完整的聊天往返：先落用户消息，流式下发片段，
// 最后落完整的助手回复。远端失败降级为固定回复。
func (h *Handler) handleChat(ctx context.Context, conn *websocket.Conn, sessionID, text string) {
	history, err := h.chatSvc.Transcript(ctx, sessionID)
	if err != nil {
		h.sendError(conn, "session not found")
		return
	}

	if _, err := h.chatSvc.AppendTurn(ctx, chatModel.Turn{
		SessionID: sessionID,
		Role:      chatModel.RoleUser,
		Text:      text,
	}); err != nil {
		h.sendError(conn, "failed to save message")
		return
	}

	reply, streamErr := h.streamReply(ctx, conn, sessionID, history, text)
	if streamErr != nil {
		if !errors.Is(streamErr, aiService.ErrNotConfigured) {
			log.Printf("[websocket] generation failed for session=%s: %v", sessionID, streamErr)
		}
		reply = h.aiSvc.Fallback()
		h.send(conn, sessionID, "message", map[string]any{"text": reply})
	}

	if _, err := h.chatSvc.AppendTurn(ctx, chatModel.Turn{
		SessionID: sessionID,
		Role:      chatModel.RoleAssistant,
		Text:      reply,
	}); err != nil {
		log.Printf("[websocket] failed to save assistant turn: %v", err)
	}

	h.send(conn, sessionID, "end", nil)
}

func (h *Handler) streamReply(ctx context.Context, conn *websocket.Conn, sessionID string, history []chatModel.Turn, text string) (string, error) {
	stream, err := h.aiSvc.StreamTurn(ctx, history, text)
	if err != nil {
		return "", err
	}
	defer stream.Close()

	var full []byte
	for {
		chunk, recvErr := stream.Recv()
		if errors.Is(recvErr, io.EOF) {
			break
		}
		if recvErr != nil {
			return "", recvErr
		}
		if chunk == nil || chunk.Content == "" {
			continue
		}

		full = append(full, chunk.Content...)
		h.send(conn, sessionID, "delta", map[string]any{"text": chunk.Content})
	}

	reply := string(full)
	h.send(conn, sessionID, "message", map[string]any{"text": reply})
	return reply, nil
}

// pingLoop 周期性发送ping保持连接
func (h *Handler) pingLoop(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second)); err != nil {
				return
			}
		}
	}
}

func (h *Handler) send(conn *websocket.Conn, sessionID, msgType string, data interface{}) {
	msg := outgoingMessage{
		Type:      msgType,
		SessionID: sessionID,
		Data:      data,
		Timestamp: time.Now().UnixMilli(),
	}
	if err := conn.WriteJSON(msg); err != nil {
		log.Printf("[websocket] write failed: %v", err)
	}
}

func (h *Handler) sendError(conn *websocket.Conn, message string) {
	msg := outgoingMessage{
		Type:      "error",
		Data:      map[string]string{"message": message},
		Timestamp: time.Now().UnixMilli(),
	}
	if err := conn.WriteJSON(msg); err != nil {
		log.Printf("[websocket] write failed: %v", err)
	}
}
