package ai

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/mxw1477641857-create/HeartSpace/internal/config"
	"github.com/mxw1477641857-create/HeartSpace/internal/model/chat"
)

// historyLimit bounds the turns forwarded to the model per request.
const historyLimit = 10

// ErrNotConfigured indicates the Ark credential or model name is missing.
var ErrNotConfigured = errors.New("ai credentials not configured")

// Service mediates one logical chat session with the hosted model. Every
// remote failure is absorbed here: callers get an in-character fallback
// string instead of an error.
type Service struct {
	cfg config.AIConfig

	mu        sync.Mutex
	chatModel model.ChatModel
	chain     compose.Runnable[map[string]any, *schema.Message]
}

// NewService creates an uninitialized service. Construction never fails;
// the session comes up lazily on the first send.
func NewService(cfg config.AIConfig) *Service {
	return &Service{cfg: cfg}
}

// Initialize compiles the chat chain. Idempotent: a ready service is a no-op.
// Fails softly when credentials are absent so that callers can keep running
// in degraded mode.
func (s *Service) Initialize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initializeLocked(ctx)
}

func (s *Service) initializeLocked(ctx context.Context) error {
	if s.chain != nil {
		return nil
	}

	if !s.cfg.Enabled() {
		return ErrNotConfigured
	}

	chatModel, err := s.cfg.NewChatModel(ctx)
	if err != nil {
		return fmt.Errorf("failed to create chat model: %w", err)
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.MessagesPlaceholder("history", true),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return fmt.Errorf("failed to compile chat chain: %w", err)
	}

	s.chatModel = chatModel
	s.chain = runnable
	return nil
}

// Ready reports whether the session has been initialized.
func (s *Service) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.chain != nil
}

// StreamingEnabled 指示是否开启 SSE 流式输出。
func (s *Service) StreamingEnabled() bool {
	return s.cfg.StreamResponse
}

// ChatModel 返回底层的聊天模型，未初始化时为 nil。
func (s *Service) ChatModel() model.ChatModel {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.chatModel
}

// Fallback returns the user-facing string substituted for a failed exchange.
func (s *Service) Fallback() string {
	if !s.Ready() {
		return FallbackOffline
	}
	return FallbackError
}

// SendTurn sends one user message and folds the streamed fragments into the
// full reply. It never returns an error: an uninitialized session is brought
// up first, and any failure degrades to a fixed fallback string.
func (s *Service) SendTurn(ctx context.Context, history []chat.Turn, userText string) string {
	stream, err := s.StreamTurn(ctx, history, userText)
	if err != nil {
		if !errors.Is(err, ErrNotConfigured) {
			log.Printf("[ai] send failed: %v", err)
		}
		return s.Fallback()
	}
	defer stream.Close()

	full, err := foldStream(stream)
	if err != nil {
		log.Printf("[ai] stream interrupted: %v", err)
		return FallbackError
	}
	return full
}

// StreamTurn exposes the raw fragment stream for handlers that render
// incrementally (SSE, websocket). The caller owns closing the reader.
func (s *Service) StreamTurn(ctx context.Context, history []chat.Turn, userText string) (*schema.StreamReader[*schema.Message], error) {
	s.mu.Lock()
	if err := s.initializeLocked(ctx); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	chain := s.chain
	s.mu.Unlock()

	stream, err := chain.Stream(ctx, s.buildChainInput(history, userText))
	if err != nil {
		return nil, fmt.Errorf("failed to stream chat chain output: %w", err)
	}
	return stream, nil
}

// buildChainInput assembles the prompt variables for one exchange.
func (s *Service) buildChainInput(history []chat.Turn, userText string) map[string]any {
	return map[string]any{
		"system":  systemInstruction,
		"history": buildHistoryMessages(history),
		"query":   userText,
	}
}

func buildHistoryMessages(turns []chat.Turn) []*schema.Message {
	if len(turns) == 0 {
		return nil
	}

	startIdx := 0
	if len(turns) > historyLimit {
		startIdx = len(turns) - historyLimit
	}

	history := make([]*schema.Message, 0, len(turns)-startIdx)
	for _, turn := range turns[startIdx:] {
		switch turn.Role {
		case chat.RoleUser:
			history = append(history, schema.UserMessage(turn.Text))
		case chat.RoleAssistant:
			history = append(history, schema.AssistantMessage(turn.Text, nil))
		}
	}

	return history
}

// foldStream concatenates fragments in delivery order into the full reply.
func foldStream(stream *schema.StreamReader[*schema.Message]) (string, error) {
	chunks := make([]*schema.Message, 0, 8)
	for {
		chunk, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", err
		}
		if chunk == nil {
			continue
		}
		chunks = append(chunks, chunk)
	}

	msg, err := schema.ConcatMessages(chunks)
	if err != nil {
		return "", err
	}
	return msg.Content, nil
}
