package chat

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"concierge/database/repository"
	"concierge/models"
	"concierge/services/svcerr"

	"go.uber.org/zap"
)

// DefaultChatService is the conversation engine. It exclusively owns
// transcript mutation: turns are appended in memory and the whole
// transcript is persisted only once the assistant's final reply exists, so
// a stored conversation never contains a user turn without a resolution.
type DefaultChatService struct {
	Users      repository.UserRepository
	Convs      repository.ConversationRepository
	LLM        LLMClient
	Dispatcher FunctionDispatcher
	Cache      *TranscriptCache
	Logger     *zap.Logger

	// Now is the clock used for turn timestamps; tests inject a fixed one.
	Now func() time.Time

	locks *lockStore
}

func NewDefaultChatService(
	users repository.UserRepository,
	convs repository.ConversationRepository,
	llm LLMClient,
	dispatcher FunctionDispatcher,
	cache *TranscriptCache,
	logger *zap.Logger,
) *DefaultChatService {
	return &DefaultChatService{
		Users:      users,
		Convs:      convs,
		LLM:        llm,
		Dispatcher: dispatcher,
		Cache:      cache,
		Logger:     logger,
		locks:      newLockStore(),
	}
}

func (s *DefaultChatService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// HandleTurn processes one inbound chat message. Any model or dispatch
// failure surfaces as a single chat-processing error and leaves the stored
// transcript at its last successful state; the caller may resend the
// message (at-least-once, not exactly-once).
func (s *DefaultChatService) HandleTurn(ctx context.Context, userID, text string) ([]models.Turn, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, svcerr.New(svcerr.CodeUnauthenticated, "userId is required")
	}

	lock := s.locks.get(userID)
	lock.Lock()
	defer lock.Unlock()

	user, err := s.loadOrCreateUser(userID)
	if err != nil {
		return nil, svcerr.Wrap(svcerr.CodeChatFailed, "failed to load user", err)
	}

	conv, err := s.loadOrCreateConversation(ctx, userID)
	if err != nil {
		return nil, svcerr.Wrap(svcerr.CodeChatFailed, "failed to load conversation", err)
	}
	baseLen := len(conv.Turns)

	conv.Turns = append(conv.Turns, models.Turn{
		Role:      models.RoleUser,
		Content:   text,
		CreatedAt: s.now(),
	})

	system := systemPrompt(user)
	reply, err := s.LLM.Complete(ctx, system, conv.Turns)
	if err != nil {
		s.Logger.Error("model call failed", zap.String("userId", userID), zap.Error(err))
		return nil, svcerr.Wrap(svcerr.CodeChatFailed, "failed to process chat message", err)
	}

	// One function call per turn: dispatch it, feed the structured result
	// back, and ask the model for its final natural-language reply.
	if reply.Call != nil {
		result := s.Dispatcher.Dispatch(ctx, userID, *reply.Call)
		payload, err := json.Marshal(result)
		if err != nil {
			return nil, svcerr.Wrap(svcerr.CodeChatFailed, "failed to encode function result", err)
		}
		conv.Turns = append(conv.Turns, models.Turn{
			Role:      models.RoleFunction,
			Name:      reply.Call.Name,
			Content:   string(payload),
			CreatedAt: s.now(),
		})

		reply, err = s.LLM.Complete(ctx, system, conv.Turns)
		if err != nil {
			s.Logger.Error("model follow-up call failed", zap.String("userId", userID), zap.Error(err))
			return nil, svcerr.Wrap(svcerr.CodeChatFailed, "failed to process chat message", err)
		}
	}

	if strings.TrimSpace(reply.Text) == "" {
		return nil, svcerr.New(svcerr.CodeChatFailed, "model produced no reply")
	}

	conv.Turns = append(conv.Turns, models.Turn{
		Role:      models.RoleAssistant,
		Content:   reply.Text,
		CreatedAt: s.now(),
	})

	if err := s.Convs.Save(conv); err != nil {
		s.Logger.Error("failed to persist conversation", zap.String("userId", userID), zap.Error(err))
		return nil, svcerr.Wrap(svcerr.CodeChatFailed, "failed to persist conversation", err)
	}
	s.cacheSet(ctx, conv)

	return conv.Turns[baseLen:], nil
}

// AppendAssistantNote appends an assistant turn outside the model loop,
// e.g. the payment reminder produced by the background worker. The engine
// keeps ownership of transcript mutation this way.
func (s *DefaultChatService) AppendAssistantNote(ctx context.Context, userID, text string) error {
	if strings.TrimSpace(userID) == "" {
		return svcerr.New(svcerr.CodeUnauthenticated, "userId is required")
	}

	lock := s.locks.get(userID)
	lock.Lock()
	defer lock.Unlock()

	conv, err := s.loadOrCreateConversation(ctx, userID)
	if err != nil {
		return svcerr.Wrap(svcerr.CodeInternal, "failed to load conversation", err)
	}

	conv.Turns = append(conv.Turns, models.Turn{
		Role:      models.RoleAssistant,
		Content:   text,
		CreatedAt: s.now(),
	})
	if err := s.Convs.Save(conv); err != nil {
		return svcerr.Wrap(svcerr.CodeInternal, "failed to persist conversation", err)
	}
	s.cacheSet(ctx, conv)
	return nil
}

// GetConversation returns the stored transcript for a user.
func (s *DefaultChatService) GetConversation(ctx context.Context, userID string) (*models.Conversation, error) {
	conv, err := s.Convs.GetByUserID(userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, svcerr.New(svcerr.CodeNotFound, "conversation not found")
		}
		return nil, svcerr.Wrap(svcerr.CodeInternal, "failed to load conversation", err)
	}
	return conv, nil
}

// ResetConversation drops the stored transcript and its cache snapshot.
func (s *DefaultChatService) ResetConversation(ctx context.Context, userID string) error {
	if err := s.Convs.Delete(userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return svcerr.New(svcerr.CodeNotFound, "conversation not found")
		}
		return svcerr.Wrap(svcerr.CodeInternal, "failed to delete conversation", err)
	}
	if s.Cache != nil {
		if err := s.Cache.Clear(ctx, userID); err != nil {
			s.Logger.Warn("failed to clear conversation cache", zap.Error(err))
		}
	}
	return nil
}

// loadOrCreateUser fetches the user, creating a bare record on first
// contact. The last-interaction timestamp is updated on every call.
func (s *DefaultChatService) loadOrCreateUser(userID string) (*models.User, error) {
	now := s.now()
	user, err := s.Users.GetByID(userID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		user = &models.User{ID: userID, LastInteraction: now}
		if err := s.Users.Create(user); err != nil && !errors.Is(err, repository.ErrDuplicate) {
			return nil, err
		}
		return user, nil
	}

	if err := s.Users.Touch(userID, now); err != nil {
		s.Logger.Warn("failed to touch user", zap.String("userId", userID), zap.Error(err))
	}
	user.LastInteraction = now
	return user, nil
}

func (s *DefaultChatService) loadOrCreateConversation(ctx context.Context, userID string) (*models.Conversation, error) {
	if s.Cache != nil {
		conv, err := s.Cache.Get(ctx, userID)
		if err != nil {
			s.Logger.Warn("conversation cache read failed", zap.Error(err))
		} else if conv != nil {
			return conv, nil
		}
	}

	conv, err := s.Convs.GetByUserID(userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &models.Conversation{UserID: userID}, nil
		}
		return nil, err
	}
	return conv, nil
}

func (s *DefaultChatService) cacheSet(ctx context.Context, conv *models.Conversation) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Set(ctx, conv); err != nil {
		s.Logger.Warn("failed to refresh conversation cache", zap.Error(err))
	}
}
