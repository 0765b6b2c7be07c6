package handler

import (
	"strconv"
	"strings"
	"unicode"

	"franca/internal/domain"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// cleanCallbackData removes all non-printable characters from callback data
func cleanCallbackData(data string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) {
			return r
		}
		return -1
	}, strings.TrimSpace(data))
}

// handleEditError handles errors from c.Edit() - if message is not modified,
// just acknowledge callback. Otherwise, acknowledge and return the error so
// the caller can send a new message.
func (h *Handler) handleEditError(err error, c tele.Context, userID int64) error {
	if err == nil {
		return nil
	}

	errStr := err.Error()
	// If message is not modified, it was already edited by another callback
	if strings.Contains(errStr, "message is not modified") {
		h.logger.Debug("Message already modified by another callback, acknowledging",
			zap.Int64("user_id", userID),
			zap.String("callback_id", c.Callback().ID),
		)
		c.Respond()
		return nil
	}

	h.logger.Warn("Failed to edit message, sending new",
		zap.Error(err),
		zap.Int64("user_id", userID),
		zap.String("callback_id", c.Callback().ID),
	)
	// Always acknowledge callback before sending new message
	if ackErr := c.Respond(); ackErr != nil {
		h.logger.Warn("Failed to acknowledge callback", zap.Error(ackErr))
	}
	return err
}

// handleCallback handles ALL callback queries
func (h *Handler) handleCallback(c tele.Context) error {
	callback := c.Callback()
	if callback == nil {
		h.logger.Warn("handleCallback: callback is nil")
		return nil
	}

	// Clean data from all non-printable characters
	data := cleanCallbackData(callback.Data)
	h.logger.Debug("handleCallback: Processing callback",
		zap.String("data", data),
		zap.String("unique", callback.Unique),
		zap.Int64("user_id", c.Sender().ID),
	)

	// Handle specific button callbacks by Unique first
	switch callback.Unique {
	case "practice", "practice_again":
		return h.handlePractice(c)
	case "stories", "back_to_stories":
		return h.handleStories(c)
	case "progress":
		return h.handleProgress(c)
	case "achievements":
		return h.handleAchievements(c)
	case "reveal":
		return h.handleReveal(c)
	case "switch_direction":
		return h.handleSwitchDirection(c)
	case "stop_audio":
		return h.handleStopAudio(c)
	case "main_menu":
		return h.handleMainMenu(c)
	}

	// Handle by Data prefix (dynamic buttons)
	switch {
	case strings.HasPrefix(data, "rate_"):
		return h.handleRateData(c, data)
	case strings.HasPrefix(data, "page_"):
		return h.handleStoriesPage(c, data)
	case strings.HasPrefix(data, "story_"):
		return h.handleStorySelection(c, data)
	case strings.HasPrefix(data, "chapter_"):
		return h.handleChapter(c, data)
	case strings.HasPrefix(data, "listen_"):
		return h.handleListen(c, data)
	}

	// If it's not handled, acknowledge it anyway
	h.logger.Warn("Unhandled callback in handleCallback",
		zap.String("data", data),
		zap.String("unique", callback.Unique),
	)
	return c.Respond()
}

// handleRateData parses a rate_N button press
func (h *Handler) handleRateData(c tele.Context, data string) error {
	n, err := strconv.Atoi(strings.TrimPrefix(data, "rate_"))
	if err != nil || !domain.Rating(n).Valid() {
		return c.Respond(&tele.CallbackResponse{Text: "Ungültige Bewertung"})
	}
	return h.handleRate(c, domain.Rating(n))
}
