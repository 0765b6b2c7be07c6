package handler

import (
	"context"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// handleProgress shows the progress dashboard
func (h *Handler) handleProgress(c tele.Context) error {
	userID := c.Sender().ID

	token, ok := h.userToken(c)
	if !ok {
		return c.Respond(&tele.CallbackResponse{Text: "Bitte zuerst /start"})
	}

	progress, err := h.contentService.Progress(context.Background(), token)
	if err != nil {
		h.logger.Error("Failed to load progress", zap.Error(err))
		return c.Respond(&tele.CallbackResponse{Text: "Fortschritt lässt sich gerade nicht laden"})
	}

	text := formatProgress(progress)
	markup := &tele.ReplyMarkup{}
	markup.Inline(
		markup.Row(btnAchievements),
		markup.Row(btnMainMenu),
	)

	if err := c.Edit(text, markup); err != nil {
		if handleErr := h.handleEditError(err, c, userID); handleErr == nil {
			return nil
		}
		return c.Send(text, markup)
	}
	return c.Respond()
}

// handleAchievements shows the achievements screen
func (h *Handler) handleAchievements(c tele.Context) error {
	userID := c.Sender().ID

	token, ok := h.userToken(c)
	if !ok {
		return c.Respond(&tele.CallbackResponse{Text: "Bitte zuerst /start"})
	}

	achievements, err := h.contentService.Achievements(context.Background(), token)
	if err != nil {
		h.logger.Error("Failed to load achievements", zap.Error(err))
		return c.Respond(&tele.CallbackResponse{Text: "Erfolge lassen sich gerade nicht laden"})
	}

	text := formatAchievements(achievements)
	markup := &tele.ReplyMarkup{}
	markup.Inline(
		markup.Row(btnProgress),
		markup.Row(btnMainMenu),
	)

	if err := c.Edit(text, markup); err != nil {
		if handleErr := h.handleEditError(err, c, userID); handleErr == nil {
			return nil
		}
		return c.Send(text, markup)
	}
	return c.Respond()
}
