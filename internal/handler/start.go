package handler

import (
	"franca/internal/domain"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// handleStart handles /start command
func (h *Handler) handleStart(c tele.Context) error {
	userID := c.Sender().ID

	h.logger.Info("User started bot",
		zap.Int64("user_id", userID),
		zap.String("username", c.Sender().Username),
	)

	// Ensure user exists in database
	if err := h.authService.EnsureUserExists(userID); err != nil {
		h.logger.Error("Failed to ensure user exists", zap.Error(err))
		return c.Send(msgSomethingWrong)
	}

	settings, err := h.authService.Settings(userID)
	if err != nil {
		h.logger.Error("Failed to load user settings", zap.Error(err))
		return c.Send(msgSomethingWrong)
	}

	if settings == nil || !settings.Authorized {
		// Request bot password
		h.ResetState(userID)
		return c.Send("Salut! 🥖 Dieser Bot ist privat. Kennst du das Passwort, dann schick es mir:")
	}

	if !settings.Linked() {
		h.SetState(userID, &domain.StateData{State: domain.StateWaitingCredentials})
		return c.Send("Fast geschafft! Schick mir deine Zugangsdaten als eine Nachricht:\n\nE-Mail Passwort")
	}

	// Show main menu
	h.ResetState(userID)
	return c.Send(
		"🏠 Hauptmenü\n\nWas möchtest du tun?",
		mainMenuMarkup(),
	)
}

// handleMainMenu returns to the main menu, dropping the practice session
// and any running narration (navigating away ends both).
func (h *Handler) handleMainMenu(c tele.Context) error {
	userID := c.Sender().ID

	h.practiceService.Drop(userID)
	h.player.Stop(c.Chat().ID)
	h.ResetState(userID)

	if err := c.Edit("🏠 Hauptmenü\n\nWas möchtest du tun?", mainMenuMarkup()); err != nil {
		if handleErr := h.handleEditError(err, c, userID); handleErr == nil {
			return nil
		}
		return c.Send("🏠 Hauptmenü\n\nWas möchtest du tun?", mainMenuMarkup())
	}
	return c.Respond()
}
