package handler

import (
	"context"
	"errors"
	"strings"

	"franca/internal/apiclient"
	"franca/internal/domain"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// handleText handles all text messages based on state
func (h *Handler) handleText(c tele.Context) error {
	userID := c.Sender().ID
	text := strings.TrimSpace(c.Text())

	// Ignore commands (starting with /)
	if strings.HasPrefix(text, "/") {
		return nil
	}

	// Ensure user exists
	if err := h.authService.EnsureUserExists(userID); err != nil {
		h.logger.Error("Failed to ensure user exists", zap.Error(err))
		return nil
	}

	authorized, err := h.authService.IsAuthorized(userID)
	if err != nil {
		h.logger.Error("Failed to check authorization", zap.Error(err))
		return c.Send(msgSomethingWrong)
	}

	// If not authorized, the message must be the bot password
	if !authorized {
		if !h.authService.CheckPassword(text) {
			return c.Send("Das war leider nicht das Passwort. 🙅")
		}

		if err := h.authService.AuthorizeUser(userID); err != nil {
			h.logger.Error("Failed to authorize user", zap.Error(err))
			return c.Send(msgSomethingWrong)
		}

		h.logger.Info("User authorized", zap.Int64("user_id", userID))
		h.SetState(userID, &domain.StateData{State: domain.StateWaitingCredentials})
		return c.Send("✅ Passwort stimmt!\n\nJetzt verbinde dein Konto. Schick mir deine Zugangsdaten als eine Nachricht:\n\nE-Mail Passwort")
	}

	state := h.GetState(userID)

	switch state.State {
	case domain.StateWaitingCredentials:
		if err := h.authService.LinkAccount(context.Background(), userID, text); err != nil {
			h.logger.Warn("Failed to link account",
				zap.Int64("user_id", userID),
				zap.Error(err),
			)
			if errors.Is(err, apiclient.ErrUnauthorized) {
				return c.Send("Die Zugangsdaten stimmen nicht. Versuch es noch einmal:\n\nE-Mail Passwort")
			}
			return c.Send(msgSomethingWrong)
		}

		h.ResetState(userID)
		return c.Send(
			"🎉 Konto verbunden!\n\n🏠 Hauptmenü\n\nWas möchtest du tun?",
			mainMenuMarkup(),
		)

	default:
		// Idle: everything runs over the menu
		return c.Send("Nutz bitte das Menü unter /start. 🙂")
	}
}
