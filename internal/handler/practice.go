package handler

import (
	"context"

	"franca/internal/domain"
	"franca/internal/practice"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// handlePractice starts (or restarts) a practice run for the user's
// preferred direction.
func (h *Handler) handlePractice(c tele.Context) error {
	userID := c.Sender().ID

	settings, err := h.authService.Settings(userID)
	if err != nil || settings == nil || !settings.Linked() {
		if err != nil {
			h.logger.Error("Failed to load settings", zap.Error(err))
		}
		return c.Respond(&tele.CallbackResponse{Text: "Bitte zuerst /start"})
	}

	sess := h.practiceService.Begin(userID, settings.APIToken, settings.Direction)
	if err := sess.Start(context.Background()); err != nil {
		h.logger.Error("Failed to start practice session",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
		return c.Respond(&tele.CallbackResponse{
			Text:      "Die Karten lassen sich gerade nicht laden. Versuch es gleich nochmal.",
			ShowAlert: true,
		})
	}

	return h.renderPractice(c, sess, "")
}

// handleSwitchDirection flips the drill direction. The running session is
// discarded and re-fetched; the preference is stored for the next run.
func (h *Handler) handleSwitchDirection(c tele.Context) error {
	userID := c.Sender().ID

	settings, err := h.authService.Settings(userID)
	if err != nil || settings == nil {
		if err != nil {
			h.logger.Error("Failed to load settings", zap.Error(err))
		}
		return c.Respond(&tele.CallbackResponse{Text: "Bitte zuerst /start"})
	}

	direction := settings.Direction.Opposite()
	if err := h.authService.SetDirection(userID, direction); err != nil {
		h.logger.Error("Failed to store direction", zap.Error(err))
		return c.Respond(&tele.CallbackResponse{Text: msgSomethingWrong})
	}

	sess, ok := h.practiceService.Session(userID)
	if !ok {
		sess = h.practiceService.Begin(userID, settings.APIToken, direction)
	} else {
		sess.SetDirection(direction)
	}

	if err := sess.Start(context.Background()); err != nil {
		return c.Respond(&tele.CallbackResponse{
			Text:      "Die Karten lassen sich gerade nicht laden. Versuch es gleich nochmal.",
			ShowAlert: true,
		})
	}

	return h.renderPractice(c, sess, "")
}

// handleReveal flips the current card to its answer side
func (h *Handler) handleReveal(c tele.Context) error {
	userID := c.Sender().ID

	sess, ok := h.practiceService.Session(userID)
	if !ok {
		return c.Respond(&tele.CallbackResponse{Text: "Keine laufende Übung. Nutz das Menü."})
	}

	sess.Reveal()
	return h.renderPractice(c, sess, "")
}

// handleRate submits the grade behind a rate_N button. The per-user lock
// keeps one submission in flight; the card only advances after the backend
// confirms.
func (h *Handler) handleRate(c tele.Context, rating domain.Rating) error {
	userID := c.Sender().ID

	lock := h.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	sess, ok := h.practiceService.Session(userID)
	if !ok {
		return c.Respond(&tele.CallbackResponse{Text: "Keine laufende Übung. Nutz das Menü."})
	}

	out, err := sess.Rate(context.Background(), rating)
	if err != nil {
		h.logger.Error("Rating submission failed",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
		// the card stays current, the same rating can be retried
		return c.Respond(&tele.CallbackResponse{
			Text:      "Konnte die Bewertung nicht speichern. Tipp nochmal drauf.",
			ShowAlert: true,
		})
	}
	if !out.Submitted {
		// stale tap after the run already ended
		return c.Respond()
	}

	feedbackLine := formatFeedback(out.Feedback)
	if out.PrefetchFailed {
		feedbackLine += "\n⚠️ Nachschub lässt sich gerade nicht laden, ich versuch es gleich wieder."
	}
	return h.renderPractice(c, sess, feedbackLine)
}

// renderPractice draws the session's current screen: a card, the completed
// summary, or the all-caught-up note.
func (h *Handler) renderPractice(c tele.Context, sess *practice.Session, feedbackLine string) error {
	userID := c.Sender().ID

	var text string
	markup := &tele.ReplyMarkup{}

	current, ok := sess.Current()
	switch {
	case ok:
		position := sess.Index() + 1
		text = formatCounters(sess.Counters()) + "\n\n" +
			formatCard(current, position, sess.Len(), sess.Revealed(), sess.Direction())
		if feedbackLine != "" {
			text = feedbackLine + "\n\n" + text
		}

		if sess.Revealed() {
			markup.Inline(
				markup.Row(
					markup.Data("❌ Nicht gewusst", "rate_0"),
					markup.Data("😬 Schwer", "rate_1"),
				),
				markup.Row(
					markup.Data("🙂 Gut", "rate_2"),
					markup.Data("😎 Leicht", "rate_3"),
				),
				markup.Row(btnMainMenu),
			)
		} else {
			markup.Inline(
				markup.Row(btnReveal),
				markup.Row(btnSwitchDirection, btnMainMenu),
			)
		}

	case sess.Empty():
		text = formatCompleted(0, 0)
		markup.Inline(
			markup.Row(btnSwitchDirection),
			markup.Row(btnMainMenu),
		)

	default:
		text = formatCompleted(sess.Score(), sess.Len())
		if feedbackLine != "" {
			text = feedbackLine + "\n\n" + text
		}
		markup.Inline(
			markup.Row(btnPracticeAgain),
			markup.Row(btnSwitchDirection, btnMainMenu),
		)
	}

	if c.Callback() != nil {
		if err := c.Edit(text, markup); err != nil {
			if handleErr := h.handleEditError(err, c, userID); handleErr == nil {
				return nil
			}
			return c.Send(text, markup)
		}
		return c.Respond()
	}
	return c.Send(text, markup)
}
