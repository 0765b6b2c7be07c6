package handler

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"franca/internal/service"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// handleStories shows the story catalogue, first page
func (h *Handler) handleStories(c tele.Context) error {
	return h.renderStoriesPage(c, 1)
}

// handleStoriesPage handles page navigation in the catalogue
func (h *Handler) handleStoriesPage(c tele.Context, data string) error {
	pageStr := strings.TrimPrefix(strings.TrimSpace(data), "page_")
	page, err := strconv.Atoi(pageStr)
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: "Ungültige Seite"})
	}
	return h.renderStoriesPage(c, page)
}

func (h *Handler) renderStoriesPage(c tele.Context, page int) error {
	userID := c.Sender().ID

	token, ok := h.userToken(c)
	if !ok {
		return c.Respond(&tele.CallbackResponse{Text: "Bitte zuerst /start"})
	}

	stories, totalPages, err := h.contentService.Stories(context.Background(), token, page)
	if err != nil {
		h.logger.Error("Failed to load stories", zap.Error(err))
		return c.Respond(&tele.CallbackResponse{Text: "Geschichten lassen sich gerade nicht laden"})
	}

	if len(stories) == 0 {
		return c.Respond(&tele.CallbackResponse{
			Text:      "Noch keine Geschichten da. Schau später vorbei!",
			ShowAlert: true,
		})
	}

	text := "📚 Such dir eine Geschichte aus:\n"
	markup := &tele.ReplyMarkup{}
	rows := []tele.Row{}

	for _, story := range stories {
		btn := markup.Data(formatStory(story), "story_"+story.ID)
		rows = append(rows, markup.Row(btn))
	}

	// Add pagination buttons
	if totalPages > 1 {
		navRow := tele.Row{}
		if page > 1 {
			navRow = append(navRow, markup.Data("⬅️", fmt.Sprintf("page_%d", page-1)))
		}
		if page < totalPages {
			navRow = append(navRow, markup.Data("➡️", fmt.Sprintf("page_%d", page+1)))
		}
		if len(navRow) > 0 {
			rows = append(rows, navRow)
		}
	}

	rows = append(rows, markup.Row(btnMainMenu))
	markup.Inline(rows...)

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

// handleStorySelection shows the chapter picker of one story
func (h *Handler) handleStorySelection(c tele.Context, data string) error {
	userID := c.Sender().ID
	storyID := strings.TrimPrefix(strings.TrimSpace(data), "story_")

	token, ok := h.userToken(c)
	if !ok {
		return c.Respond(&tele.CallbackResponse{Text: "Bitte zuerst /start"})
	}

	story, err := h.contentService.Story(context.Background(), token, storyID)
	if err != nil {
		if errors.Is(err, service.ErrStoryNotFound) {
			return c.Respond(&tele.CallbackResponse{Text: "Diese Geschichte gibt es nicht mehr"})
		}
		h.logger.Error("Failed to load stories", zap.Error(err))
		return c.Respond(&tele.CallbackResponse{Text: "Geschichten lassen sich gerade nicht laden"})
	}
	if story.ChapterCount == 0 {
		return c.Respond(&tele.CallbackResponse{Text: "Diese Geschichte hat noch keine Kapitel"})
	}

	text := fmt.Sprintf("📖 %s\n\nWelches Kapitel?", story.Title)
	markup := &tele.ReplyMarkup{}
	rows := []tele.Row{}
	row := tele.Row{}
	for n := 1; n <= story.ChapterCount; n++ {
		row = append(row, markup.Data(strconv.Itoa(n), fmt.Sprintf("chapter_%s_%d", storyID, n)))
		if len(row) == 5 {
			rows = append(rows, row)
			row = tele.Row{}
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	rows = append(rows, markup.Row(btnBackToStories, btnMainMenu))
	markup.Inline(rows...)

	if err := c.Edit(text, markup); err != nil {
		if handleErr := h.handleEditError(err, c, userID); handleErr == nil {
			return nil
		}
		return c.Send(text, markup)
	}
	return c.Respond()
}

// handleChapter shows a chapter's text with the narration controls
func (h *Handler) handleChapter(c tele.Context, data string) error {
	userID := c.Sender().ID

	storyID, number, err := parseChapterData(data)
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: "Ungültiges Kapitel"})
	}

	token, ok := h.userToken(c)
	if !ok {
		return c.Respond(&tele.CallbackResponse{Text: "Bitte zuerst /start"})
	}

	chapter, err := h.contentService.Chapter(context.Background(), token, storyID, number)
	if err != nil {
		h.logger.Error("Failed to load chapter",
			zap.String("story_id", storyID),
			zap.Int("chapter", number),
			zap.Error(err),
		)
		return c.Respond(&tele.CallbackResponse{Text: "Das Kapitel lässt sich gerade nicht laden"})
	}

	text := fmt.Sprintf("📖 Kapitel %d: %s\n\n%s", chapter.Number, chapter.Title, chapter.Text)
	markup := &tele.ReplyMarkup{}
	markup.Inline(
		markup.Row(markup.Data("🔊 Vorlesen", fmt.Sprintf("listen_%s_%d", storyID, number))),
		markup.Row(btnBackToStories, btnMainMenu),
	)

	if err := c.Edit(text, markup); err != nil {
		if handleErr := h.handleEditError(err, c, userID); handleErr == nil {
			return nil
		}
		return c.Send(text, markup)
	}
	return c.Respond()
}

// handleListen starts narrating a chapter into the chat
func (h *Handler) handleListen(c tele.Context, data string) error {
	storyID, number, err := parseChapterData(data)
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: "Ungültiges Kapitel"})
	}

	token, ok := h.userToken(c)
	if !ok {
		return c.Respond(&tele.CallbackResponse{Text: "Bitte zuerst /start"})
	}

	chapter, err := h.contentService.Chapter(context.Background(), token, storyID, number)
	if err != nil {
		h.logger.Error("Failed to load chapter for narration", zap.Error(err))
		return c.Respond(&tele.CallbackResponse{Text: "Das Kapitel lässt sich gerade nicht laden"})
	}

	h.player.Play(c.Chat().ID, chapter)

	markup := &tele.ReplyMarkup{}
	markup.Inline(markup.Row(btnStopAudio), markup.Row(btnMainMenu))
	if err := c.Send("🔊 Ich lese vor …", markup); err != nil {
		return err
	}
	return c.Respond()
}

// handleStopAudio ends the chat's narration
func (h *Handler) handleStopAudio(c tele.Context) error {
	h.player.Stop(c.Chat().ID)
	return c.Respond(&tele.CallbackResponse{Text: "⏹ Gestoppt"})
}

// parseChapterData splits "chapter_<storyID>_<n>" / "listen_<storyID>_<n>"
func parseChapterData(data string) (string, int, error) {
	data = strings.TrimSpace(data)
	data = strings.TrimPrefix(data, "chapter_")
	data = strings.TrimPrefix(data, "listen_")

	idx := strings.LastIndex(data, "_")
	if idx < 1 {
		return "", 0, fmt.Errorf("malformed chapter data: %q", data)
	}
	number, err := strconv.Atoi(data[idx+1:])
	if err != nil || number < 1 {
		return "", 0, fmt.Errorf("malformed chapter number: %q", data)
	}
	return data[:idx], number, nil
}

// userToken loads the sender's backend token; false means not linked yet
func (h *Handler) userToken(c tele.Context) (string, bool) {
	settings, err := h.authService.Settings(c.Sender().ID)
	if err != nil {
		h.logger.Error("Failed to load settings", zap.Error(err))
		return "", false
	}
	if settings == nil || !settings.Linked() {
		return "", false
	}
	return settings.APIToken, true
}
