package handler

import (
	"sync"

	"franca/internal/domain"
	"franca/internal/service"
	"franca/internal/speaking"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// Handler manages all bot interactions
type Handler struct {
	bot             *tele.Bot
	authService     *service.AuthService
	practiceService *service.PracticeService
	contentService  *service.ContentService
	player          *speaking.Player
	logger          *zap.Logger

	// User states (in-memory state machine)
	states   map[int64]*domain.StateData
	stateMux sync.RWMutex

	// Per-user locks serialising racy callbacks (one rating in flight)
	callbackLocks map[int64]*sync.Mutex
	callbackMux   sync.Mutex
}

// NewHandler creates a new handler instance
func NewHandler(
	bot *tele.Bot,
	authService *service.AuthService,
	practiceService *service.PracticeService,
	contentService *service.ContentService,
	player *speaking.Player,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		bot:             bot,
		authService:     authService,
		practiceService: practiceService,
		contentService:  contentService,
		player:          player,
		logger:          logger,
		states:          make(map[int64]*domain.StateData),
		callbackLocks:   make(map[int64]*sync.Mutex),
	}
}

// RegisterHandlers registers all bot handlers
func (h *Handler) RegisterHandlers() {
	// Commands
	h.bot.Handle("/start", h.handleStart)

	// Text messages
	h.bot.Handle(tele.OnText, h.handleText)

	// Callback queries (inline buttons)
	h.bot.Handle(&btnPractice, h.handlePractice)
	h.bot.Handle(&btnStories, h.handleStories)
	h.bot.Handle(&btnProgress, h.handleProgress)
	h.bot.Handle(&btnAchievements, h.handleAchievements)
	h.bot.Handle(&btnReveal, h.handleReveal)
	h.bot.Handle(&btnSwitchDirection, h.handleSwitchDirection)
	h.bot.Handle(&btnPracticeAgain, h.handlePractice)
	h.bot.Handle(&btnStopAudio, h.handleStopAudio)
	h.bot.Handle(&btnBackToStories, h.handleStories)
	h.bot.Handle(&btnMainMenu, h.handleMainMenu)

	// Generic callback handler for dynamic data
	h.bot.Handle(tele.OnCallback, h.handleCallback)
}

// GetState returns user's current state
func (h *Handler) GetState(userID int64) *domain.StateData {
	h.stateMux.RLock()
	defer h.stateMux.RUnlock()

	state, exists := h.states[userID]
	if !exists {
		return &domain.StateData{State: domain.StateIdle}
	}
	return state
}

// SetState sets user's state
func (h *Handler) SetState(userID int64, state *domain.StateData) {
	h.stateMux.Lock()
	defer h.stateMux.Unlock()
	h.states[userID] = state
}

// ResetState resets user to idle state
func (h *Handler) ResetState(userID int64) {
	h.SetState(userID, &domain.StateData{State: domain.StateIdle})
}

// userLock returns the per-user callback lock, creating it on first use
func (h *Handler) userLock(userID int64) *sync.Mutex {
	h.callbackMux.Lock()
	defer h.callbackMux.Unlock()

	lock, exists := h.callbackLocks[userID]
	if !exists {
		lock = &sync.Mutex{}
		h.callbackLocks[userID] = lock
	}
	return lock
}

// Inline keyboard buttons
var (
	btnPractice = tele.Btn{
		Unique: "practice",
		Text:   "🧠 Üben",
	}
	btnStories = tele.Btn{
		Unique: "stories",
		Text:   "📚 Geschichten",
	}
	btnProgress = tele.Btn{
		Unique: "progress",
		Text:   "📊 Fortschritt",
	}
	btnAchievements = tele.Btn{
		Unique: "achievements",
		Text:   "🏆 Erfolge",
	}
	btnReveal = tele.Btn{
		Unique: "reveal",
		Text:   "👀 Antwort zeigen",
	}
	btnSwitchDirection = tele.Btn{
		Unique: "switch_direction",
		Text:   "🔄 Richtung wechseln",
	}
	btnPracticeAgain = tele.Btn{
		Unique: "practice_again",
		Text:   "🔁 Nochmal üben",
	}
	btnStopAudio = tele.Btn{
		Unique: "stop_audio",
		Text:   "⏹ Vorlesen stoppen",
	}
	btnBackToStories = tele.Btn{
		Unique: "back_to_stories",
		Text:   "◀️ Zu den Geschichten",
	}
	btnMainMenu = tele.Btn{
		Unique: "main_menu",
		Text:   "🏠 Hauptmenü",
	}
)

const msgSomethingWrong = "Da ist etwas schiefgelaufen. Versuch es später noch einmal."

// mainMenuMarkup returns the main menu keyboard
func mainMenuMarkup() *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{}
	menu.Inline(
		menu.Row(btnPractice),
		menu.Row(btnStories),
		menu.Row(btnProgress, btnAchievements),
	)
	return menu
}
