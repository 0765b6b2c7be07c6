package speaking

import (
	"context"
	"strings"
	"sync"
	"time"

	"franca/internal/domain"

	"go.uber.org/zap"
)

// SendFunc delivers one narration line to a chat
type SendFunc func(chatID int64, text string) error

// Player owns the narration resource. At most one narration is active per
// chat; starting a new one stops and waits out the previous one before the
// new playback begins. All mutation goes through Play/Stop/StopAll.
type Player struct {
	send     SendFunc
	interval time.Duration
	logger   *zap.Logger

	mu     sync.Mutex
	active map[int64]*playback
}

type playback struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// NewPlayer creates a narration player delivering one sentence per interval
func NewPlayer(send SendFunc, interval time.Duration, logger *zap.Logger) *Player {
	return &Player{
		send:     send,
		interval: interval,
		logger:   logger,
		active:   make(map[int64]*playback),
	}
}

// Play starts narrating a chapter to the chat, sentence by sentence. Any
// narration already running for the chat is released first.
func (p *Player) Play(chatID int64, chapter domain.Chapter) {
	sentences := SplitSentences(chapter.Text)
	if len(sentences) == 0 {
		return
	}

	p.mu.Lock()
	if prev, ok := p.active[chatID]; ok {
		prev.cancel()
		<-prev.done
	}

	ctx, cancel := context.WithCancel(context.Background())
	pb := &playback{cancel: cancel, done: make(chan struct{})}
	p.active[chatID] = pb
	p.mu.Unlock()

	p.logger.Info("Narration started",
		zap.Int64("chat_id", chatID),
		zap.String("story_id", chapter.StoryID),
		zap.Int("chapter", chapter.Number),
		zap.Int("sentences", len(sentences)),
	)

	go p.run(ctx, chatID, pb, sentences)
}

func (p *Player) run(ctx context.Context, chatID int64, pb *playback, sentences []string) {
	defer func() {
		close(pb.done)
		p.mu.Lock()
		if p.active[chatID] == pb {
			delete(p.active, chatID)
		}
		p.mu.Unlock()
	}()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for i, sentence := range sentences {
		if err := p.send(chatID, sentence); err != nil {
			p.logger.Warn("Failed to deliver narration line",
				zap.Int64("chat_id", chatID),
				zap.Error(err),
			)
			return
		}
		if i == len(sentences)-1 {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Stop ends the chat's narration, if any, and waits for it to finish
func (p *Player) Stop(chatID int64) {
	p.mu.Lock()
	pb, ok := p.active[chatID]
	if ok {
		delete(p.active, chatID)
	}
	p.mu.Unlock()

	if ok {
		pb.cancel()
		<-pb.done
	}
}

// Playing reports whether a narration is active for the chat
func (p *Player) Playing(chatID int64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.active[chatID]
	return ok
}

// StopAll ends every narration; used on shutdown
func (p *Player) StopAll() {
	p.mu.Lock()
	playbacks := make([]*playback, 0, len(p.active))
	for chatID, pb := range p.active {
		playbacks = append(playbacks, pb)
		delete(p.active, chatID)
	}
	p.mu.Unlock()

	for _, pb := range playbacks {
		pb.cancel()
		<-pb.done
	}
}

// SplitSentences breaks chapter text into narration lines on sentence
// punctuation, keeping the punctuation with its sentence.
func SplitSentences(text string) []string {
	var sentences []string
	var b strings.Builder

	for _, r := range text {
		b.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			if s := strings.TrimSpace(b.String()); s != "" {
				sentences = append(sentences, s)
			}
			b.Reset()
		}
	}
	if s := strings.TrimSpace(b.String()); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}
