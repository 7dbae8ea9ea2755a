package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/EgorLis/kstracker/internal/config"
	"github.com/EgorLis/kstracker/internal/discord"
	"github.com/EgorLis/kstracker/internal/exclusion"
	"github.com/EgorLis/kstracker/internal/locations"
	"github.com/EgorLis/kstracker/internal/publish"
	"github.com/EgorLis/kstracker/internal/state"
)

// Chat — то, что бот использует из REST API Discord.
type Chat interface {
	ChannelMessages(ctx context.Context, channelID string, limit int) ([]discord.Message, error)
	SendMessage(ctx context.Context, channelID, content string) (discord.Message, error)
	EditMessage(ctx context.Context, channelID, messageID, content string) (discord.Message, error)
	Channel(ctx context.Context, channelID string) (discord.Channel, error)
}

// Bot — всё состояние трекера: индекс локаций, исключения, публикатор
// сводки. Создаётся один раз при старте и живёт до Stop.
type Bot struct {
	cfg   config.Config
	chat  Chat
	gw    *discord.Gateway
	store state.Store
	log   *slog.Logger

	locations *locations.Index
	excluded  *exclusion.Set
	pub       *publish.Publisher

	saveMu sync.Mutex // снимок + запись состояния — одной операцией

	chMu     sync.Mutex
	channels map[string]bool // каналы, уже проверенные на принадлежность гильдии

	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func New(cfg config.Config, chat Chat, store state.Store, logger *slog.Logger) *Bot {
	if logger == nil {
		logger = slog.Default()
	}
	b := &Bot{
		cfg:       cfg,
		chat:      chat,
		store:     store,
		log:       logger,
		locations: locations.New(cfg.LocationHistoryCap),
		excluded:  exclusion.New(),
		channels:  make(map[string]bool),
		ctx:       context.Background(),
	}
	b.pub = publish.New(summarySink{chat: chat, channelID: cfg.DeliveryChannelID}, handleSaver{b}, "", logger)
	return b
}

// SetGateway подключает gateway: новые сообщения идут в HandleMessage.
func (b *Bot) SetGateway(gw *discord.Gateway) {
	b.gw = gw
	gw.OnConnected = func() { b.log.Info("gateway connected") }
	gw.OnDisconnected = func() { b.log.Info("gateway disconnected") }
	gw.OnError = func(err error) { b.log.Warn("gateway", "err", err) }
	gw.OnMessageCreate = func(m *discord.Message) {
		ctx, cancel := context.WithTimeout(b.runCtx(), 15*time.Second)
		defer cancel()
		b.HandleMessage(ctx, m)
	}
}

// LoadState читает сохранённое состояние. Ошибка хранилища не фатальна:
// бот стартует с пустым списком исключений и без сводки.
func (b *Bot) LoadState(ctx context.Context) {
	if b.store == nil {
		return
	}
	st, err := b.store.Load(ctx)
	if err != nil {
		b.log.Error("load state, starting empty", "err", err)
		return
	}
	b.excluded.Replace(st.ExcludedPlayers)
	b.pub = publish.New(summarySink{chat: b.chat, channelID: b.cfg.DeliveryChannelID}, handleSaver{b}, st.StatusMessageID, b.log)
	b.log.Info("state loaded", "excluded", len(st.ExcludedPlayers), "status_message_id", st.StatusMessageID)
}

// Start запускает циклы и gateway. Первый проход репортов выполняется до
// первой публикации, чтобы в сводке сразу были локации.
func (b *Bot) Start() error {
	if b == nil {
		return errors.New("bot is not initialised")
	}
	b.mu.Lock()
	if b.cancel != nil {
		b.mu.Unlock()
		return errors.New("already running")
	}
	ctx, cancel := context.WithCancel(context.Background())
	b.ctx, b.cancel = ctx, cancel
	b.mu.Unlock()

	if b.gw != nil {
		if err := b.gw.Connect(ctx); err != nil {
			b.mu.Lock()
			b.cancel = nil
			b.mu.Unlock()
			cancel()
			return fmt.Errorf("connect gateway: %w", err)
		}
	}

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		b.runCycle(ctx, "reports", b.RunReportCycle)

		b.wg.Add(2)
		go b.pollLoop(ctx, "reports", b.cfg.ReportInterval, b.RunReportCycle, false)
		go b.pollLoop(ctx, "presence", b.cfg.PresenceInterval, b.RunPresenceCycle, true)
	}()
	return nil
}

func (b *Bot) Stop() {
	b.mu.Lock()
	cancel := b.cancel
	b.cancel = nil
	b.mu.Unlock()

	if cancel == nil {
		return // повторный Stop() ничего не делает
	}
	cancel()
	if b.gw != nil {
		b.gw.Disconnect()
	}
	b.wg.Wait()
}

func (b *Bot) runCtx() context.Context {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.ctx
}

// pollLoop — живёт, пока не отменят ctx. Каждый тик — один полный цикл;
// ошибки только логируются, следующий тик повторяет работу.
func (b *Bot) pollLoop(ctx context.Context, name string, every time.Duration, cycle func(context.Context) error, runNow bool) {
	defer b.wg.Done()

	t := time.NewTicker(every)
	defer t.Stop()

	if runNow {
		b.runCycle(ctx, name, cycle)
	}
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			b.runCycle(ctx, name, cycle)
		}
	}
}

func (b *Bot) runCycle(ctx context.Context, name string, cycle func(context.Context) error) {
	err := cycle(ctx)
	switch {
	case err == nil:
	case ctx.Err() != nil:
	case errors.Is(err, errChannelMissing):
		b.log.Warn("skipping cycle", "cycle", name, "err", err)
	default:
		b.log.Error("cycle failed", "cycle", name, "err", err)
	}
}

// ========================= состояние =========================

// saveState пишет список исключений и текущий id сводки. Ошибка только
// логируется: в памяти состояние остаётся верным до следующей записи.
func (b *Bot) saveState(ctx context.Context) {
	if b.store == nil {
		return
	}
	b.saveMu.Lock()
	defer b.saveMu.Unlock()

	st := state.State{
		ID:              state.RecordID,
		ExcludedPlayers: b.excluded.Names(),
		StatusMessageID: b.pub.Handle(),
	}
	if err := b.store.Save(ctx, st); err != nil {
		b.log.Error("save state", "err", err)
		return
	}
	b.log.Debug("state saved", "excluded", len(st.ExcludedPlayers), "status_message_id", st.StatusMessageID)
}

// handleSaver — публикатор сохраняет id через общее состояние бота.
type handleSaver struct{ b *Bot }

func (h handleSaver) SaveHandle(ctx context.Context, _ string) error {
	h.b.saveState(ctx)
	return nil
}

// summarySink — канал сводки для публикатора.
type summarySink struct {
	chat      Chat
	channelID string
}

func (s summarySink) SendMessage(ctx context.Context, content string) (string, error) {
	m, err := s.chat.SendMessage(ctx, s.channelID, content)
	if err != nil {
		return "", err
	}
	return m.ID, nil
}

func (s summarySink) EditMessage(ctx context.Context, messageID, content string) error {
	_, err := s.chat.EditMessage(ctx, s.channelID, messageID, content)
	if discord.IsNotFound(err) {
		return fmt.Errorf("%w: %v", publish.ErrTargetNotFound, err)
	}
	return err
}
