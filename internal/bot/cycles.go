package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/EgorLis/kstracker/internal/discord"
	"github.com/EgorLis/kstracker/internal/presence"
)

// errChannelMissing — канала нет или он не из нашей гильдии; цикл пропускается.
var errChannelMissing = errors.New("channel not available")

// RunReportCycle забирает историю канала репортов и дописывает локации в индекс.
func (b *Bot) RunReportCycle(ctx context.Context) error {
	msgs, err := b.history(ctx, b.cfg.ReportChannelID, b.cfg.ReportHistoryLimit)
	if err != nil {
		return fmt.Errorf("report history: %w", err)
	}
	// API отдаёт от новых к старым, индексу нужен хронологический порядок
	lines := make([]string, 0, len(msgs))
	for i := len(msgs) - 1; i >= 0; i-- {
		lines = append(lines, strings.TrimSpace(msgs[i].Content))
	}
	n := b.locations.Ingest(lines, b.cfg.ReportPrefix)
	b.log.Debug("reports ingested", "messages", len(msgs), "reports", n, "players", b.locations.Players())
	return nil
}

// RunPresenceCycle читает последнее статус-сообщение, собирает сводку и
// публикует её. Если историю получить не удалось — сводка не трогается.
func (b *Bot) RunPresenceCycle(ctx context.Context) error {
	entries, err := b.CurrentEntries(ctx)
	if err != nil {
		return err
	}
	if err := b.checkChannel(ctx, b.cfg.DeliveryChannelID); err != nil {
		return err
	}

	content := presence.Fit(entries, discord.MaxContentLength)
	res, err := b.pub.Publish(ctx, content)
	if err != nil {
		return err
	}
	b.log.Debug("summary published", "result", res, "players", len(entries), "message_id", b.pub.Handle())
	return nil
}

// CurrentEntries — записи сводки по последнему статус-сообщению «Online».
func (b *Bot) CurrentEntries(ctx context.Context) ([]presence.Entry, error) {
	msgs, err := b.history(ctx, b.cfg.OnlineChannelID, b.cfg.PresenceHistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("online history: %w", err)
	}
	var lines []string
	for _, m := range msgs { // от новых к старым — берём самое свежее
		if strings.Contains(m.Content, b.cfg.OnlineMarker) {
			lines = presence.StatusLines(m.Content)
			break
		}
	}
	entries := presence.Reconcile(lines, b.locations, b.excluded, presence.DefaultLocationLimit)
	for _, e := range entries {
		b.log.Debug("player", "name", e.Name, "level", e.Level.Value, "tier", e.Tier, "vocation", e.Vocation.Value, "locations", strings.Join(e.Locations, ", "))
	}
	return entries, nil
}

func (b *Bot) history(ctx context.Context, channelID string, limit int) ([]discord.Message, error) {
	if err := b.checkChannel(ctx, channelID); err != nil {
		return nil, err
	}
	msgs, err := b.chat.ChannelMessages(ctx, channelID, limit)
	if discord.IsNotFound(err) {
		b.forgetChannel(channelID)
		return nil, fmt.Errorf("%w: %s: %v", errChannelMissing, channelID, err)
	}
	return msgs, err
}

// checkChannel проверяет (один раз), что канал существует и принадлежит
// нашей гильдии.
func (b *Bot) checkChannel(ctx context.Context, channelID string) error {
	b.chMu.Lock()
	ok := b.channels[channelID]
	b.chMu.Unlock()
	if ok {
		return nil
	}

	ch, err := b.chat.Channel(ctx, channelID)
	if discord.IsNotFound(err) || discord.IsForbidden(err) {
		return fmt.Errorf("%w: %s: %v", errChannelMissing, channelID, err)
	}
	if err != nil {
		return fmt.Errorf("channel %s: %w", channelID, err)
	}
	if ch.GuildID != b.cfg.GuildID {
		return fmt.Errorf("%w: %s belongs to guild %q", errChannelMissing, channelID, ch.GuildID)
	}

	b.chMu.Lock()
	b.channels[channelID] = true
	b.chMu.Unlock()
	b.log.Info("channel resolved", "id", channelID, "name", ch.Name)
	return nil
}

func (b *Bot) forgetChannel(channelID string) {
	b.chMu.Lock()
	delete(b.channels, channelID)
	b.chMu.Unlock()
}
