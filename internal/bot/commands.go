package bot

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/EgorLis/kstracker/internal/discord"
	"github.com/EgorLis/kstracker/internal/exclusion"
)

const commandPrefix = "!ks"

// сплит с поддержкой кавычек: !ks exclude "Bubble Gum"
var reArg = regexp.MustCompile(`"([^"]*)"|(\S+)`)

// HandleMessage — входящее сообщение из gateway. Команды понимаются только
// из нашей гильдии и не от ботов; ответ уходит в тот же канал.
func (b *Bot) HandleMessage(ctx context.Context, m *discord.Message) {
	if m == nil || m.Author.Bot || m.GuildID != b.cfg.GuildID {
		return
	}
	text := strings.TrimSpace(m.Content)
	if !isCommand(text) {
		return
	}
	b.log.Info("command", "author", m.Author.Username, "channel", m.ChannelID, "text", text)

	reply := b.HandleCommand(ctx, m, text)
	if reply == "" {
		return
	}
	if _, err := b.chat.SendMessage(ctx, m.ChannelID, reply); err != nil {
		b.log.Error("send reply", "channel", m.ChannelID, "err", err)
	}
}

// isCommand отличает "!ks exclude Bob" от репорта "!ks > Bob > cave".
func isCommand(text string) bool {
	if strings.Contains(text, ">") {
		return false
	}
	fields := strings.Fields(text)
	return len(fields) > 0 && strings.EqualFold(fields[0], commandPrefix)
}

// HandleCommand выполняет "!ks <sub> [name]" и возвращает текст ответа.
func (b *Bot) HandleCommand(ctx context.Context, m *discord.Message, text string) string {
	fields := splitArgs(text)
	if len(fields) < 2 {
		return usage()
	}
	sub := strings.ToLower(fields[1])
	name := strings.TrimSpace(strings.Join(fields[2:], " "))
	allowed := m.HasRole(b.cfg.ExcludeRoleID)

	switch sub {
	case "help":
		return usage()

	case "exclude":
		if !allowed {
			return "You do not have permission to exclude players."
		}
		if name == "" {
			return "usage: !ks exclude <player name>"
		}
		b.excluded.Exclude(name)
		b.saveState(ctx)
		return fmt.Sprintf("%s has been excluded from tracking.", name)

	case "include":
		if !allowed {
			return "You do not have permission to include players."
		}
		if name == "" {
			return "usage: !ks include <player name>"
		}
		if err := b.excluded.Include(name); err != nil {
			if errors.Is(err, exclusion.ErrNotFound) {
				return fmt.Sprintf("%s is not excluded.", name)
			}
			return fmt.Sprintf("err: %v", err)
		}
		b.saveState(ctx)
		return fmt.Sprintf("%s has been included in tracking.", name)

	case "list":
		if !allowed {
			return "You do not have permission to list excluded players."
		}
		names := b.excluded.Names()
		if len(names) == 0 {
			return "excluded: (empty)"
		}
		return "excluded:\n" + strings.Join(names, "\n")

	default:
		return usage()
	}
}

func usage() string {
	return strings.Join([]string{
		"!ks exclude <player name>",
		"!ks include <player name>",
		"!ks list",
		"!ks help",
	}, "\n")
}

func splitArgs(s string) []string {
	var out []string
	for _, m := range reArg.FindAllStringSubmatch(s, -1) {
		if m[1] != "" {
			out = append(out, m[1])
		} else {
			out = append(out, m[2])
		}
	}
	return out
}
