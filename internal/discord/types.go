package discord

import "encoding/json"

type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Bot      bool   `json:"bot,omitempty"`
}

// Member — участник гильдии; приходит в MESSAGE_CREATE (без поля user).
type Member struct {
	Nick  string   `json:"nick,omitempty"`
	Roles []string `json:"roles"`
}

type Message struct {
	ID        string  `json:"id"`
	ChannelID string  `json:"channel_id"`
	GuildID   string  `json:"guild_id,omitempty"`
	Content   string  `json:"content"`
	Author    User    `json:"author"`
	Member    *Member `json:"member,omitempty"`
	Timestamp string  `json:"timestamp,omitempty"`
}

// HasRole — есть ли у автора сообщения роль roleID.
func (m *Message) HasRole(roleID string) bool {
	if m.Member == nil {
		return false
	}
	for _, r := range m.Member.Roles {
		if r == roleID {
			return true
		}
	}
	return false
}

type Channel struct {
	ID      string `json:"id"`
	GuildID string `json:"guild_id,omitempty"`
	Name    string `json:"name"`
	Type    int    `json:"type"`
}

// ========================= gateway =========================

// Intents — битовая маска событий gateway.
type Intents int

const (
	IntentGuilds         Intents = 1 << 0
	IntentGuildMessages  Intents = 1 << 9
	IntentMessageContent Intents = 1 << 15
)

const (
	opDispatch       = 0
	opHeartbeat      = 1
	opIdentify       = 2
	opReconnect      = 7
	opInvalidSession = 9
	opHello          = 10
	opHeartbeatACK   = 11
)

type payload struct {
	Op int             `json:"op"`
	D  json.RawMessage `json:"d,omitempty"`
	S  *int64          `json:"s,omitempty"`
	T  string          `json:"t,omitempty"`
}

type helloData struct {
	HeartbeatInterval int64 `json:"heartbeat_interval"`
}

type identifyData struct {
	Token      string             `json:"token"`
	Intents    Intents            `json:"intents"`
	Properties identifyProperties `json:"properties"`
}

type identifyProperties struct {
	OS      string `json:"os"`
	Browser string `json:"browser"`
	Device  string `json:"device"`
}

type readyData struct {
	SessionID string `json:"session_id"`
	User      User   `json:"user"`
}
