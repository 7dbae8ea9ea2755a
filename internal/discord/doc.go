// Package discord — минимальный клиент Discord для бота: REST (история
// канала, отправка и правка сообщений, информация о канале) и gateway
// (WebSocket) для получения новых сообщений с командами.
//
// REST:
//
//	c := discord.NewClient(token, "")
//	msgs, err := c.ChannelMessages(ctx, channelID, 300) // от новых к старым
//	m, err := c.SendMessage(ctx, channelID, "text")
//	_, err = c.EditMessage(ctx, channelID, m.ID, "new text")
//	if discord.IsNotFound(err) { ... } // сообщение или канал удалены
//
// Gateway:
//
//	gw := discord.NewGateway(token, "", discord.IntentGuilds|discord.IntentGuildMessages|discord.IntentMessageContent)
//	gw.OnMessageCreate = func(m *discord.Message) { ... }
//	if err := gw.Connect(ctx); err != nil { log.Fatal(err) }
//	defer gw.Disconnect()
//
// Gateway сам держит heartbeat и переподключается с экспоненциальной
// задержкой. После переподключения сессия не возобновляется (RESUME),
// а начинается заново через IDENTIFY: пропущенные за это время события
// теряются, бот их и не ждёт — команды просто повторяют.
package discord
