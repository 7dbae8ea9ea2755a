// Package bot — «склейка» вокруг discord, presence, locations, exclusion,
// publish и state, реализующая трекер игроков для Discord. Бот:
//   - раз в ReportInterval читает канал репортов ("!ks > Name > location")
//     и пополняет индекс локаций;
//   - раз в PresenceInterval берёт последнее сообщение «Online» из канала
//     статуса, собирает сводку (уровень угрозы, профессия, имя, уровень,
//     последние локации) и правит одно сообщение в канале сводки;
//   - обрабатывает команды !ks exclude|include|list|help из gateway; менять
//     список исключений могут только участники с ролью ExcludeRoleID.
//
// Жизненный цикл:
//   - Создать бота через New(cfg, chat, store, logger).
//   - (Опционально) SetGateway(gw) — без него команды не принимаются.
//   - LoadState(ctx) — поднимет исключения и id сводки из хранилища.
//   - Запустить Start() и остановить Stop().
//
// Пример:
//
//	b := bot.New(cfg, discord.NewClient(cfg.Token, ""), store, logger)
//	b.SetGateway(discord.NewGateway(cfg.Token, "", intents, logger))
//	b.LoadState(ctx)
//	if err := b.Start(); err != nil { log.Fatal(err) }
//	defer b.Stop()
//
// Состояние:
//   - индекс локаций, список исключений и id сводки живут в Bot; у каждого
//     своя блокировка, которая держится только на время изменения в памяти;
//   - после каждого изменения исключений и каждой смены id сводки состояние
//     сразу сохраняется; ошибка хранилища не останавливает бота.
package bot
