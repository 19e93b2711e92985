package locales

// 用户界面文案，俄语/英语双语，延续原机器人的文案风格
// key 不存在时回退到俄语，再不存在时返回占位文本

const (
	LangRU = "ru"
	LangEN = "en"
)

var texts = map[string]map[string]string{
	LangRU: {
		"welcome": "🤖 Добро пожаловать в Telegram-бота для отслеживания 🔍 ключевых слов в группах и каналах!\n\n" +
			"📱 Подключённых аккаунтов: %d\n" +
			"📤 Техническая группа (для пересылки): %s\n" +
			"🔍 Ключевых слов: %d\n" +
			"📡 Отслеживаемых каналов: %d\n\n" +
			"💡 Совет: список команд — /help",
		"help": "📋 Команды:\n" +
			"/start — статус и приветствие\n" +
			"/language — сменить язык (ru/en)\n" +
			"/add_sources @ch1 @ch2 — добавить каналы для отслеживания\n" +
			"/del_source @ch — удалить канал\n" +
			"/sources — список каналов\n" +
			"/add_keywords слово1, слово2 — добавить ключевые слова\n" +
			"/del_keyword слово — удалить ключевое слово\n" +
			"/keywords — список ключевых слов\n" +
			"/set_target @group — задать группу для пересылки\n" +
			"/target — показать группу для пересылки\n" +
			"/track — запустить отслеживание\n" +
			"/stop — остановить отслеживание\n" +
			"/status — состояние отслеживания\n" +
			"/discover тема — поиск групп по теме (ИИ)\n\n" +
			"📱 Для подключения аккаунта отправьте файл сессии, например +79599999999.session",
		"lang_selected":         "✅ Отлично! Интерфейс теперь будет отображаться на выбранном языке.",
		"account_missing":       "⚠️ У вас нет подключенного аккаунта Telegram.",
		"account_invalid":       "⚠️ Сессия аккаунта недействительна — требуется повторный вход. Отправьте валидный файл сессии.",
		"account_connected":     "✅ Аккаунт подключён. Файл сессии сохранён.",
		"account_save_error":    "❌ Не удалось сохранить файл сессии, попробуйте ещё раз.",
		"launching_tracking":    "🚀 Запуск отслеживания сообщений...",
		"already_tracking":      "ℹ️ Отслеживание уже запущено. Сначала остановите его командой /stop.",
		"tracking_launch_error": "⚠️ Список каналов пуст.\n\nДобавьте хотя бы одну группу или канал для отслеживания 🔍 командой /add_sources",
		"target_group_missing":  "❌ Не удалось подключиться к группе для пересылки. Проверьте настройку: /set_target @username",
		"tracking_stopped":      "🛑 Отслеживание остановлено.",
		"tracking_not_running":  "ℹ️ Отслеживание не запущено.",
		"tracking_failed":       "❌ Ошибка при отслеживании. Попробуйте перезапустить: /track",
		"sources_added":         "✅ Добавлено каналов: %d",
		"source_deleted":        "✅ Канал %s удалён из списка отслеживания.",
		"sources_empty":         "📡 Список отслеживаемых каналов пуст.",
		"keywords_added":        "✅ Добавлено ключевых слов: %d",
		"keyword_deleted":       "✅ Ключевое слово «%s» удалено.",
		"keywords_empty":        "🔍 Список ключевых слов пуст.",
		"target_set":            "✅ Группа для пересылки: %s",
		"target_missing":        "📤 Группа для пересылки не задана. Используйте /set_target @username",
		"bad_handle":            "❌ Неверный формат. Пришлите ссылку на группу в формате @username",
		"join_report":           "📊 Подписка на каналы:\n✅ успешно: %d\n❌ ошибок: %d\n🗑️ удалено невалидных: %d",
		"generic_error":         "❌ Произошла ошибка, попробуйте позже.",
		"discover_usage":        "Использование: /discover тема (например, /discover недвижимость)",
		"discover_started":      "🧠 Ищу группы по теме «%s», ожидайте...",
		"discover_disabled":     "⚠️ Поиск групп отключён (не задан DISCOVERY_API_KEY).",
		"discover_empty":        "🔍 По теме «%s» ничего не найдено.",
	},
	LangEN: {
		"welcome": "🤖 Welcome to the Telegram bot for tracking 🔍 keywords in groups and channels!\n\n" +
			"📱 Connected accounts: %d\n" +
			"📤 Forwarding group: %s\n" +
			"🔍 Keywords tracked: %d\n" +
			"📡 Channels being monitored: %d\n\n" +
			"💡 Tip: see /help for the command list",
		"help": "📋 Commands:\n" +
			"/start — status and welcome\n" +
			"/language — switch language (ru/en)\n" +
			"/add_sources @ch1 @ch2 — add channels to track\n" +
			"/del_source @ch — remove a channel\n" +
			"/sources — list channels\n" +
			"/add_keywords word1, word2 — add keywords\n" +
			"/del_keyword word — remove a keyword\n" +
			"/keywords — list keywords\n" +
			"/set_target @group — set the forwarding group\n" +
			"/target — show the forwarding group\n" +
			"/track — start tracking\n" +
			"/stop — stop tracking\n" +
			"/status — tracking status\n" +
			"/discover topic — AI-assisted group search\n\n" +
			"📱 To connect an account, send a session file, e.g. +79599999999.session",
		"lang_selected":         "✅ Great! The interface will now be displayed in your selected language.",
		"account_missing":       "⚠️ You do not have a connected Telegram account.",
		"account_invalid":       "⚠️ The session file for your account is invalid — you need to log in again. Send a valid session file.",
		"account_connected":     "✅ Account connected. Session file saved.",
		"account_save_error":    "❌ Failed to save the session file, please try again.",
		"launching_tracking":    "🚀 Launching message tracking...",
		"already_tracking":      "ℹ️ Tracking is already running. Stop it first with /stop.",
		"tracking_launch_error": "⚠️ The list of channels is empty.\n\nAdd at least one group or channel to track 🔍 with /add_sources",
		"target_group_missing":  "❌ Failed to join the forwarding group. Check your setup: /set_target @username",
		"tracking_stopped":      "🛑 Tracking stopped.",
		"tracking_not_running":  "ℹ️ Tracking is not running.",
		"tracking_failed":       "❌ Tracking failed. Try restarting: /track",
		"sources_added":         "✅ Channels added: %d",
		"source_deleted":        "✅ Channel %s removed from the tracking list.",
		"sources_empty":         "📡 The tracked channel list is empty.",
		"keywords_added":        "✅ Keywords added: %d",
		"keyword_deleted":       "✅ Keyword \"%s\" deleted.",
		"keywords_empty":        "🔍 The keyword list is empty.",
		"target_set":            "✅ Forwarding group: %s",
		"target_missing":        "📤 No forwarding group set. Use /set_target @username",
		"bad_handle":            "❌ Wrong format. Send a link to the group in the format @username",
		"join_report":           "📊 Channel subscription:\n✅ joined: %d\n❌ failed: %d\n🗑️ invalid removed: %d",
		"generic_error":         "❌ Something went wrong, please try again later.",
		"discover_usage":        "Usage: /discover topic (e.g. /discover real estate)",
		"discover_started":      "🧠 Searching for groups on \"%s\", please wait...",
		"discover_disabled":     "⚠️ Group discovery is disabled (DISCOVERY_API_KEY is not set).",
		"discover_empty":        "🔍 Nothing found for \"%s\".",
	},
}

// Get 返回指定语言的文案；语言或 key 未知时回退到俄语
func Get(lang, key string) string {
	if m, ok := texts[lang]; ok {
		if s, ok := m[key]; ok {
			return s
		}
	}
	if s, ok := texts[LangRU][key]; ok {
		return s
	}
	return "⚠️ Text not found"
}

// Normalize 把任意语言代码收敛为受支持的语言
func Normalize(lang string) string {
	if lang == LangEN {
		return LangEN
	}
	return LangRU
}
