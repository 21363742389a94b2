// internal/infra/telegram/bot_commands_handler.go
package telegram

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

func RegisterBotCommands(
	b *telebot.Bot,
	adminTelegramID int64,
	baseLogger *logrus.Entry, // For contextual logging
) {
	startHelpLogger := baseLogger.WithField("handler_group", "start_help")
	b.Handle("/start", startHandler(adminTelegramID, startHelpLogger))
	b.Handle("/help", helpHandler(adminTelegramID, startHelpLogger))
}

func startHandler(adminTelegramID int64, logger *logrus.Entry) telebot.HandlerFunc {
	return func(c telebot.Context) error {
		senderID := c.Sender().ID
		logCtx := logger.WithField("command", "/start").WithField("sender_id", senderID)
		logCtx.Info("Processing /start command")

		if senderID == adminTelegramID {
			logCtx.Info("User identified as Admin")
			return c.Send(fmt.Sprintf("こんにちは、%sさん！株主優待の管理を始めましょう。コマンド一覧は /help で確認できます。", c.Sender().FirstName))
		}

		logCtx.Info("User is unknown")
		return c.Send("こんにちは！このボットは株主優待の期限管理用で、管理者のみが利用できます。")
	}
}

func helpHandler(adminTelegramID int64, logger *logrus.Entry) telebot.HandlerFunc {
	return func(c telebot.Context) error {
		senderID := c.Sender().ID
		logCtx := logger.WithField("command", "/help").WithField("sender_id", senderID)
		logCtx.Info("Processing /help command")

		if senderID != adminTelegramID {
			logCtx.Info("User is unknown, sending restricted help.")
			return c.Send("利用できるコマンドはありません。")
		}

		logCtx.Info("User identified as Admin, sending admin help.")
		var helpText strings.Builder
		helpText.WriteString("利用できるコマンド:\n\n")
		helpText.WriteString("`/list [expiry|amount|name] [asc|desc]`\n - 登録済みの優待を一覧表示します。既定は期限の昇順です。\n\n")
		helpText.WriteString("`/add 名称 | 金額 | YYYY-MM-DD | メモ`\n - 優待を登録します。金額とメモは省略または - で空にできます。\n\n")
		helpText.WriteString("`/edit ID | 名称 | 金額 | YYYY-MM-DD | メモ`\n - 優待の全項目を更新します。\n\n")
		helpText.WriteString("`/delete ID`\n - 優待を1件削除します。\n\n")
		helpText.WriteString("`/select`\n - ボタンで複数の優待を選んでまとめて削除します。\n\n")
		helpText.WriteString("`/notify`\n - 期限チェックを今すぐ実行し、該当する通知を送信します。\n\n")
		helpText.WriteString("`/help`\n - このメッセージを表示します。")
		return c.Send(helpText.String(), &telebot.SendOptions{ParseMode: telebot.ModeMarkdown})
	}
}
