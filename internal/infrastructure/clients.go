package infrastructure

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramNotifier pushes operational notices (publish outcomes, off-hours
// inquiries) to the business owner's chat. Disabled when the token or chat
// id is missing; NotifyOwner then becomes a no-op returning nil.
type TelegramNotifier struct {
	Bot         *tgbotapi.BotAPI
	ownerChatID int64
}

func NewTelegramNotifier(token string, ownerChatID int64) *TelegramNotifier {
	if token == "" || ownerChatID == 0 {
		return &TelegramNotifier{}
	}
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		fmt.Printf("Warning: Telegram bot token issue: %v. Owner notifications disabled.\n", err)
		return &TelegramNotifier{}
	}
	return &TelegramNotifier{Bot: bot, ownerChatID: ownerChatID}
}

func (t *TelegramNotifier) Enabled() bool {
	return t.Bot != nil && t.ownerChatID != 0
}

func (t *TelegramNotifier) NotifyOwner(text string) error {
	if !t.Enabled() {
		return nil
	}
	msg := tgbotapi.NewMessage(t.ownerChatID, text)
	msg.ParseMode = "Markdown"
	_, err := t.Bot.Send(msg)
	return err
}
