package bot

import (
	"github.com/worldguard/WorldGuard/pkg/log"
	tb "gopkg.in/tucnak/telebot.v2"
)

func (b *Bot) Help(m *tb.Message) {
	content := "*Commands:*\n" +
		"- /start - Show welcome message\n" +
		"- /help - Show this help message\n\n" +
		"*Setup Instructions:*\n" +
		"1. Add this bot to your group\n" +
		"2. Make the bot an admin with these permissions:\n" +
		"   - Delete messages\n" +
		"   - Ban users\n" +
		"   - Restrict members\n\n" +
		"*How it Works:*\n" +
		"When someone joins your group, they'll be asked to verify with World ID. " +
		"If they don't verify within the configured timeout, they'll be removed automatically."
	if _, err := b.tb.Send(m.Chat, formatTitled("🛡️ WorldGuard Bot Help", content), tb.ModeMarkdown); err != nil {
		log.Warn("send help: %v", err)
	}
}
