package bot

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/worldguard/WorldGuard/pkg/log"
	tb "gopkg.in/tucnak/telebot.v2"
)

// Start answers /start in a private chat. A deep-link payload of the form
// verify_<chatID>_<userID> comes from a challenge link; a bare /start gets
// the setup instructions.
func (b *Bot) Start(m *tb.Message) {
	if strings.HasPrefix(m.Payload, "verify_") {
		b.startVerifyDeepLink(m)
		return
	}

	content := "I help protect Telegram groups from spam and bots using World ID verification.\n\n" +
		"🚀 *How to use me:*\n" +
		"1. Add this bot to your existing group\n" +
		"2. Make the bot an admin with these permissions:\n" +
		"   - Delete messages\n" +
		"   - Ban users\n" +
		"   - Restrict members\n\n" +
		"No additional setup needed - verification will take effect immediately!\n\n" +
		"When new users join your group, they'll be asked to verify with World ID before they can chat."
	markup := &tb.ReplyMarkup{
		InlineKeyboard: [][]tb.InlineButton{
			{{Text: "➕ Add to Group", URL: fmt.Sprintf("https://t.me/%v?startgroup=start", b.tb.Me.Username)}},
			{{Text: "📋 Learn About World ID", URL: "https://worldcoin.org/world-id"}},
		},
	}
	if _, err := b.tb.Send(m.Chat, formatTitled("👋 Welcome to WorldGuard Bot!", content), tb.ModeMarkdown, markup); err != nil {
		log.Warn("send welcome: %v", err)
	}
}

func (b *Bot) startVerifyDeepLink(m *tb.Message) {
	fields := strings.SplitN(strings.TrimPrefix(m.Payload, "verify_"), "_", 2)
	if len(fields) != 2 {
		return
	}
	userID, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return
	}
	if m.Sender == nil || m.Sender.ID != userID {
		_, _ = b.tb.Send(m.Chat, "This verification link is not for you.")
		return
	}
	// The proof itself arrives through the web relay; this is only an
	// acknowledgement for the user who tapped the link.
	_, _ = b.tb.Send(m.Chat, "Thanks for starting the verification process. Please complete it in the World ID app.")
}

func formatTitled(title, content string) string {
	return fmt.Sprintf("*%v*\n\n%v", title, content)
}
