package bot

import (
	"strconv"
	"time"

	tb "gopkg.in/tucnak/telebot.v2"
)

// chatAPI adapts the Telegram bot to the narrow surface the verification
// lifecycle calls into.
type chatAPI struct {
	b *tb.Bot
}

func (a chatAPI) BotID() int64 {
	return a.b.Me.ID
}

func (a chatAPI) HasRestrictRights(chatID int64) (bool, error) {
	member, err := a.b.ChatMemberOf(&tb.Chat{ID: chatID}, a.b.Me)
	if err != nil {
		return false, err
	}
	return member.Role == tb.Administrator && member.CanRestrictMembers, nil
}

func (a chatAPI) RestrictAll(chatID, userID int64) error {
	return a.b.Restrict(&tb.Chat{ID: chatID}, &tb.ChatMember{
		User:   &tb.User{ID: userID},
		Rights: tb.NoRights(),
	})
}

func (a chatAPI) LiftRestrictions(chatID, userID int64) error {
	return a.b.Restrict(&tb.Chat{ID: chatID}, &tb.ChatMember{
		User:   &tb.User{ID: userID},
		Rights: tb.NoRestrictions(),
	})
}

func (a chatAPI) SendMessage(chatID int64, text string) error {
	_, err := a.b.Send(&tb.Chat{ID: chatID}, text)
	return err
}

func (a chatAPI) SendChallenge(chatID int64, text, buttonText, buttonURL string) (int, error) {
	markup := &tb.ReplyMarkup{
		InlineKeyboard: [][]tb.InlineButton{{
			{Text: buttonText, URL: buttonURL},
		}},
	}
	msg, err := a.b.Send(&tb.Chat{ID: chatID}, text, markup)
	if err != nil {
		return 0, err
	}
	return msg.ID, nil
}

func (a chatAPI) DeleteMessage(chatID int64, messageID int) error {
	return a.b.Delete(&tb.StoredMessage{
		MessageID: strconv.Itoa(messageID),
		ChatID:    chatID,
	})
}

func (a chatAPI) Ban(chatID, userID int64, unbanAt time.Time) error {
	return a.b.Ban(&tb.Chat{ID: chatID}, &tb.ChatMember{
		User:            &tb.User{ID: userID},
		RestrictedUntil: unbanAt.Unix(),
	})
}
