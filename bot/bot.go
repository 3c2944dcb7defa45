package bot

import (
	"time"

	"github.com/worldguard/WorldGuard/model"
	"github.com/worldguard/WorldGuard/pkg/log"
	"github.com/worldguard/WorldGuard/service"
	tb "gopkg.in/tucnak/telebot.v2"
)

type Config struct {
	Token    string
	Poller   *tb.LongPoller
	Store    *service.Store
	Outcomes service.OutcomeRecorder
	// AppID, Action and Timeout parameterize the challenge cycle.
	AppID   string
	Action  string
	Timeout time.Duration
}

type Bot struct {
	tb        *tb.Bot
	guard     *service.Guard
	completer *service.Completer
}

func New(conf Config) (*Bot, error) {
	poller := conf.Poller
	if poller == nil {
		poller = &tb.LongPoller{
			Timeout: 15 * time.Second,
			AllowedUpdates: []string{
				"message",
				"edited_message",
				"channel_post",
				"edited_channel_post",
				"callback_query",
				"my_chat_member",
				"chat_member",
			},
		}
	}
	b, err := tb.NewBot(tb.Settings{
		Token:  conf.Token,
		Poller: poller,
	})
	if err != nil {
		return nil, err
	}
	api := chatAPI{b: b}
	guard := service.NewGuard(conf.Store, api, conf.Outcomes, service.GuardConfig{
		AppID:   conf.AppID,
		Action:  conf.Action,
		Timeout: conf.Timeout,
	})
	bot := &Bot{
		tb:        b,
		guard:     guard,
		completer: service.NewCompleter(conf.Store, api, conf.Outcomes),
	}

	// A join can surface as a roster-delta message or as a chat_member
	// status change; the guard deduplicates by record.
	b.Handle(tb.OnUserJoined, func(m *tb.Message) {
		// Fired once per joined user even when Telegram batches joins.
		if m.UserJoined == nil {
			return
		}
		bot.guard.HandleJoin(m.Chat.ID, memberOf(m.UserJoined))
	})
	b.Handle(tb.OnChatMember, func(u *tb.ChatMemberUpdated) {
		if becameMember(u) {
			bot.guard.HandleJoin(u.Chat.ID, memberOf(u.NewChatMember.User))
		}
	})
	b.Handle(tb.OnUserLeft, func(m *tb.Message) {
		if m.UserLeft == nil {
			return
		}
		bot.guard.HandleLeave(m.Chat.ID, m.UserLeft.ID)
	})
	// Reserved for per-chat init when the bot itself is added or promoted.
	b.Handle(tb.OnMyChatMember, func(u *tb.ChatMemberUpdated) {
		if u.NewChatMember == nil {
			return
		}
		log.Info("bot membership in chat %v changed to %v", u.Chat.ID, u.NewChatMember.Role)
	})

	b.Handle("/start", bot.Start)
	b.Handle("/help", bot.Help)
	if err := b.SetCommands([]tb.Command{
		{Text: "start", Description: "Start the bot and get usage instructions"},
		{Text: "help", Description: "Show help information"},
	}); err != nil {
		log.Warn("set bot commands: %v", err)
	}

	return bot, nil
}

// Completer exposes the verification completer for the proof relay.
func (b *Bot) Completer() *service.Completer {
	return b.completer
}

// Run starts long polling and blocks.
func (b *Bot) Run() {
	log.Info("bot started as @%v (ID %v)", b.tb.Me.Username, b.tb.Me.ID)
	b.tb.Start()
}

func memberOf(u *tb.User) model.Member {
	return model.Member{
		ID:       u.ID,
		Username: u.Username,
		IsBot:    u.IsBot,
	}
}

// becameMember reports whether a chat_member update represents a user
// entering the chat as a regular member. Transitions between non-member
// roles (restricted, left, kicked) and demotions are not joins.
func becameMember(u *tb.ChatMemberUpdated) bool {
	old, now := u.OldChatMember, u.NewChatMember
	if old == nil || now == nil || now.User == nil {
		return false
	}
	return old.Role != tb.Member && now.Role == tb.Member
}
