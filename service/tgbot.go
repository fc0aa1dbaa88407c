package service

import (
	"context"
	"strconv"
	"strings"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"
	tu "github.com/mymmrac/telego/telegoutil"

	"github.com/Emadhabibnia1385/xui-HUB/logger"
	"github.com/Emadhabibnia1385/xui-HUB/util/common"
)

const skipCommand = "/skip"

func isSkip(text string) bool {
	return strings.EqualFold(strings.TrimSpace(text), skipCommand)
}

// isRealCommand reports whether the text is a bot command other than
// /skip, which the conversation flows treat as input.
func isRealCommand(text string) bool {
	t := strings.ToLower(strings.TrimSpace(text))
	return strings.HasPrefix(t, "/") && t != skipCommand
}

func (t *Tgbot) OnReceive() {
	params := telego.GetUpdatesParams{
		Timeout: 10,
	}

	updates, _ := bot.UpdatesViaLongPolling(context.Background(), &params)

	botHandler, _ = th.NewBotHandler(bot, updates)

	botHandler.HandleMessage(func(ctx *th.Context, message telego.Message) error {
		// /skip inside a conversation is an answer, not a command
		if isSkip(message.Text) {
			if _, inFlow := t.state.Get(message.Chat.ID); inFlow {
				t.answerMessage(&message, message.Chat.ID, checkAdmin(message.From.ID))
				return nil
			}
		}
		t.state.Clear(message.Chat.ID)
		t.answerCommand(&message, message.Chat.ID, checkAdmin(message.From.ID))
		return nil
	}, th.AnyCommand())

	botHandler.HandleMessage(func(ctx *th.Context, message telego.Message) error {
		t.answerMessage(&message, message.Chat.ID, checkAdmin(message.From.ID))
		return nil
	}, th.AnyMessage())

	botHandler.HandleCallbackQuery(func(ctx *th.Context, query telego.CallbackQuery) error {
		t.answerCallback(&query, checkAdmin(query.From.ID))
		return nil
	}, th.AnyCallbackQuery())

	if err := botHandler.Start(); err != nil {
		logger.Error("Telegram bot handler stopped:", err)
	}
}

func (t *Tgbot) answerCommand(message *telego.Message, chatId int64, isAdmin bool) {
	if !isAdmin {
		t.SendMsgToTgbot(chatId, "⛔️ شما اجازه استفاده از این ربات را ندارید.")
		return
	}

	command, _, _ := tu.ParseCommand(message.Text)

	switch command {
	case "start":
		t.SendMsgToTgbot(chatId, startText, kbMain())
	case "help":
		msg := "📖 <b>راهنما</b>\n\n" +
			"• 🛠 مدیریت سرورها: افزودن/ویرایش/حذف سرور\n" +
			"• 🔀 مدیریت پورت و کانفیگ: ادغام کلاینت‌های چند پورت در یک پورت\n" +
			"• 🗂 مدیریت بکاپ: گرفتن یا وارد کردن بکاپ دیتابیس x-ui\n\n" +
			hint("در مراحل چندگانه، با /skip مقدار پیش‌فرض انتخاب می‌شود.")
		t.SendMsgToTgbot(chatId, msg, kbMain())
	case "id":
		t.SendMsgToTgbot(chatId, "🆔 شناسه شما: <code>"+strconv.FormatInt(message.From.ID, 10)+"</code>")
	case "status":
		t.SendMsgToTgbot(chatId, hostStatus())
	case "skip":
		// /skip outside a conversation; nothing to do
	default:
		t.SendMsgToTgbot(chatId, "❓ دستور ناشناخته. از /start استفاده کنید.")
	}
}

// answerMessage feeds free-form text (and documents) into whichever
// conversation state the chat is in.
func (t *Tgbot) answerMessage(message *telego.Message, chatId int64, isAdmin bool) {
	defer common.Recover("answerMessage")

	if !isAdmin {
		return
	}

	state, ok := t.state.Get(chatId)
	if !ok {
		t.SendMsgToTgbot(chatId, startText, kbMain())
		return
	}

	switch state {
	case StateAddSrvHost, StateAddSrvSSHUser, StateAddSrvSSHPass, StateAddSrvSSHPort,
		StateAddSrvPanelHost, StateAddSrvPanelPort, StateAddSrvPanelPath:
		t.handleAddServerInput(message, chatId, state)
	case StateEditServer:
		t.handleEditServerInput(message, chatId)
	case StateMergeCount, StateMergePorts, StateMergeTarget, StateMergeConfirm:
		t.handleMergeInput(message, chatId, state)
	case StateRestoreUpload, StateRestoreConfirm:
		t.handleRestoreInput(message, chatId, state)
	default:
		t.state.Clear(chatId)
		t.SendMsgToTgbot(chatId, startText, kbMain())
	}
}
