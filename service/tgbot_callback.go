package service

import (
	"context"
	"strings"

	"github.com/mymmrac/telego"

	"github.com/Emadhabibnia1385/xui-HUB/logger"
	"github.com/Emadhabibnia1385/xui-HUB/util/common"
)

func (t *Tgbot) answerCallback(query *telego.CallbackQuery, isAdmin bool) {
	defer common.Recover("answerCallback")

	err := bot.AnswerCallbackQuery(context.Background(), &telego.AnswerCallbackQueryParams{
		CallbackQueryID: query.ID,
	})
	if err != nil {
		logger.Warning("Error answering callback query:", err)
	}

	if !isAdmin || query.Message == nil {
		return
	}

	chatId := query.Message.GetChat().ID
	messageId := query.Message.GetMessageID()
	data := query.Data

	switch {
	case data == "back_main":
		t.state.Clear(chatId)
		t.editMessageTgBot(chatId, messageId, startText, kbMain())

	case data == "manage_servers":
		t.showServersMenu(chatId, messageId)

	case data == "add_server":
		t.startAddServer(chatId)

	case strings.HasPrefix(data, "server:"):
		t.showServerDetails(chatId, messageId, strings.TrimPrefix(data, "server:"))

	case strings.HasPrefix(data, "edit_server:"):
		t.startEditServer(chatId, messageId, strings.TrimPrefix(data, "edit_server:"))

	case strings.HasPrefix(data, "del_server:"):
		t.deleteServer(chatId, messageId, strings.TrimPrefix(data, "del_server:"))

	case data == "srv_has_panel_yes":
		t.addServerPanelYes(chatId, messageId)

	case data == "srv_has_panel_no":
		t.finalizeNewServer(chatId, messageId, false)

	case strings.HasPrefix(data, "scheme:"):
		t.addServerScheme(chatId, messageId, strings.TrimPrefix(data, "scheme:"))

	case data == "merge_menu":
		t.showMergeMenu(chatId, messageId)

	case strings.HasPrefix(data, "merge_server:"):
		t.startMerge(chatId, messageId, strings.TrimPrefix(data, "merge_server:"))

	case data == "backup_menu":
		t.state.Clear(chatId)
		t.showBackupMenu(chatId, messageId)

	case data == "bk_export":
		t.showBackupExportPicker(chatId, messageId)

	case strings.HasPrefix(data, "bk_export:"):
		t.runBackupExport(chatId, messageId, strings.TrimPrefix(data, "bk_export:"))

	case data == "bk_import":
		t.showBackupImportPicker(chatId, messageId)

	case strings.HasPrefix(data, "bk_import:"):
		t.startRestore(chatId, messageId, strings.TrimPrefix(data, "bk_import:"))

	default:
		logger.Debugf("unhandled callback: %s", data)
	}
}

func (t *Tgbot) showServersMenu(chatId int64, messageId int) {
	order, servers, err := t.serverService.List(chatId)
	if err != nil {
		t.editMessageTgBot(chatId, messageId, "❌ خطا در خواندن فهرست سرورها.", kbBackMain())
		return
	}
	msg := "🛠 <b>مدیریت سرورها</b>\n\n" +
		"در این بخش می‌توانید سرورهای خود را اضافه کنید و در صورت نیاز اطلاعات پنل x-ui را هم ثبت کنید.\n" +
		hint("فقط اطلاعات سرورها ذخیره می‌شود.")
	t.editMessageTgBot(chatId, messageId, msg, kbServersList(order, servers))
}

func (t *Tgbot) showServerDetails(chatId int64, messageId int, serverID string) {
	srv, err := t.serverService.Get(chatId, serverID)
	if err != nil {
		t.editMessageTgBot(chatId, messageId, "سرور پیدا نشد.", kbBackMain())
		return
	}
	msg := "🖥 <b>" + srv.DisplayName() + "</b>\n\n" +
		"🔗 SSH: <code>" + srv.SSHHost + "</code>\n"
	if srv.HasPanel() {
		msg += "🌐 پنل: <code>" + srv.PanelAddr() + "</code>\n"
	}
	t.editMessageTgBot(chatId, messageId, msg, kbBackMain())
}

func (t *Tgbot) deleteServer(chatId int64, messageId int, serverID string) {
	if err := t.serverService.Delete(chatId, serverID); err != nil {
		logger.Warningf("delete server %s: %v", serverID, err)
	}
	order, servers, err := t.serverService.List(chatId)
	if err != nil {
		t.editMessageTgBot(chatId, messageId, "❌ خطا در خواندن فهرست سرورها.", kbBackMain())
		return
	}
	t.editMessageTgBot(chatId, messageId, "✅ سرور حذف شد.", kbServersList(order, servers))
}

func (t *Tgbot) showMergeMenu(chatId int64, messageId int) {
	order, servers, err := t.serverService.List(chatId)
	if err != nil || len(order) == 0 {
		t.editMessageTgBot(chatId, messageId, "اول یک سرور اضافه کنید.", kbServersList(order, servers))
		return
	}
	msg := "🔀 <b>مدیریت پورت و کانفیگ</b>\n\n" +
		"سروری که می‌خواهید عملیات ادغام روی آن انجام شود را انتخاب کنید:"
	t.editMessageTgBot(chatId, messageId, msg, kbServerPicker(order, servers, "merge_server", "🔀", "back_main"))
}

func (t *Tgbot) showBackupMenu(chatId int64, messageId int) {
	msg := "🗂 <b>مدیریت بکاپ</b>\n\n" +
		"• 📤 گرفتن بکاپ: بکاپ دیتابیس x-ui همین لحظه دریافت می‌شود.\n" +
		"• 📥 وارد کردن بکاپ: بازیابی دیتابیس از فایل بکاپ.\n\n" +
		hint("این عملیات از طریق SSH انجام می‌شود.")
	t.editMessageTgBot(chatId, messageId, msg, kbBackupMenu())
}

// helper shared by the picker-based flows
func (t *Tgbot) serverPickerOrWarn(chatId int64, messageId int, prefix, icon, backData string) bool {
	order, servers, err := t.serverService.List(chatId)
	if err != nil || len(order) == 0 {
		t.editMessageTgBot(chatId, messageId, "اول یک سرور اضافه کنید.", kbServersList(order, servers))
		return false
	}
	t.editMessageTgBot(chatId, messageId, pickerTitle(prefix), kbServerPicker(order, servers, prefix, icon, backData))
	return true
}

func pickerTitle(prefix string) string {
	switch prefix {
	case "bk_export":
		return "📤 سرور موردنظر برای بکاپ را انتخاب کنید:"
	case "bk_import":
		return "📥 سرور مقصد برای بازیابی بکاپ را انتخاب کنید:"
	}
	return "سرور را انتخاب کنید:"
}

func (t *Tgbot) showBackupExportPicker(chatId int64, messageId int) {
	t.serverPickerOrWarn(chatId, messageId, "bk_export", "📤", "backup_menu")
}

func (t *Tgbot) showBackupImportPicker(chatId int64, messageId int) {
	t.serverPickerOrWarn(chatId, messageId, "bk_import", "📥", "backup_menu")
}
