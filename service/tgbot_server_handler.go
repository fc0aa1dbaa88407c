package service

import (
	"strconv"
	"strings"

	"github.com/mymmrac/telego"

	"github.com/Emadhabibnia1385/xui-HUB/storage"
)

// ---------- add server flow ----------

func (t *Tgbot) startAddServer(chatId int64) {
	t.state.Clear(chatId)
	t.state.ServerForm(chatId)
	t.state.Set(chatId, StateAddSrvHost)
	msg := "➕ <b>افزودن سرور جدید</b>\n\n" +
		"🌐 لطفاً <b>IP یا دامنه سرور</b> را ارسال کنید.\n" +
		hint("این آدرس برای اتصال SSH استفاده می‌شود.")
	t.SendMsgToTgbot(chatId, msg)
}

func (t *Tgbot) handleAddServerInput(message *telego.Message, chatId int64, state string) {
	text := strings.TrimSpace(message.Text)
	form := t.state.ServerForm(chatId)

	switch state {
	case StateAddSrvHost:
		if isRealCommand(text) || text == "" {
			t.SendMsgToTgbot(chatId, "❌ لطفاً IP یا دامنه را ارسال کنید (نه دستور).")
			return
		}
		form.SSHHost = text
		t.state.Set(chatId, StateAddSrvSSHUser)
		t.SendMsgToTgbot(chatId, "👤 <b>نام کاربری SSH</b> را ارسال کنید.\n"+hint("پیش‌فرض root است؛ اگر همین است /skip بزنید."))

	case StateAddSrvSSHUser:
		if isRealCommand(text) {
			t.SendMsgToTgbot(chatId, "❌ نام کاربری را ارسال کنید یا /skip بزنید.")
			return
		}
		if isSkip(text) {
			form.SSHUser = "root"
		} else {
			form.SSHUser = text
		}
		t.state.Set(chatId, StateAddSrvSSHPass)
		t.SendMsgToTgbot(chatId, "🔑 <b>رمز عبور SSH</b> را ارسال کنید.\n"+hint("این اطلاعات فقط برای اتصال استفاده می‌شود."))

	case StateAddSrvSSHPass:
		if isRealCommand(text) {
			t.SendMsgToTgbot(chatId, "❌ رمز عبور را ارسال کنید (نه دستور).")
			return
		}
		form.SSHPass = text
		t.state.Set(chatId, StateAddSrvSSHPort)
		t.SendMsgToTgbot(chatId, "🔢 <b>پورت SSH</b> را ارسال کنید.\n"+hint("پیش‌فرض 22 است؛ اگر همین است /skip بزنید."))

	case StateAddSrvSSHPort:
		if isRealCommand(text) {
			t.SendMsgToTgbot(chatId, "❌ پورت را ارسال کنید یا /skip بزنید.")
			return
		}
		port := 22
		if !isSkip(text) {
			n, err := strconv.Atoi(text)
			if err != nil || n < 1 || n > 65535 {
				t.SendMsgToTgbot(chatId, "❌ پورت معتبر ارسال کنید (1..65535).")
				return
			}
			port = n
		}
		form.SSHPort = port
		t.state.Set(chatId, StateAddSrvHasPanel)
		msg := "✅ اتصال SSH این سرور ثبت شد.\n\n" +
			"❓ آیا می‌خواهید <b>اطلاعات پنل x-ui / 3x-ui</b> همین سرور را هم اضافه کنید؟"
		t.SendMsgToTgbot(chatId, msg, kbYesNo("srv_has_panel_yes", "srv_has_panel_no"))

	case StateAddSrvPanelHost:
		if isRealCommand(text) {
			t.SendMsgToTgbot(chatId, "❌ دامنه/IP پنل را ارسال کنید یا /skip بزنید.")
			return
		}
		if isSkip(text) {
			form.Panel.Host = form.SSHHost
		} else {
			form.Panel.Host = text
		}
		t.state.Set(chatId, StateAddSrvPanelPort)
		t.SendMsgToTgbot(chatId, "🔢 <b>پورت پنل</b> را ارسال کنید.\n"+hint("مثال: 2053 یا 54321"))

	case StateAddSrvPanelPort:
		if isRealCommand(text) {
			t.SendMsgToTgbot(chatId, "❌ پورت پنل را ارسال کنید.")
			return
		}
		n, err := strconv.Atoi(text)
		if err != nil || n < 1 || n > 65535 {
			t.SendMsgToTgbot(chatId, "❌ پورت معتبر ارسال کنید (1..65535).")
			return
		}
		form.Panel.Port = n
		t.state.Set(chatId, StateAddSrvPanelPath)
		t.SendMsgToTgbot(chatId, "🧭 <b>URI Path پنل</b> را ارسال کنید.\n"+hint("اگر پنل path ندارد، /skip بزنید تا / قرار بگیرد."))

	case StateAddSrvPanelPath:
		if isRealCommand(text) {
			t.SendMsgToTgbot(chatId, "❌ مسیر پنل را ارسال کنید یا /skip بزنید.")
			return
		}
		path := "/"
		if !isSkip(text) {
			path = text
			if !strings.HasPrefix(path, "/") {
				path = "/" + path
			}
		}
		form.Panel.Path = path
		t.SendMsgToTgbot(chatId, "🔒 <b>نوع اتصال پنل</b> را انتخاب کنید:", kbHTTPSchemes())
	}
}

func (t *Tgbot) addServerPanelYes(chatId int64, messageId int) {
	t.state.Set(chatId, StateAddSrvPanelHost)
	msg := "🌐 <b>دامنه یا IP پنل</b> را ارسال کنید.\n" +
		hint("اگر دامنه ندارید، /skip بزنید تا همان IP سرور قرار بگیرد.")
	t.editMessageTgBot(chatId, messageId, msg)
}

func (t *Tgbot) addServerScheme(chatId int64, messageId int, scheme string) {
	if scheme != "http" && scheme != "https" {
		t.editMessageTgBot(chatId, messageId, "گزینه نامعتبر. دوباره انتخاب کنید.", kbHTTPSchemes())
		return
	}
	form := t.state.ServerForm(chatId)
	form.Panel.Scheme = scheme
	t.finalizeNewServer(chatId, messageId, true)
}

func (t *Tgbot) finalizeNewServer(chatId int64, messageId int, includePanel bool) {
	form := t.state.ServerForm(chatId)
	srv := *form
	if !includePanel {
		srv.Panel = storage.Panel{}
	}

	_, err := t.serverService.Add(chatId, &srv)
	t.state.Clear(chatId)
	if err != nil {
		t.editMessageTgBot(chatId, messageId, "❌ خطا در ذخیره سرور: "+err.Error(), kbMain())
		return
	}

	msg := "✅ <b>سرور با موفقیت اضافه شد</b>\n\n" +
		"🖥 نام نمایشی: <code>" + srv.DisplayName() + "</code>\n" +
		"🔗 SSH: <code>" + srv.SSHHost + ":" + strconv.Itoa(srv.SSHPort) + "</code>\n"
	if includePanel && srv.HasPanel() {
		msg += "\n🌐 پنل: <code>" + srv.PanelAddr() + "</code>\n"
	}
	msg += "\nبرای ادامه از منوی اصلی استفاده کنید 👇"
	t.editMessageTgBot(chatId, messageId, msg, kbMain())
}

// ---------- edit server flow ----------

func (t *Tgbot) startEditServer(chatId int64, messageId int, serverID string) {
	if _, err := t.serverService.Get(chatId, serverID); err != nil {
		t.editMessageTgBot(chatId, messageId, "سرور پیدا نشد.", kbBackMain())
		return
	}
	t.state.Clear(chatId)
	t.state.SetEditTarget(chatId, serverID)
	t.state.Set(chatId, StateEditServer)
	msg := "✏️ <b>ویرایش سرور</b>\n\n" +
		"به شکل زیر ارسال کنید:\n" +
		"<code>field=value</code>\n\n" +
		"فیلدهای SSH:\n" +
		"ssh_host, ssh_user, ssh_pass, ssh_port\n\n" +
		"فیلدهای پنل (اختیاری):\n" +
		"panel_host, panel_port, panel_path, panel_scheme(http/https)\n\n" +
		hint("مثال: ssh_port=22")
	t.editMessageTgBot(chatId, messageId, msg, kbBackMain())
}

func (t *Tgbot) handleEditServerInput(message *telego.Message, chatId int64) {
	serverID, ok := t.state.EditTarget(chatId)
	if !ok {
		t.state.Clear(chatId)
		t.SendMsgToTgbot(chatId, "جلسه ویرایش پیدا نشد.", kbMain())
		return
	}

	text := strings.TrimSpace(message.Text)
	if isRealCommand(text) {
		t.SendMsgToTgbot(chatId, "❌ لطفاً <code>field=value</code> ارسال کنید (نه دستور).")
		return
	}
	field, value, found := strings.Cut(text, "=")
	if !found {
		t.SendMsgToTgbot(chatId, "فرمت صحیح: <code>field=value</code>")
		return
	}

	if err := t.serverService.EditField(chatId, serverID, field, value); err != nil {
		t.SendMsgToTgbot(chatId, "❌ "+err.Error())
		return
	}
	t.state.Clear(chatId)
	t.SendMsgToTgbot(chatId, "✅ ویرایش انجام شد.", kbMain())
}
