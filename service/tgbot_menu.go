package service

import (
	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"

	"github.com/Emadhabibnia1385/xui-HUB/storage"
)

const startText = "🤖 <b>به xui_HUB خوش آمدید</b>\n\n" +
	"xui_HUB یک ربات حرفه‌ای برای <b>مدیریت سرورها</b> و کنترل پنل‌های <b>3x-ui / x-ui</b> است.\n\n" +
	"از داخل تلگرام می‌توانید:\n" +
	"• سرورها را اضافه/ویرایش/حذف کنید\n" +
	"• پورت‌ها و کانفیگ‌ها را مدیریت کنید (ادغام کلاینت‌ها)\n" +
	"• بکاپ بگیرید یا بکاپ را وارد کنید\n\n" +
	"برای شروع از منوی زیر استفاده کنید 👇\n\n" +
	"👨‍💻 توسعه‌دهنده: @EmadHabibnia"

func hint(text string) string {
	return "ℹ️ " + text
}

func kbMain() *telego.InlineKeyboardMarkup {
	return tu.InlineKeyboard(
		tu.InlineKeyboardRow(
			tu.InlineKeyboardButton("🛠 مدیریت سرورها").WithCallbackData("manage_servers"),
		),
		tu.InlineKeyboardRow(
			tu.InlineKeyboardButton("🔀 مدیریت پورت و کانفیگ").WithCallbackData("merge_menu"),
		),
		tu.InlineKeyboardRow(
			tu.InlineKeyboardButton("🗂 مدیریت بکاپ").WithCallbackData("backup_menu"),
		),
		tu.InlineKeyboardRow(
			tu.InlineKeyboardButton("⬅️ بازگشت به شروع").WithCallbackData("back_main"),
		),
	)
}

func kbBackMain() *telego.InlineKeyboardMarkup {
	return tu.InlineKeyboard(
		tu.InlineKeyboardRow(
			tu.InlineKeyboardButton("⬅️ بازگشت به منو").WithCallbackData("back_main"),
		),
	)
}

func kbYesNo(yesData, noData string) *telego.InlineKeyboardMarkup {
	return tu.InlineKeyboard(
		tu.InlineKeyboardRow(
			tu.InlineKeyboardButton("✅ بله").WithCallbackData(yesData),
			tu.InlineKeyboardButton("❌ خیر").WithCallbackData(noData),
		),
	)
}

func kbHTTPSchemes() *telego.InlineKeyboardMarkup {
	return tu.InlineKeyboard(
		tu.InlineKeyboardRow(
			tu.InlineKeyboardButton("🔒 HTTPS").WithCallbackData("scheme:https"),
			tu.InlineKeyboardButton("🌐 HTTP").WithCallbackData("scheme:http"),
		),
	)
}

func kbServersList(order []string, servers map[string]*storage.Server) *telego.InlineKeyboardMarkup {
	rows := [][]telego.InlineKeyboardButton{tu.InlineKeyboardRow(
		tu.InlineKeyboardButton("➕ اضافه کردن سرور جدید").WithCallbackData("add_server"),
	)}
	for _, sid := range order {
		srv, ok := servers[sid]
		if !ok {
			continue
		}
		rows = append(rows, tu.InlineKeyboardRow(
			tu.InlineKeyboardButton("🖥 "+srv.DisplayName()).WithCallbackData("server:"+sid),
			tu.InlineKeyboardButton("✏️ ویرایش").WithCallbackData("edit_server:"+sid),
			tu.InlineKeyboardButton("🗑 حذف").WithCallbackData("del_server:"+sid),
		))
	}
	rows = append(rows, tu.InlineKeyboardRow(
		tu.InlineKeyboardButton("⬅️ بازگشت").WithCallbackData("back_main"),
	))
	return tu.InlineKeyboard(rows...)
}

// kbServerPicker lists servers with one action callback prefix, e.g.
// "merge_server" or "bk_export".
func kbServerPicker(order []string, servers map[string]*storage.Server, prefix, icon, backData string) *telego.InlineKeyboardMarkup {
	var rows [][]telego.InlineKeyboardButton
	for _, sid := range order {
		srv, ok := servers[sid]
		if !ok {
			continue
		}
		rows = append(rows, tu.InlineKeyboardRow(
			tu.InlineKeyboardButton(icon+" "+srv.DisplayName()).WithCallbackData(prefix+":"+sid),
		))
	}
	rows = append(rows, tu.InlineKeyboardRow(
		tu.InlineKeyboardButton("⬅️ بازگشت").WithCallbackData(backData),
	))
	return tu.InlineKeyboard(rows...)
}

func kbBackupMenu() *telego.InlineKeyboardMarkup {
	return tu.InlineKeyboard(
		tu.InlineKeyboardRow(
			tu.InlineKeyboardButton("📤 گرفتن بکاپ").WithCallbackData("bk_export"),
		),
		tu.InlineKeyboardRow(
			tu.InlineKeyboardButton("📥 وارد کردن بکاپ").WithCallbackData("bk_import"),
		),
		tu.InlineKeyboardRow(
			tu.InlineKeyboardButton("⬅️ بازگشت").WithCallbackData("back_main"),
		),
	)
}
