package service

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/mymmrac/telego"

	"github.com/Emadhabibnia1385/xui-HUB/database/merge"
	"github.com/Emadhabibnia1385/xui-HUB/logger"
)

const maxMergeSources = 30

func (t *Tgbot) startMerge(chatId int64, messageId int, serverID string) {
	if _, err := t.serverService.Get(chatId, serverID); err != nil {
		t.editMessageTgBot(chatId, messageId, "سرور پیدا نشد.", kbBackMain())
		return
	}
	t.state.Clear(chatId)
	form := t.state.MergeForm(chatId)
	form.ServerID = serverID
	t.state.Set(chatId, StateMergeCount)

	msg := "🔀 <b>ادغام اینباندها</b>\n\n" +
		"چند اینباند <b>مبدأ</b> می‌خواهید ادغام کنید؟\n" +
		hint(fmt.Sprintf("عددی بین 1 تا %d ارسال کنید.", maxMergeSources))
	t.editMessageTgBot(chatId, messageId, msg, kbBackMain())
}

func (t *Tgbot) handleMergeInput(message *telego.Message, chatId int64, state string) {
	text := strings.TrimSpace(message.Text)
	form := t.state.MergeForm(chatId)

	switch state {
	case StateMergeCount:
		n, err := strconv.Atoi(text)
		if err != nil || n < 1 || n > maxMergeSources {
			t.SendMsgToTgbot(chatId, fmt.Sprintf("❌ عددی بین 1 تا %d ارسال کنید.", maxMergeSources))
			return
		}
		form.Count = n
		form.Ports = form.Ports[:0]
		t.state.Set(chatId, StateMergePorts)
		t.SendMsgToTgbot(chatId, fmt.Sprintf("🔢 پورت اینباند مبدأ <b>1 از %d</b> را ارسال کنید.", n))

	case StateMergePorts:
		port, err := strconv.Atoi(text)
		if err != nil || port < 1 || port > 65535 {
			t.SendMsgToTgbot(chatId, "❌ پورت معتبر ارسال کنید (1..65535).")
			return
		}
		for _, p := range form.Ports {
			if p == port {
				t.SendMsgToTgbot(chatId, "❌ این پورت قبلاً وارد شده است. پورت دیگری ارسال کنید.")
				return
			}
		}
		form.Ports = append(form.Ports, port)
		if len(form.Ports) < form.Count {
			t.SendMsgToTgbot(chatId, fmt.Sprintf("🔢 پورت اینباند مبدأ <b>%d از %d</b> را ارسال کنید.", len(form.Ports)+1, form.Count))
			return
		}
		t.state.Set(chatId, StateMergeTarget)
		t.SendMsgToTgbot(chatId, "🎯 پورت اینباند <b>مقصد</b> را ارسال کنید.\n"+hint("کلاینت‌های مبدأ به این اینباند اضافه می‌شوند."))

	case StateMergeTarget:
		port, err := strconv.Atoi(text)
		if err != nil || port < 1 || port > 65535 {
			t.SendMsgToTgbot(chatId, "❌ پورت معتبر ارسال کنید (1..65535).")
			return
		}
		for _, p := range form.Ports {
			if p == port {
				t.SendMsgToTgbot(chatId, "❌ پورت مقصد نباید بین پورت‌های مبدأ باشد.")
				return
			}
		}
		form.TargetPort = port
		t.state.Set(chatId, StateMergeConfirm)
		t.SendMsgToTgbot(chatId, t.mergeSummary(form))

	case StateMergeConfirm:
		if !strings.EqualFold(text, "OK") {
			t.state.Clear(chatId)
			t.SendMsgToTgbot(chatId, "❎ ادغام لغو شد.", kbMain())
			return
		}
		srv, err := t.serverService.Get(chatId, form.ServerID)
		if err != nil {
			t.state.Clear(chatId)
			t.SendMsgToTgbot(chatId, "❌ سرور پیدا نشد.", kbMain())
			return
		}
		ports := make([]int, len(form.Ports))
		copy(ports, form.Ports)
		targetPort := form.TargetPort
		t.state.Clear(chatId)

		t.SendMsgToTgbot(chatId, "⏳ در حال ادغام... این عملیات ممکن است کمی طول بکشد.")
		go func() {
			defer func() {
				if r := recover(); r != nil {
					logger.Errorf("merge worker panic: %v", r)
					t.SendMsgToTgbot(chatId, "❌ خطای داخلی در حین ادغام.", kbMain())
				}
			}()
			result, err := t.mergeService.MergePorts(srv, ports, targetPort)
			if err != nil {
				t.SendMsgToTgbot(chatId, renderMergeError(err), kbMain())
				return
			}
			t.SendMsgToTgbot(chatId, renderMergeResult(result), kbMain())
		}()
	}
}

func (t *Tgbot) mergeSummary(form *MergeForm) string {
	ports := make([]string, 0, len(form.Ports))
	for _, p := range form.Ports {
		ports = append(ports, strconv.Itoa(p))
	}
	return "📋 <b>خلاصه ادغام</b>\n\n" +
		"🔢 پورت‌های مبدأ: <code>" + strings.Join(ports, ", ") + "</code>\n" +
		"🎯 پورت مقصد: <code>" + strconv.Itoa(form.TargetPort) + "</code>\n\n" +
		"⚠️ کلاینت‌های تکراری (بر اساس UUID) اضافه نمی‌شوند.\n\n" +
		"برای تأیید <b>OK</b> ارسال کنید، هر چیز دیگری لغو می‌کند."
}

func renderMergeResult(r *merge.Result) string {
	return "✅ <b>ادغام با موفقیت انجام شد</b>\n\n" +
		fmt.Sprintf("➕ کلاینت‌های اضافه‌شده: <b>%d</b>\n", r.Added) +
		fmt.Sprintf("📊 تعداد کلاینت‌های مقصد: %d → %d\n", r.Before, r.After) +
		fmt.Sprintf("🧩 حالت ادغام: <code>%s</code>\n\n", r.Mode) +
		"♻️ پنل سرور ری‌استارت شد."
}

// renderMergeError turns the merge error taxonomy into operator-facing
// Persian. Anything unrecognized falls back to the raw error text.
func renderMergeError(err error) string {
	var portErr *PortLookupError
	if errors.As(err, &portErr) {
		ports := make([]string, 0, len(portErr.Ports))
		for _, p := range portErr.Ports {
			ports = append(ports, strconv.Itoa(p))
		}
		return "❌ اینباندی با این پورت‌ها پیدا نشد:\n<code>" + strings.Join(ports, ", ") + "</code>"
	}
	if errors.Is(err, ErrDBNotFound) {
		return "❌ دیتابیس x-ui روی سرور پیدا نشد."
	}

	var schemaErr *merge.SchemaError
	if errors.As(err, &schemaErr) {
		return "❌ ساختار دیتابیس قابل ادغام نیست:\n<code>" + schemaErr.Error() + "</code>"
	}
	var valErr *merge.ValidationError
	if errors.As(err, &valErr) {
		return "❌ اینباند(های) خواسته‌شده در دیتابیس وجود ندارند:\n<code>" + valErr.Error() + "</code>"
	}
	var execErr *merge.ExecutionError
	if errors.As(err, &execErr) {
		return "❌ خطا در اجرای ادغام، دیتابیس تغییری نکرد:\n<code>" + execErr.Error() + "</code>"
	}
	var finErr *merge.FinalizationError
	if errors.As(err, &finErr) {
		return "❌ ادغام انجام شد اما ساخت فایل خروجی شکست خورد:\n<code>" + finErr.Error() + "</code>"
	}
	return "❌ خطا در ادغام:\n<code>" + err.Error() + "</code>"
}
