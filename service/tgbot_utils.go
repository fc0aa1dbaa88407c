package service

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"

	"github.com/Emadhabibnia1385/xui-HUB/logger"
)

func (t *Tgbot) SendMsgToTgbot(chatId int64, msg string, replyMarkup ...telego.ReplyMarkup) {
	if !isRunning {
		return
	}

	if msg == "" {
		logger.Info("[tgbot] message is empty!")
		return
	}

	var allMessages []string
	limit := 2000

	// paging message if it is big
	if len(msg) > limit {
		messages := strings.Split(msg, "\r\n\r\n")
		lastIndex := -1

		for _, message := range messages {
			if (len(allMessages) == 0) || (len(allMessages[lastIndex])+len(message) > limit) {
				allMessages = append(allMessages, message)
				lastIndex++
			} else {
				allMessages[lastIndex] += "\r\n\r\n" + message
			}
		}
		if strings.TrimSpace(allMessages[len(allMessages)-1]) == "" {
			allMessages = allMessages[:len(allMessages)-1]
		}
	} else {
		allMessages = append(allMessages, msg)
	}
	for n, message := range allMessages {
		params := telego.SendMessageParams{
			ChatID:    tu.ID(chatId),
			Text:      message,
			ParseMode: "HTML",
		}
		// only add replyMarkup to last message
		if len(replyMarkup) > 0 && n == (len(allMessages)-1) {
			params.ReplyMarkup = replyMarkup[0]
		}
		_, err := bot.SendMessage(context.Background(), &params)
		if err != nil {
			logger.Warning("Error sending telegram message :", err)
		}
		time.Sleep(500 * time.Millisecond)
	}
}

func (t *Tgbot) SendMsgToTgbotAdmins(msg string, replyMarkup ...telego.ReplyMarkup) {
	if len(replyMarkup) > 0 {
		for _, adminId := range adminIds {
			t.SendMsgToTgbot(adminId, msg, replyMarkup[0])
		}
	} else {
		for _, adminId := range adminIds {
			t.SendMsgToTgbot(adminId, msg)
		}
	}
}

func (t *Tgbot) editMessageTgBot(chatId int64, messageID int, text string, inlineKeyboard ...*telego.InlineKeyboardMarkup) {
	params := telego.EditMessageTextParams{
		ChatID:    tu.ID(chatId),
		MessageID: messageID,
		Text:      text,
		ParseMode: "HTML",
	}
	if len(inlineKeyboard) > 0 {
		params.ReplyMarkup = inlineKeyboard[0]
	}
	if _, err := bot.EditMessageText(context.Background(), &params); err != nil {
		logger.Warning("Error in editing message :", err)
	}
}

// sendDocument uploads a local file to the chat and removes it
// afterwards, caption optional.
func (t *Tgbot) sendDocument(chatId int64, localPath, filename, caption string) error {
	file, err := os.Open(localPath)
	if err != nil {
		logger.Error("Error in opening file for upload: ", err)
		return err
	}
	defer func() {
		_ = file.Close()
		_ = os.Remove(localPath)
	}()

	document := tu.Document(
		tu.ID(chatId),
		tu.File(tu.NameReader(file, filename)),
	)
	document.Caption = caption
	if _, err := bot.SendDocument(context.Background(), document); err != nil {
		logger.Error("Error in uploading file: ", err)
		return err
	}
	return nil
}

// hostStatus reports the bot host's own resources, for the /status
// command.
func hostStatus() string {
	var sb strings.Builder
	sb.WriteString("📊 <b>وضعیت میزبان ربات</b>\n\n")

	if info, err := host.Info(); err == nil {
		up := time.Duration(info.Uptime) * time.Second
		sb.WriteString(fmt.Sprintf("🖥 <code>%s</code>\n⏳ Uptime: %s\n", info.Hostname, up))
	}
	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		sb.WriteString(fmt.Sprintf("⚙️ CPU: %.1f%%\n", percents[0]))
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		sb.WriteString(fmt.Sprintf("🧠 RAM: %.1f%% (%d/%d MB)\n",
			vm.UsedPercent, vm.Used/1024/1024, vm.Total/1024/1024))
	}
	if du, err := disk.Usage("/"); err == nil {
		sb.WriteString(fmt.Sprintf("💾 Disk: %.1f%% (%d/%d GB)\n",
			du.UsedPercent, du.Used/1024/1024/1024, du.Total/1024/1024/1024))
	}
	return sb.String()
}
