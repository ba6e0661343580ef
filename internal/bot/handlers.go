package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/svrvs/sr-ai-bot/internal/intent"
	"github.com/svrvs/sr-ai-bot/internal/reply"
)

const (
	stickerOK    = "CAACAgIAAxkBAAEF0GZlWwABjv0AAe8k7t7Jm0X5AAEAAcYAAj8uAAFXg0wYkzYwLh8E"
	stickerLaugh = "CAACAgIAAxkBAAEF0GhlWwABk4mAAQAB3hZAAcWcAAEAAcYAAk0AAyJ6y1Zs8hE"
	gifLaugh     = "https://media.giphy.com/media/10JhviFuU2gWD6/giphy.gif"

	apologyBusy  = "⚠️ Hozircha AI band, birozdan keyin urinib ko‘ring."
	apologyImage = "⚠️ Rasm tayyorlab bo‘lmadi, birozdan keyin urinib ko‘ring."

	identityAnswer = "🤖 *Men SvRvS_3003 tomonidan yaratilgan AI yordamchiman.*\n\n" +
		"• Birinchi marta: *2025-yilda ishga tushirilganman*\n" +
		"• Hozirgacha: *doimiy takomillashtirib kelinmoqda*\n" +
		"• Telegram uchun maxsus sozlanganman\n"

	startText = "🤖 *SR AI Bot*\n\n" +
		"Men quyidagilarni qila olaman:\n" +
		"• Oddiy suhbat\n" +
		"• Ovozli xabarlarni tushunish\n" +
		"• Matndan rasm chizish\n" +
		"• Kulgi uchun GIF va stiker\n" +
		"• Suhbatni eslab qolish\n\n" +
		"_2025-yildan beri rivojlantirilmoqda_"
)

func (b *Bot) handleText(ctx context.Context, message *tgbotapi.Message, text string) {
	user := displayName(message.From)
	uid := message.From.ID
	chatID := message.Chat.ID

	label := intent.Classify(text)

	switch label {
	case intent.IdentityQuestion:
		msg := tgbotapi.NewMessage(chatID, identityAnswer)
		msg.ParseMode = tgbotapi.ModeMarkdown
		b.send(msg)
		b.events.Record(user, uid, label.String(), "ok", text)

	case intent.StickerRequest:
		b.send(tgbotapi.NewSticker(chatID, tgbotapi.FileID(stickerOK)))
		b.events.Record(user, uid, label.String(), "ok", text)

	case intent.FunReaction:
		b.send(tgbotapi.NewAnimation(chatID, tgbotapi.FileURL(gifLaugh)))
		b.send(tgbotapi.NewSticker(chatID, tgbotapi.FileID(stickerLaugh)))
		b.events.Record(user, uid, label.String(), "ok", text)

	case intent.ImageRequest:
		// Image requests go straight to the image API; the conversation
		// session is not touched.
		b.sendAction(chatID, tgbotapi.ChatUploadPhoto)
		url, err := b.bridge.GenerateImage(ctx, text)
		if err != nil {
			b.logger.Error("image generation failed", "user_id", uid, "error", err)
			b.events.Record(user, uid, label.String(), "fail", text)
			b.sendText(chatID, message.MessageID, apologyImage, false)
			return
		}
		photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileURL(url))
		photo.ReplyToMessageID = message.MessageID
		b.send(photo)
		b.events.Record(user, uid, label.String(), "ok", text)

	default:
		b.sendAction(chatID, tgbotapi.ChatTyping)
		replyText, err := b.gen.Generate(ctx, uid, text)
		if err != nil {
			var f *reply.Failure
			if errors.As(err, &f) {
				b.logger.Error("completion failed", "user_id", uid, "kind", f.Kind.String(), "error", f.Err)
			} else {
				b.logger.Error("completion failed", "user_id", uid, "error", err)
			}
			b.events.Record(user, uid, label.String(), "fail", text)
			b.sendText(chatID, message.MessageID, apologyBusy, false)
			return
		}
		b.sendText(chatID, message.MessageID, replyText, true)
		b.events.Record(user, uid, label.String(), "ok", text)
	}
}

func (b *Bot) handleVoice(ctx context.Context, message *tgbotapi.Message) {
	user := displayName(message.From)
	uid := message.From.ID
	chatID := message.Chat.ID

	fileURL, err := b.tg.GetFileDirectURL(message.Voice.FileID)
	if err != nil {
		b.logger.Error("failed to resolve voice file", "user_id", uid, "error", err)
		b.events.Record(user, uid, "voice", "fail", "file lookup")
		b.sendText(chatID, message.MessageID, apologyBusy, false)
		return
	}

	resp, err := b.httpClient.Get(fileURL)
	if err != nil {
		b.logger.Error("failed to download voice file", "user_id", uid, "error", err)
		b.events.Record(user, uid, "voice", "fail", "download")
		b.sendText(chatID, message.MessageID, apologyBusy, false)
		return
	}
	defer resp.Body.Close()

	text, err := b.bridge.TranscribeReader(ctx, resp.Body)
	if err != nil {
		b.logger.Error("transcription failed", "user_id", uid, "error", err)
		b.events.Record(user, uid, "voice", "fail", "transcription")
		b.sendText(chatID, message.MessageID, apologyBusy, false)
		return
	}

	b.events.Record(user, uid, "voice", "ok", text)
	// Transcribed voice takes the same route as typed text.
	b.handleText(ctx, message, text)
}

func (b *Bot) handleCommand(message *tgbotapi.Message) {
	user := displayName(message.From)
	uid := message.From.ID

	switch message.Command() {
	case "start":
		msg := tgbotapi.NewMessage(message.Chat.ID, startText)
		msg.ParseMode = tgbotapi.ModeMarkdown
		b.send(msg)
	case "help":
		b.handleHelpCommand(message)
	case "getinfo":
		b.handleGetInfoCommand(message)
	default:
		b.sendText(message.Chat.ID, 0, "Bunday buyruq yo‘q. /help ni ko‘ring.", false)
	}
	b.events.Record(user, uid, "command", "ok", message.Text)
}

func (b *Bot) handleHelpCommand(message *tgbotapi.Message) {
	helpText := "Mavjud buyruqlar:\n" +
		"/start - Bot haqida\n" +
		"/help - Buyruqlar ro‘yxati\n" +
		"/getinfo - Akkaunt ma’lumotlari\n\n" +
		"Shunchaki yozing yoki ovozli xabar yuboring — javob beraman.\n" +
		"\"rasm chizib ber\" desangiz rasm chizaman."
	b.sendText(message.Chat.ID, 0, helpText, false)
}

func (b *Bot) handleGetInfoCommand(message *tgbotapi.Message) {
	user := message.From
	info := "Akkaunt ma’lumotlari:\n" +
		"Ism: " + user.FirstName + "\n"

	if user.LastName != "" {
		info += "Familiya: " + user.LastName + "\n"
	}
	if user.UserName != "" {
		info += "Username: @" + user.UserName + "\n"
	}
	info += "ID: " + strconv.FormatInt(user.ID, 10) + "\n"
	info += "Xotiradagi xabarlar: " + strconv.Itoa(len(b.store.Recent(user.ID, 20)))

	b.sendText(message.Chat.ID, 0, info, false)
}

// sendText sends one text message, optionally as escaped Markdown. A
// Telegram entity-parse error falls back to plain text.
func (b *Bot) sendText(chatID int64, replyTo int, text string, markdown bool) {
	msg := tgbotapi.NewMessage(chatID, text)
	if replyTo != 0 {
		msg.ReplyToMessageID = replyTo
	}
	if markdown {
		msg.ParseMode = tgbotapi.ModeMarkdown
		msg.Text = escapeMarkdown(text)
	}

	_, err := b.tg.Send(msg)
	if err != nil && markdown && strings.Contains(err.Error(), "can't parse entities") {
		b.logger.Warn("markdown parse error, retrying without parse mode", "error", err)
		msg.ParseMode = ""
		msg.Text = text
		_, err = b.tg.Send(msg)
	}
	if err != nil {
		b.logger.Error("error sending message", "chat_id", chatID, "error", err)
	}
}

func (b *Bot) send(msg tgbotapi.Chattable) {
	if _, err := b.tg.Send(msg); err != nil {
		b.logger.Error("error sending message", "error", err)
	}
}

func (b *Bot) sendAction(chatID int64, action string) {
	if _, err := b.tg.Request(tgbotapi.NewChatAction(chatID, action)); err != nil {
		b.logger.Debug("error sending chat action", "error", err)
	}
}

func displayName(user *tgbotapi.User) string {
	if user.FirstName != "" {
		return user.FirstName
	}
	if user.UserName != "" {
		return "@" + user.UserName
	}
	return fmt.Sprintf("User%d", user.ID)
}
