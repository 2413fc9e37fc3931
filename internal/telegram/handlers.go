package telegram

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"health-coach/internal/coach"
	"health-coach/internal/document"
	"health-coach/internal/quiz"
	"health-coach/internal/storage"
)

const welcomeText = "👋 Hi! I'm your Health and Wellness Coach.\n\n" +
	"Ask me about sleep, nutrition, exercise or stress, or send me a PDF, DOCX or TXT document to review.\n\n" +
	"Commands:\n" +
	"/new - start a new chat\n" +
	"/save - save the current chat\n" +
	"/chats - list saved chats\n" +
	"/load N - continue saved chat N\n" +
	"/quiz - quiz on this conversation"

func (b *Bot) handleIncomingMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.IsCommand() {
		b.handleCommand(msg)
		return
	}
	if msg.Document != nil {
		b.handleDocument(ctx, msg)
		return
	}

	log.Printf("Incoming message from chat %d: %q", msg.Chat.ID, msg.Text)

	res, err := b.coach.Send(ctx, storage.ChannelTelegram, sessionKey(msg.Chat.ID), msg.Text)
	if coach.IsInputError(err) {
		b.sendMessage(msg.Chat.ID, "Please send a text message or a document.")
		return
	}
	if err != nil {
		log.Printf("❌ chat turn failed for chat %d: %v", msg.Chat.ID, err)
		b.sendMessage(msg.Chat.ID, "Sorry, something went wrong.")
		return
	}

	b.sendWithMarkup(msg.Chat.ID, formatReply(res), newChatKeyboard())
}

func (b *Bot) handleCommand(msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	key := sessionKey(chatID)

	switch msg.Command() {
	case "start":
		b.sendWithMarkup(chatID, welcomeText, newChatKeyboard())
	case "new":
		b.coach.NewChat(key)
		b.sendMessage(chatID, "🆕 Started a new chat.")
	case "save":
		title, err := b.coach.Save(key)
		if err != nil {
			b.sendMessage(chatID, "Nothing to save yet. Start a conversation first.")
			return
		}
		b.sendMessage(chatID, "💾 Chat saved! "+title)
	case "chats":
		b.sendSavedChats(chatID, key)
	case "load":
		n, err := strconv.Atoi(strings.TrimSpace(msg.CommandArguments()))
		if err != nil {
			b.sendMessage(chatID, "Usage: /load N, where N is the chat number from /chats.")
			return
		}
		b.loadChat(chatID, key, n-1)
	case "quiz":
		b.sendQuiz(chatID, key)
	default:
		b.sendMessage(chatID, "Unknown command. Send /start to see what I can do.")
	}
}

func (b *Bot) sendSavedChats(chatID int64, key string) {
	saved := b.coach.Snapshot(key).Saved
	if len(saved) == 0 {
		b.sendMessage(chatID, "No saved chats yet.")
		return
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	for i, c := range saved {
		label := fmt.Sprintf("Chat %d: %s", i+1, c.Title)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, loadPrefix+strconv.Itoa(i)),
		))
	}
	b.sendWithMarkup(chatID, "📚 Saved chats:", tgbotapi.NewInlineKeyboardMarkup(rows...))
}

func (b *Bot) loadChat(chatID int64, key string, index int) {
	if err := b.coach.Load(key, index); err != nil {
		b.sendMessage(chatID, "That saved chat does not exist.")
		return
	}
	saved := b.coach.Snapshot(key).Saved
	b.sendMessage(chatID, fmt.Sprintf("📂 Loaded Chat %d: %s", index+1, saved[index].Title))
}

func (b *Bot) sendQuiz(chatID int64, key string) {
	items := b.coach.Quiz(key)
	if len(items) == 0 {
		b.sendMessage(chatID, "Chat with me first to get quiz questions.")
		return
	}
	for i, it := range items {
		var row []tgbotapi.InlineKeyboardButton
		for _, opt := range it.Options {
			row = append(row, tgbotapi.NewInlineKeyboardButtonData(opt, fmt.Sprintf("%s%d:%s", quizPrefix, i, opt)))
		}
		b.sendWithMarkup(chatID, fmt.Sprintf("📝 %d. %s", i+1, it.Question), tgbotapi.NewInlineKeyboardMarkup(row))
	}
}

func (b *Bot) handleDocument(ctx context.Context, msg *tgbotapi.Message) {
	doc := msg.Document
	log.Printf("📄 Document from chat %d: %s (%s, %d bytes)", msg.Chat.ID, doc.FileName, doc.MimeType, doc.FileSize)

	up := coach.Upload{Name: doc.FileName, MimeType: doc.MimeType, Size: int64(doc.FileSize)}
	// Oversized files are rejected by the analyzer without being fetched.
	if up.Size <= document.MaxFileSize {
		data, err := b.files.Download(ctx, doc.FileID)
		if err != nil {
			log.Printf("❌ failed to download %s: %v", doc.FileName, err)
			b.sendMessage(msg.Chat.ID, "Sorry, I could not download that file.")
			return
		}
		up.Data = data
	}

	b.sendMessage(msg.Chat.ID, "🔍 Analyzing "+doc.FileName+"...")
	text, _ := b.coach.Analyze(ctx, storage.ChannelTelegram, sessionKey(msg.Chat.ID), up)
	b.sendMessage(msg.Chat.ID, text)
}

func (b *Bot) handleCallback(cb *tgbotapi.CallbackQuery) {
	if cb.Message == nil {
		return
	}
	chatID := cb.Message.Chat.ID
	key := sessionKey(chatID)

	switch {
	case cb.Data == newChatCmd:
		b.coach.NewChat(key)
		b.answerCallback(cb.ID, "")
		b.sendMessage(chatID, "🆕 Started a new chat.")
	case strings.HasPrefix(cb.Data, loadPrefix):
		index, err := strconv.Atoi(strings.TrimPrefix(cb.Data, loadPrefix))
		b.answerCallback(cb.ID, "")
		if err != nil {
			return
		}
		b.loadChat(chatID, key, index)
	case strings.HasPrefix(cb.Data, quizPrefix):
		b.answerCallback(cb.ID, b.checkAnswer(key, strings.TrimPrefix(cb.Data, quizPrefix)))
	}
}

// checkAnswer grades "index:option" against the quiz of the current
// conversation.
func (b *Bot) checkAnswer(key, data string) string {
	idxStr, answer, ok := strings.Cut(data, ":")
	if !ok {
		return ""
	}
	index, err := strconv.Atoi(idxStr)
	items := b.coach.Quiz(key)
	if err != nil || index < 0 || index >= len(items) {
		return "This question is no longer available."
	}
	if quiz.Score(items[index:index+1], []string{answer}) == 1 {
		return "✅ Correct!"
	}
	return "❌ Not quite. The answer is " + items[index].CorrectAnswer + "."
}

func (b *Bot) answerCallback(id, text string) {
	if _, err := b.s.Request(tgbotapi.NewCallback(id, text)); err != nil {
		log.Printf("failed to answer callback: %v", err)
	}
}

// formatReply renders the reply text followed by its resources.
func formatReply(res coach.TurnResult) string {
	var sb strings.Builder
	sb.WriteString(res.Reply)

	if r := res.Resources; r != nil {
		if len(r.Articles) > 0 {
			sb.WriteString("\n\n📰 Articles:")
			for _, a := range r.Articles {
				sb.WriteString("\n• " + a.Title + "\n  " + a.Link)
			}
		}
		if len(r.Videos) > 0 {
			sb.WriteString("\n\n🎬 Videos:")
			for _, v := range r.Videos {
				sb.WriteString("\n• " + v.Title + "\n  " + v.Link)
			}
		}
	}
	return sb.String()
}
