package bot

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/netzero-prep/netzero-quiz/internal/bank"
)

const defaultRoundSize = 10

// round is one practice run in a chat.
type round struct {
	questions []bank.Question
	cursor    int
	correct   int
}

// chatPrefs keeps the per-chat subject filter and running totals.
type chatPrefs struct {
	subject  bank.Subject
	answered int
	correct  int
}

// Bot runs practice rounds over Telegram. State is per-chat and
// in-memory; updates arrive on a single goroutine so no locking is
// needed.
type Bot struct {
	api    *tgbotapi.BotAPI
	holder *bank.Holder
	rounds map[int64]*round
	prefs  map[int64]*chatPrefs
}

func New(token string, holder *bank.Holder) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	return &Bot{
		api:    api,
		holder: holder,
		rounds: make(map[int64]*round),
		prefs:  make(map[int64]*chatPrefs),
	}, nil
}

func (b *Bot) Start() {
	log.Printf("authorised on account: %s", b.api.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	for update := range updates {
		if update.Message != nil {
			b.handleCommand(update.Message)
		}
		if update.CallbackQuery != nil {
			b.handleCallback(update.CallbackQuery)
		}
	}
}

func (b *Bot) handleCommand(msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	switch msg.Command() {
	case "start":
		b.send(chatID, "淨零碳排放認證練習機器人。\n/quiz [題數] 開始練習\n/subject c1|c2|all 選擇科目\n/score 查看累計成績")
	case "quiz":
		n := defaultRoundSize
		if arg := strings.TrimSpace(msg.CommandArguments()); arg != "" {
			if v, err := strconv.Atoi(arg); err == nil && v > 0 {
				n = v
			}
		}
		b.startRound(chatID, n)
	case "subject":
		b.setSubject(chatID, strings.TrimSpace(msg.CommandArguments()))
	case "score":
		b.showScore(chatID)
	default:
		b.send(chatID, "未知指令，輸入 /start 查看說明")
	}
}

func (b *Bot) handleCallback(cb *tgbotapi.CallbackQuery) {
	chatID := cb.Message.Chat.ID

	ack := tgbotapi.NewCallback(cb.ID, "")
	if _, err := b.api.Request(ack); err != nil {
		log.Printf("answer callback: %v", err)
	}

	data := cb.Data
	switch {
	case strings.HasPrefix(data, "ans_"):
		b.handleAnswer(chatID, data)
	case data == "quit":
		b.finishRound(chatID)
	}
}

func (b *Bot) prefsFor(chatID int64) *chatPrefs {
	p, ok := b.prefs[chatID]
	if !ok {
		p = &chatPrefs{}
		b.prefs[chatID] = p
	}
	return p
}

func (b *Bot) setSubject(chatID int64, arg string) {
	p := b.prefsFor(chatID)
	switch arg {
	case "c1", "c2":
		p.subject = bank.Subject(arg)
		b.send(chatID, "已切換到 "+p.subject.Name())
	case "all", "":
		p.subject = ""
		b.send(chatID, "已切換到全部科目")
	default:
		b.send(chatID, "用法：/subject c1|c2|all")
	}
}

func (b *Bot) startRound(chatID int64, n int) {
	p := b.prefsFor(chatID)
	qs := b.holder.Get().Sample(n, p.subject)
	if len(qs) == 0 {
		b.send(chatID, "題庫沒有符合的題目")
		return
	}
	b.rounds[chatID] = &round{questions: qs}
	b.sendQuestion(chatID)
}

func (b *Bot) sendQuestion(chatID int64) {
	rd, ok := b.rounds[chatID]
	if !ok || rd.cursor >= len(rd.questions) {
		return
	}
	q := rd.questions[rd.cursor]

	var sb strings.Builder
	fmt.Fprintf(&sb, "❓ 第 %d/%d 題（%s）\n\n%s\n\n", rd.cursor+1, len(rd.questions), q.Subject.Name(), q.Stem)
	for _, o := range q.Options {
		fmt.Fprintf(&sb, "(%s) %s\n", o.Label, o.Text)
	}

	msg := tgbotapi.NewMessage(chatID, sb.String())

	var row []tgbotapi.InlineKeyboardButton
	for _, o := range q.Options {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(o.Label,
			fmt.Sprintf("ans_%d_%s", rd.cursor, o.Label)))
	}
	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		row,
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("結束練習", "quit"),
		),
	)
	msg.ReplyMarkup = keyboard

	if _, err := b.api.Send(msg); err != nil {
		log.Printf("send question: %v", err)
	}
}

func (b *Bot) handleAnswer(chatID int64, data string) {
	parts := strings.Split(data, "_")
	if len(parts) != 3 {
		return
	}
	idx, _ := strconv.Atoi(parts[1])
	selected := parts[2]

	rd, ok := b.rounds[chatID]
	if !ok || idx != rd.cursor || idx >= len(rd.questions) {
		return
	}
	q := rd.questions[idx]

	p := b.prefsFor(chatID)
	p.answered++

	var text string
	if selected == q.Answer {
		rd.correct++
		p.correct++
		text = "✅ 答對了！"
	} else {
		text = fmt.Sprintf("❌ 答錯了，正確答案是 (%s)", q.Answer)
	}
	if q.Explanation != "" {
		text += "\n\n💡 " + q.Explanation
	}
	b.send(chatID, text)

	rd.cursor++
	if rd.cursor < len(rd.questions) {
		b.sendQuestion(chatID)
	} else {
		b.finishRound(chatID)
	}
}

func (b *Bot) finishRound(chatID int64) {
	rd, ok := b.rounds[chatID]
	if !ok {
		return
	}
	delete(b.rounds, chatID)

	done := rd.cursor
	if done == 0 {
		b.send(chatID, "練習已結束")
		return
	}
	pct := rd.correct * 100 / done
	b.send(chatID, fmt.Sprintf("🏁 本輪結束：%d/%d 答對（%d%%）\n再來一輪：/quiz", rd.correct, done, pct))
}

func (b *Bot) showScore(chatID int64) {
	p := b.prefsFor(chatID)
	if p.answered == 0 {
		b.send(chatID, "還沒有作答紀錄，輸入 /quiz 開始練習")
		return
	}
	pct := p.correct * 100 / p.answered
	b.send(chatID, fmt.Sprintf("📊 累計：%d/%d 答對（%d%%）", p.correct, p.answered, pct))
}

func (b *Bot) send(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("send message: %v", err)
	}
}
