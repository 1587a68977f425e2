package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"tablejack/internal/config"
	"tablejack/internal/game"
	"tablejack/internal/player"
	"tablejack/internal/table"
)

const houseName = "Дилер"

// Sender is the part of the Telegram API the handler talks to.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

type Handler struct {
	bot     Sender
	cfg     *config.Config
	players player.Repository
	tables  *table.Manager
	log     *log.Logger

	// newDeck builds the shoe for a new chat table.
	newDeck func() *game.Deck
}

func NewHandler(bot Sender, cfg *config.Config, repo player.Repository, logger *log.Logger) *Handler {
	if logger == nil {
		logger = log.Default()
	}
	return &Handler{
		bot:     bot,
		cfg:     cfg,
		players: repo,
		tables:  table.NewManager(),
		log:     logger,
		newDeck: func() *game.Deck { return game.NewDeck(cfg.DeckSeed) },
	}
}

// ============== ВСПОМОГАТЕЛЬНЫЕ МЕТОДЫ ==============

func (h *Handler) send(chatID int64, text string) {
	if _, err := h.bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		h.log.Error("failed to send message", "chat", chatID, "err", err)
	}
}

func (h *Handler) sendWithKeyboard(chatID int64, text string, kb tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = kb
	if _, err := h.bot.Send(msg); err != nil {
		h.log.Error("failed to send message", "chat", chatID, "err", err)
	}
}

func (h *Handler) answerCallback(id, text string) {
	if _, err := h.bot.Request(tgbotapi.NewCallback(id, text)); err != nil {
		h.log.Debug("failed to answer callback", "err", err)
	}
}

func profileID(chatID int64) string {
	return strconv.FormatInt(chatID, 10)
}

func displayName(u *tgbotapi.User) string {
	switch {
	case u == nil:
		return ""
	case u.UserName != "":
		return "@" + u.UserName
	}
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

func (h *Handler) getProfile(ctx context.Context, chatID int64, name string) (*player.Profile, error) {
	if name == "" {
		name = profileID(chatID)
	}
	return h.players.GetOrCreate(ctx, profileID(chatID), name, h.cfg.StartChips, h.cfg.DefaultBet)
}

func (h *Handler) saveProfile(ctx context.Context, p *player.Profile) {
	if err := h.players.Save(ctx, p); err != nil {
		h.log.Error("failed to save profile", "player", p.ID, "err", err)
	}
}

// chatTable returns the chat's table, seating the player against the house
// the first time.
func (h *Handler) chatTable(chatID int64, p *player.Profile) *table.Table {
	if t := h.tables.Get(chatID); t != nil {
		return t
	}

	t := table.New(
		game.NewParticipant(houseName, h.cfg.HouseChips),
		[]*game.Participant{game.NewParticipant(p.Name, p.Chips)},
		h.newDeck(),
		table.Options{
			MinBet: h.cfg.MinBet,
			MaxBet: h.cfg.MaxBet,
			Rules:  game.Rules{BlackjackPays: h.cfg.BlackjackPays, TiesPush: h.cfg.TiesPush},
		},
		h.log.With("chat", chatID),
	)
	h.tables.Set(chatID, t)
	return t
}

// canDouble also requires the player to cover the doubled stake.
func canDouble(t *table.Table) bool {
	_, s, ok := t.Current()
	return ok && t.CanDouble() && s.Player.Chips() >= 2*s.Bet
}

// ============== ФОРМАТИРОВАНИЕ ==============

func formatChips(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatCards(hand []game.Card) string {
	parts := make([]string, len(hand))
	for i, c := range hand {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}

func formatScore(s game.Score) string {
	switch {
	case s.IsBlackjack():
		return "BLACKJACK"
	case s.IsBust():
		return "перебор"
	}
	return s.String()
}

func formatGameStatus(t *table.Table) string {
	banker := t.Banker().Hand()
	dealerDisplay := "?"
	if len(banker) > 0 {
		dealerDisplay = fmt.Sprintf("%s ?", banker[0])
	}

	_, s, ok := t.Current()
	if !ok {
		return fmt.Sprintf("🃏 Дилер: %s", dealerDisplay)
	}
	return fmt.Sprintf("💰 Ставка: %s\n\n🎴 Вы: %s (%s)\n🃏 Дилер: %s",
		formatChips(s.Bet), formatCards(s.Player.Hand()), formatScore(s.Player.Score()), dealerDisplay)
}

func resultText(s table.SeatResult) string {
	switch {
	case s.Outcome == game.Busted:
		return "💥 Перебор!"
	case s.Net > 0 && s.Score.IsBlackjack():
		return "🎰 BLACKJACK! 🎰"
	case s.Net > 0:
		return "🎉 Вы выиграли!"
	case s.Net == 0:
		return "🤝 Ничья!"
	}
	return "😔 Дилер выиграл!"
}

func formatGameEnd(res *table.Result) string {
	s := res.Seats[0]

	var sb strings.Builder
	if s.Outcome == game.Doubled {
		sb.WriteString(fmt.Sprintf("💰 Удвоено: %s\n\n", formatChips(s.Bet)))
	}
	sb.WriteString(fmt.Sprintf("🎴 Вы: %s (%s)\n🃏 Дилер: %s (%s)\n\n%s",
		formatCards(s.Hand), formatScore(s.Score),
		formatCards(res.Banker.Hand), formatScore(res.Banker.Score),
		resultText(s)))

	switch {
	case s.Net > 0:
		sb.WriteString(fmt.Sprintf("\n💰 Выигрыш: +%s", formatChips(s.Net)))
	case s.Net < 0:
		sb.WriteString(fmt.Sprintf("\n💸 Проигрыш: %s", formatChips(s.Net)))
	}
	sb.WriteString(fmt.Sprintf("\n💵 Баланс: %s", formatChips(s.Chips)))

	return sb.String()
}

// ============== ОБРАБОТЧИКИ КОМАНД ==============

func (h *Handler) HandleStart(ctx context.Context, chatID int64, name string) {
	p, err := h.getProfile(ctx, chatID, name)
	if err != nil {
		h.log.Error("failed to load profile", "chat", chatID, "err", err)
		h.send(chatID, "❌ Ошибка. Попробуйте позже.")
		return
	}

	h.send(chatID, fmt.Sprintf(
		"🎰 Добро пожаловать в Blackjack!\n\n"+
			"💵 Баланс: %s\n\n"+
			"/play <ставка> — играть\n"+
			"/balance — статистика\n"+
			"/top — топ игроков\n"+
			"/help — правила",
		formatChips(p.Chips)))
}

func (h *Handler) HandleHelp(chatID int64) {
	tie := "🤝 Равный счёт — выигрывает дилер"
	if h.cfg.TiesPush {
		tie = "🤝 Равный счёт — ставка возвращается"
	}

	h.send(chatID,
		"📖 Правила Blackjack:\n\n"+
			"🎯 Цель: набрать 21 очко или больше дилера, не перебрав\n\n"+
			"📊 Очки:\n"+
			"• 2-10 — номинал\n"+
			"• J, Q, K — 10\n"+
			"• A — 11 или 1\n\n"+
			"🎮 Действия:\n"+
			"• Hit — взять карту\n"+
			"• Stand — остановиться\n"+
			"• Double — удвоить ставку и взять одну карту (только первый ход)\n\n"+
			fmt.Sprintf("🃏 Дилер берёт до %d\n", game.BankerStandsOn)+
			fmt.Sprintf("🎰 Blackjack платит x%s\n", formatChips(h.cfg.BlackjackPays))+
			tie)
}

func (h *Handler) HandleBalance(ctx context.Context, chatID int64, name string) {
	p, err := h.getProfile(ctx, chatID, name)
	if err != nil {
		h.log.Error("failed to load profile", "chat", chatID, "err", err)
		h.send(chatID, "❌ Ошибка")
		return
	}

	h.send(chatID, fmt.Sprintf(
		"💰 Баланс: %s\n\n"+
			"📊 Статистика:\n"+
			"🎮 Игр: %d\n"+
			"✅ Побед: %d (%.1f%%)\n"+
			"❌ Поражений: %d\n"+
			"🤝 Ничьих: %d",
		formatChips(p.Chips), p.Games, p.Wins, p.WinRate(), p.Losses, p.Pushes))
}

func (h *Handler) HandleTop(ctx context.Context, chatID int64) {
	stats, err := h.players.GetTopByChips(ctx, 10)
	if err != nil {
		h.log.Error("failed to load leaderboard", "err", err)
		h.send(chatID, "❌ Ошибка")
		return
	}

	if len(stats) == 0 {
		h.send(chatID, "🏆 Пока никто не играл!")
		return
	}

	var sb strings.Builder
	sb.WriteString("🏆 Топ игроков:\n\n")

	medals := []string{"🥇", "🥈", "🥉"}
	for i, s := range stats {
		medal := fmt.Sprintf("%d.", i+1)
		if i < 3 {
			medal = medals[i]
		}
		sb.WriteString(fmt.Sprintf("%s %s %s 💰 | %d игр (%.0f%%)\n",
			medal, s.Name, formatChips(s.Chips), s.Games, s.WinRate))
	}

	h.send(chatID, sb.String())
}

func (h *Handler) HandlePlay(ctx context.Context, chatID int64, name string, args []string) {
	unlock := h.tables.Lock(chatID)
	defer unlock()

	p, err := h.getProfile(ctx, chatID, name)
	if err != nil {
		h.log.Error("failed to load profile", "chat", chatID, "err", err)
		h.send(chatID, "❌ Ошибка")
		return
	}

	bet := h.cfg.DefaultBet
	if len(args) > 0 {
		b, err := strconv.ParseFloat(args[0], 64)
		if err != nil || b <= 0 {
			h.send(chatID, fmt.Sprintf("❌ Неверная ставка. Пример: /play %s", formatChips(h.cfg.DefaultBet)))
			return
		}
		bet = b
	}

	t := h.chatTable(chatID, p)
	if t.Phase() == table.PhasePlaying {
		h.send(chatID, "⏳ Игра уже идёт")
		return
	}

	if err := t.StartRound(); err != nil {
		h.log.Error("failed to start round", "chat", chatID, "err", err)
		h.send(chatID, "❌ Ошибка")
		return
	}

	if err := t.PlaceBet(0, bet); err != nil {
		switch {
		case errors.Is(err, game.ErrInvalidBet):
			h.send(chatID, fmt.Sprintf("❌ Ставка от %s до %s", formatChips(h.cfg.MinBet), formatChips(h.cfg.MaxBet)))
		case errors.Is(err, table.ErrInsufficientChips):
			h.send(chatID, fmt.Sprintf("❌ Недостаточно средств! Баланс: %s", formatChips(t.Seats()[0].Player.Chips())))
		default:
			h.log.Error("failed to place bet", "chat", chatID, "err", err)
			h.send(chatID, "❌ Ошибка")
		}
		return
	}

	p.LastBet = bet
	h.saveProfile(ctx, p)

	if err := t.Deal(); err != nil {
		h.roundFailed(chatID, err)
		return
	}
	h.continueRound(ctx, chatID, t, p)
}

// continueRound either asks for the next move or, once the round has
// settled, books it on the profile.
func (h *Handler) continueRound(ctx context.Context, chatID int64, t *table.Table, p *player.Profile) {
	if t.Phase() == table.PhasePlaying {
		h.sendWithKeyboard(chatID, formatGameStatus(t), GameKeyboard(canDouble(t)))
		return
	}

	res := t.Result()
	if res == nil {
		return
	}

	s := res.Seats[0]
	p.Chips = s.Chips
	p.Record(s.Net)
	h.saveProfile(ctx, p)

	h.log.Info("round booked", "chat", chatID, "round", res.Round, "net", s.Net, "chips", s.Chips)
	h.sendWithKeyboard(chatID, formatGameEnd(res), EndGameKeyboard(p.LastBet))
}

func (h *Handler) roundFailed(chatID int64, err error) {
	if errors.Is(err, game.ErrDeckExhausted) {
		h.send(chatID, "⚠️ Колода закончилась, раунд отменён. Ставки возвращены.")
		return
	}
	h.log.Error("round failed", "chat", chatID, "err", err)
	h.send(chatID, "❌ Ошибка")
}

// ============== ОБРАБОТЧИКИ CALLBACK ==============

func (h *Handler) HandleCallback(ctx context.Context, callback *tgbotapi.CallbackQuery) {
	if callback.Message == nil {
		h.answerCallback(callback.ID, "")
		return
	}
	chatID := callback.Message.Chat.ID
	name := displayName(callback.From)

	switch callback.Data {
	case CallbackPlayAgain:
		h.answerCallback(callback.ID, "")
		p, err := h.getProfile(ctx, chatID, name)
		if err != nil {
			h.send(chatID, "❌ Ошибка")
			return
		}
		h.HandlePlay(ctx, chatID, name, []string{formatChips(p.LastBet)})
		return

	case CallbackBalance:
		p, err := h.getProfile(ctx, chatID, name)
		if err != nil {
			h.answerCallback(callback.ID, "Ошибка")
			return
		}
		h.answerCallback(callback.ID, fmt.Sprintf("💵 %s", formatChips(p.Chips)))
		return
	}

	choice, ok := choiceOf(callback.Data)
	if !ok {
		h.answerCallback(callback.ID, "")
		return
	}

	unlock := h.tables.Lock(chatID)
	defer unlock()

	t := h.tables.Get(chatID)
	if t == nil || t.Phase() != table.PhasePlaying {
		h.answerCallback(callback.ID, "Игра не активна")
		return
	}

	if choice == game.Double && !canDouble(t) {
		h.answerCallback(callback.ID, "Удвоение недоступно")
		return
	}

	p, err := h.getProfile(ctx, chatID, name)
	if err != nil {
		h.answerCallback(callback.ID, "Ошибка")
		return
	}

	if err := t.Act(choice); err != nil {
		if errors.Is(err, game.ErrInvalidTransition) {
			h.answerCallback(callback.ID, "Ход недоступен")
			return
		}
		h.answerCallback(callback.ID, "")
		h.roundFailed(chatID, err)
		return
	}

	h.answerCallback(callback.ID, "")
	h.continueRound(ctx, chatID, t, p)
}

// ============== ОБРАБОТЧИК СООБЩЕНИЙ ==============

func (h *Handler) HandleMessage(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	name := displayName(msg.From)
	parts := strings.Fields(msg.Text)

	if len(parts) == 0 {
		return
	}

	cmd, _, _ := strings.Cut(strings.ToLower(parts[0]), "@")
	args := parts[1:]

	switch cmd {
	case "/start":
		h.HandleStart(ctx, chatID, name)
	case "/help":
		h.HandleHelp(chatID)
	case "/play":
		h.HandlePlay(ctx, chatID, name, args)
	case "/balance":
		h.HandleBalance(ctx, chatID, name)
	case "/top":
		h.HandleTop(ctx, chatID)
	}
}
