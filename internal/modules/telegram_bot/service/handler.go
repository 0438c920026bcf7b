package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	market "signal_bot/internal/modules/market/service"
	watchlist "signal_bot/internal/modules/watchlist/service"
	"signal_bot/internal/runner"
	"signal_bot/pkg/logger"
)

func (t *Telegram) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	if msg == nil || msg.Chat == nil {
		// callback, inline mode и т.п. игнорируем
		return
	}
	chatID := msg.Chat.ID

	if !msg.IsCommand() {
		// кнопки клавиатуры
		switch strings.TrimSpace(msg.Text) {
		case btnList:
			t.handleList(ctx, chatID)
		case btnStop:
			t.handleStop(ctx, chatID)
		case btnHelp:
			t.reply(ctx, chatID, helpText)
		}
		return
	}

	arg := strings.TrimSpace(msg.CommandArguments())
	logger.Info("[TG] chat=%d /%s %s", chatID, msg.Command(), arg)

	switch msg.Command() {
	case "start":
		t.handleStart(ctx, chatID)
	case "stop":
		t.handleStop(ctx, chatID)
	case "add":
		t.handleAdd(ctx, chatID, arg)
	case "remove":
		t.handleRemove(ctx, chatID, arg)
	case "list":
		t.handleList(ctx, chatID)
	case "price":
		t.handlePrice(ctx, chatID, arg)
	case "help":
		t.reply(ctx, chatID, helpText)
	default:
		t.reply(ctx, chatID, "Unknown command. Use /help to see what I can do.")
	}
}

func (t *Telegram) reply(ctx context.Context, chatID int64, text string) {
	if _, err := t.Send(ctx, chatID, text); err != nil {
		logger.Error("[TG] chat=%d send: %v", chatID, err)
	}
}

func (t *Telegram) handleStart(ctx context.Context, chatID int64) {
	// Главное меню
	replyKb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnList),
			tgbotapi.NewKeyboardButton(btnStop),
			tgbotapi.NewKeyboardButton(btnHelp),
		),
	)
	msg := tgbotapi.NewMessage(chatID, greetingText+helpText)
	msg.ReplyMarkup = replyKb
	if _, err := t.SendMessage(ctx, msg); err != nil {
		logger.Error("[TG] chat=%d greeting: %v", chatID, err)
	}

	err := t.manager.RunForChat(chatID, t) // t реализует TelegramNotifier
	switch {
	case err == nil:
		t.reply(ctx, chatID, "✅ Monitoring started. I'll check your watchlist every minute.")
	case errors.Is(err, runner.ErrAlreadyRunning):
		t.reply(ctx, chatID, "Monitoring is already running for this chat.")
	default:
		logger.Error("[TG] chat=%d RunForChat: %v", chatID, err)
		t.reply(ctx, chatID, "❌ Could not start monitoring: "+err.Error())
	}
}

func (t *Telegram) handleStop(ctx context.Context, chatID int64) {
	err := t.manager.StopForChat(chatID)
	switch {
	case err == nil:
		t.reply(ctx, chatID, "🛑 Monitoring stopped. Use /start to resume.")
	case errors.Is(err, runner.ErrNotRunning):
		t.reply(ctx, chatID, "Monitoring is not running. Use /start to begin.")
	default:
		logger.Error("[TG] chat=%d StopForChat: %v", chatID, err)
		t.reply(ctx, chatID, "⚠️ Could not stop monitoring: "+err.Error())
	}
}

func (t *Telegram) handleAdd(ctx context.Context, chatID int64, arg string) {
	coin := firstWord(arg)
	if coin == "" {
		t.reply(ctx, chatID, "Please provide a coin id (e.g., /add bitcoin).")
		return
	}

	res, err := t.wl.Add(ctx, coin)
	if err != nil {
		logger.Error("[TG] chat=%d add %s: %v", chatID, coin, err)
		t.reply(ctx, chatID, fmt.Sprintf("Could not add %s: %v", strings.ToUpper(coin), err))
		return
	}
	if res == watchlist.AlreadyPresent {
		t.reply(ctx, chatID, fmt.Sprintf("%s is already in your watchlist.", strings.ToUpper(coin)))
		return
	}
	t.reply(ctx, chatID, fmt.Sprintf("Added %s to your watchlist.", strings.ToUpper(coin)))
}

func (t *Telegram) handleRemove(ctx context.Context, chatID int64, arg string) {
	coin := firstWord(arg)
	if coin == "" {
		t.reply(ctx, chatID, "Please provide a coin id (e.g., /remove bitcoin).")
		return
	}

	res, err := t.wl.Remove(ctx, coin)
	if err != nil {
		logger.Error("[TG] chat=%d remove %s: %v", chatID, coin, err)
		t.reply(ctx, chatID, fmt.Sprintf("Could not remove %s: %v", strings.ToUpper(coin), err))
		return
	}
	if res == watchlist.NotPresent {
		t.reply(ctx, chatID, fmt.Sprintf("%s is not in your watchlist.", strings.ToUpper(coin)))
		return
	}
	t.reply(ctx, chatID, fmt.Sprintf("Removed %s from your watchlist.", strings.ToUpper(coin)))
}

func (t *Telegram) handleList(ctx context.Context, chatID int64) {
	assets := t.wl.List()
	if len(assets) == 0 {
		t.reply(ctx, chatID, "Your watchlist is empty. Use /add to add coins.")
		return
	}

	var b strings.Builder
	b.WriteString("Your watchlist:")
	for _, a := range assets {
		b.WriteString("\n")
		b.WriteString(strings.ToUpper(a))
	}
	t.reply(ctx, chatID, b.String())
}

func (t *Telegram) handlePrice(ctx context.Context, chatID int64, arg string) {
	coin := firstWord(arg)
	if coin == "" {
		t.reply(ctx, chatID, "Please provide a coin id (e.g., /price bitcoin).")
		return
	}
	name := strings.ToUpper(coin)

	price, err := t.prices.LivePrice(ctx, coin)
	switch {
	case err == nil:
		t.reply(ctx, chatID, fmt.Sprintf("Live price of %s is $%.2f %s.",
			name, price, strings.ToUpper(t.prices.VsCurrency())))
	case errors.Is(err, market.ErrUnknownAsset), errors.Is(err, market.ErrNoData):
		t.reply(ctx, chatID, fmt.Sprintf(
			"Could not fetch price for %s. Check the coin ID (e.g., use 'bitcoin' for BTC).", name))
	default:
		logger.Error("[TG] chat=%d price %s: %v", chatID, coin, err)
		t.reply(ctx, chatID, fmt.Sprintf("Error fetching price for %s: %v", name, err))
	}
}

func firstWord(s string) string {
	f := strings.Fields(s)
	if len(f) == 0 {
		return ""
	}
	return strings.ToLower(f[0])
}
