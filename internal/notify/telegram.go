package notify

import (
	"context"
	"fmt"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// TelegramDispatcher delivers notifications to Telegram chats. Tokens for
// this transport store the chat id, normally as "telegram:<chat id>".
type TelegramDispatcher struct {
	bot *tgbotapi.BotAPI
	log zerolog.Logger
}

func NewTelegram(botToken string, log zerolog.Logger) (*TelegramDispatcher, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("init telegram bot: %w", err)
	}
	return &TelegramDispatcher{bot: bot, log: log}, nil
}

func (d *TelegramDispatcher) Send(ctx context.Context, tokens []string, n Notification) (Result, error) {
	if len(tokens) == 0 {
		return Result{}, nil
	}

	var res Result
	for _, token := range tokens {
		sr := SendResult{Token: token}
		if err := d.sendOne(ctx, token, n); err != nil {
			sr.Err = err
			res.Failure++
			d.log.Warn().Err(err).Str("token", token).Msg("telegram send failed")
		} else {
			res.Success++
		}
		res.Results = append(res.Results, sr)
	}
	return res, nil
}

func (d *TelegramDispatcher) sendOne(ctx context.Context, token string, n Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	chatID, err := strconv.ParseInt(BareToken(token), 10, 64)
	if err != nil {
		return fmt.Errorf("bad chat id in token: %w", err)
	}
	msg := tgbotapi.NewMessage(chatID, n.Title+"\n"+n.Body)
	if _, err := d.bot.Send(msg); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}
