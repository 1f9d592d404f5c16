package bot

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/festboard/internal/models"
	"github.com/shrimpsizemoose/festboard/internal/observability"
	"github.com/shrimpsizemoose/festboard/internal/store"
)

const (
	publicHelp = `Available commands:
/standings - Team totals and top scorers
/champions - Star and Pen of the Fest, overall and per category
/events <category> - Events open to a category, e.g. /events Beta
/help - Show this message`

	adminHelp = publicHelp + `

Admin commands:
/gate - Show whether registration is open
/gate open|close - Open or close registration for team leaders`
)

type commandHandler func(context.Context, *tgbotapi.Message) error

func (b *Bot) routePublicCommands(cmd string) (commandHandler, bool) {
	commands := map[string]commandHandler{
		"start":     b.handleStart,
		"help":      b.handleHelp,
		"standings": b.handleStandings,
		"champions": b.handleChampions,
		"events":    b.handleEvents,
	}
	handler, found := commands[cmd]
	return handler, found
}

func (b *Bot) routeAdminCommands(cmd string) (commandHandler, bool) {
	commands := map[string]commandHandler{
		"gate": b.handleGate,
	}
	handler, found := commands[cmd]
	return handler, found
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if !msg.IsCommand() {
		b.sendHelp(msg.Chat.ID)
		return
	}

	cmd := msg.Command()

	handler, ok := b.routePublicCommands(cmd)
	if !ok && b.isAdmin(msg) {
		handler, ok = b.routeAdminCommands(cmd)
	}
	if !ok {
		b.sendHelp(msg.Chat.ID)
		return
	}

	if err := handler(ctx, msg); err != nil {
		logger.Error.Printf("Command /%s error: %v", cmd, err)
		observability.CaptureErr(err)
		b.sendMessage(msg.Chat.ID, fmt.Sprintf("Error: %v", err))
	}
}

func (b *Bot) isAdmin(msg *tgbotapi.Message) bool {
	return msg.From != nil && b.admins[msg.From.ID]
}

// adminSession is the identity bot admins act under in the service.
func adminSession(msg *tgbotapi.Message) models.Session {
	return models.Session{Username: fmt.Sprintf("telegram:%d", msg.From.ID), Role: models.RoleAdmin}
}

func (b *Bot) handleHelp(_ context.Context, msg *tgbotapi.Message) error {
	text := publicHelp
	if b.isAdmin(msg) {
		text = adminHelp
	}
	return b.sendMessage(msg.Chat.ID, text)
}

func (b *Bot) sendHelp(chatID int64) error {
	return b.sendMessage(chatID, "Send /help for the list of commands.")
}

func (b *Bot) handleStart(_ context.Context, msg *tgbotapi.Message) error {
	text := "Hi! I report the arts fest scoreboard.\n\n"
	if b.isAdmin(msg) {
		text += "You are a fest admin. Use /help to see the gate commands too."
	} else {
		text += "Use /standings to see how the teams are doing."
	}
	return b.sendMessage(msg.Chat.ID, text)
}

func (b *Bot) handleStandings(ctx context.Context, msg *tgbotapi.Message) error {
	standings, err := b.service.Dashboard(ctx)
	if err != nil {
		return fmt.Errorf("failed to compute standings: %w", err)
	}
	return b.sendMessage(msg.Chat.ID, formatStandings(standings, topStudents))
}

func (b *Bot) handleChampions(ctx context.Context, msg *tgbotapi.Message) error {
	standings, err := b.service.Dashboard(ctx)
	if err != nil {
		return fmt.Errorf("failed to compute standings: %w", err)
	}
	return b.sendMessage(msg.Chat.ID, formatChampions(standings))
}

func (b *Bot) handleEvents(ctx context.Context, msg *tgbotapi.Message) error {
	category, err := parseCategory(msg.CommandArguments())
	if err != nil {
		return err
	}
	events, err := b.service.ListEvents(ctx, store.EventFilter{}, category)
	if err != nil {
		return fmt.Errorf("failed to list events: %w", err)
	}
	return b.sendMessage(msg.Chat.ID, formatEvents(category, events))
}

func (b *Bot) handleGate(ctx context.Context, msg *tgbotapi.Message) error {
	arg := strings.TrimSpace(msg.CommandArguments())
	if arg == "" {
		settings, err := b.service.Settings(ctx)
		if err != nil {
			return err
		}
		return b.sendMessage(msg.Chat.ID, formatGate(settings.RegistrationOpen))
	}

	open, err := parseGate(arg)
	if err != nil {
		return err
	}
	settings, err := b.service.SetRegistrationGate(ctx, adminSession(msg), open)
	if err != nil {
		return err
	}
	return b.sendMessage(msg.Chat.ID, "✅ "+formatGate(settings.RegistrationOpen))
}

func (b *Bot) sendMessage(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	_, err := b.api.Send(msg)
	return err
}
