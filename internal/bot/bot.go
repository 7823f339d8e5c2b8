package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"roomboard/internal/events"
	"roomboard/internal/loader"
	"roomboard/internal/render"
	"roomboard/internal/timetable"
)

const requestDateLayout = "02.01.2006"

// Bot answers schedule queries in Telegram, the successor of the web page's
// "copy and share" action.
type Bot struct {
	api        *tgbotapi.BotAPI
	holder     *loader.SnapshotHolder
	aggregator *timetable.Aggregator
	dayNames   timetable.DayNames
	rooms      []string
	managers   []int64
	logger     *zerolog.Logger
}

// New creates the bot and verifies the token against the Telegram API.
func New(
	token string,
	debug bool,
	holder *loader.SnapshotHolder,
	aggregator *timetable.Aggregator,
	dayNames timetable.DayNames,
	rooms []string,
	managers []int64,
	logger *zerolog.Logger,
) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}
	api.Debug = debug

	return &Bot{
		api:        api,
		holder:     holder,
		aggregator: aggregator,
		dayNames:   dayNames,
		rooms:      rooms,
		managers:   managers,
		logger:     logger,
	}, nil
}

// SubscribeReloads notifies managers when the roster snapshot is reloaded.
func (b *Bot) SubscribeReloads(bus *events.Bus) {
	bus.Subscribe(events.TypeSnapshotLoaded, func(e events.Event) {
		text := fmt.Sprintf("Расписание обновлено: неделя %d, преподавателей %d, ошибок загрузки %d",
			e.Week, e.Teachers, e.Failures)
		for _, chatID := range b.managers {
			if _, err := b.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
				b.logger.Warn().Err(err).Int64("chat_id", chatID).Msg("manager notify failed")
			}
		}
	})
}

// Start processes updates until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := b.api.GetUpdatesChan(u)

	b.logger.Info().Str("username", b.api.Self.UserName).Msg("telegram bot started")

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case update := <-updates:
			if update.Message == nil {
				continue
			}
			b.handleMessage(update.Message)
		}
	}
}

func (b *Bot) handleMessage(msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start", "help":
		b.reply(msg.Chat.ID,
			"Расписание аудиторий.\n"+
				"/schedule — сетка на сегодня\n"+
				"/schedule 18.03.2024 — сетка на дату")
	case "schedule":
		b.handleSchedule(msg)
	default:
		if msg.IsCommand() {
			b.reply(msg.Chat.ID, "Неизвестная команда, смотрите /help")
		}
	}
}

func (b *Bot) handleSchedule(msg *tgbotapi.Message) {
	date := timetable.DateOnly(time.Now())
	if arg := strings.TrimSpace(msg.CommandArguments()); arg != "" {
		parsed, err := time.ParseInLocation(requestDateLayout, arg, time.Local)
		if err != nil {
			b.reply(msg.Chat.ID, "Дата не распознана, ожидается дд.мм.гггг")
			return
		}
		date = parsed
	}

	snap := b.holder.Get()
	if snap == nil {
		b.reply(msg.Chat.ID, "Данные расписания ещё не загружены, попробуйте позже")
		return
	}

	week, err := timetable.WeekNumber(snap.Week, snap.FetchedAt, date)
	if err != nil {
		b.reply(msg.Chat.ID, "Не удалось определить учебную неделю")
		return
	}

	grid := b.aggregator.BuildGrid(snap.Teachers, snap.Schedules, b.rooms, date, week)
	text := render.Text(grid, b.rooms, b.aggregator.Slots(), b.dayNames, date, week)
	b.reply(msg.Chat.ID, text)
}

func (b *Bot) reply(chatID int64, text string) {
	if _, err := b.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		b.logger.Warn().Err(err).Int64("chat_id", chatID).Msg("send failed")
	}
}
