package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"road-vision/internal/container"
	"road-vision/internal/domain/entity"
	"road-vision/internal/domain/port"
	"road-vision/internal/infrastructure/stream"
	"road-vision/internal/logger"
)

const (
	msgStart = `👋 Привет! Я бот для анализа состояния дорожного покрытия.

🎞 Пришлите JSON-файл с детекциями по кадрам видео, и я соберу отчёт: выбоины, их серьёзность, состояние дороги и приоритет ремонта.
📸 Или пришлите фото дороги для разовой проверки.

📋 Команды:
/analyze — анализ потока детекций
/photo — проверка фото
/last — последний отчёт
/help — справка
/cancel — отменить текущую операцию`

	msgHelp = `ℹ️ Как пользоваться ботом:

1️⃣ /analyze и JSON-файл с кадрами: {"fps", "total_frames", "frames": [{"frame_number", "frame_quality", "detections", "texts"}]}
2️⃣ Бот отслеживает дефекты между кадрами и оценивает их серьёзность
3️⃣ Вы получите сводку и полный отчёт report.json

📸 /photo и снимок дороги — проверка одного кадра с подсветкой дефектов.

💡 Рекомендации:
• Номера кадров должны строго возрастать
• Снимайте при хорошем освещении`

	msgAwaitingStream  = "🎞 Отправьте JSON-файл с детекциями по кадрам."
	msgAwaitingPhoto   = "📸 Отправьте фото дороги для проверки."
	msgCancelled       = "❌ Операция отменена. Отправьте /analyze или /photo."
	msgSendInput       = "📎 Пришлите JSON-файл с детекциями или фото дороги. /help — справка."
	msgUnknownCommand  = "❓ Неизвестная команда. Используйте /help для справки."
	msgBusy            = "⏳ Предыдущий файл ещё обрабатывается, подождите."
	msgProcessing      = "⏳ Обрабатываю..."
	msgNoReports       = "📭 Отчётов пока нет. Отправьте /analyze."
	msgNotJSON         = "⚠️ Нужен файл .json с потоком детекций."
	msgInvalidStream   = "⚠️ Файл не похож на поток детекций: %v"
	msgOutOfOrder      = "⚠️ Номера кадров идут не по возрастанию, анализ остановлен. Исправьте файл и пришлите снова."
	msgProcessingError = "⚠️ Не удалось обработать данные. Попробуйте ещё раз."
	msgPhotoError      = "⚠️ Не удалось проверить фото. Попробуйте сделать другой снимок."

	// Telegram не отдаёт ботам файлы больше 20 МБ
	maxDocumentSize = 20 << 20
)

// Bot представляет Telegram-бота
type Bot struct {
	api    *tgbotapi.BotAPI
	app    *container.Container
	log    *logger.Logger
	client *http.Client
}

// NewBot создаёт нового бота
func NewBot(token string, app *container.Container, log *logger.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}

	log.Info("authorized on account", "username", api.Self.UserName)

	return &Bot{
		api:    api,
		app:    app,
		log:    log,
		client: &http.Client{Timeout: 60 * time.Second},
	}, nil
}

// Run запускает основной цикл обработки сообщений до отмены контекста
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

// handleMessage обрабатывает входящее сообщение
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	user, err := b.app.UserService.Get(ctx, msg.From.ID, msg.Chat.ID)
	if err != nil {
		b.log.Error("get user", "error", err, "user_id", msg.From.ID)
		return
	}

	if msg.IsCommand() {
		b.handleCommand(ctx, msg, user)
		return
	}

	if user.Busy() {
		b.sendMessage(msg.Chat.ID, msgBusy)
		return
	}

	switch {
	case msg.Document != nil:
		b.handleDocument(ctx, msg, user)
	case len(msg.Photo) > 0:
		b.handlePhoto(ctx, msg, user)
	default:
		b.sendMessage(msg.Chat.ID, msgSendInput)
	}
}

// handleCommand обрабатывает команды бота
func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message, user *entity.User) {
	var err error

	switch msg.Command() {
	case "start":
		_, err = b.app.UserService.Cancel(ctx, user.ID, user.ChatID)
		b.sendMessage(msg.Chat.ID, msgStart)

	case "help":
		b.sendMessage(msg.Chat.ID, msgHelp)

	case "analyze":
		_, err = b.app.UserService.BeginAnalysis(ctx, user.ID, user.ChatID)
		b.sendMessage(msg.Chat.ID, msgAwaitingStream)

	case "photo":
		_, err = b.app.UserService.BeginPhoto(ctx, user.ID, user.ChatID)
		b.sendMessage(msg.Chat.ID, msgAwaitingPhoto)

	case "last":
		b.handleLast(ctx, msg)

	case "cancel":
		_, err = b.app.UserService.Cancel(ctx, user.ID, user.ChatID)
		b.sendMessage(msg.Chat.ID, msgCancelled)

	default:
		b.sendMessage(msg.Chat.ID, msgUnknownCommand)
	}

	if err != nil {
		b.log.Error("update user state", "error", err, "user_id", user.ID, "command", msg.Command())
	}
}

// handleDocument запускает анализ присланного потока детекций
func (b *Bot) handleDocument(ctx context.Context, msg *tgbotapi.Message, user *entity.User) {
	doc := msg.Document
	if !strings.HasSuffix(strings.ToLower(doc.FileName), ".json") {
		b.sendMessage(msg.Chat.ID, msgNotJSON)
		return
	}

	b.markProcessing(ctx, user)
	defer b.resetState(ctx, user)
	b.sendMessage(msg.Chat.ID, msgProcessing)

	data, err := b.downloadFile(ctx, doc.FileID)
	if err != nil {
		b.log.Error("download document", "error", err, "file", doc.FileName)
		b.sendMessage(msg.Chat.ID, msgProcessingError)
		return
	}

	src, err := stream.Open(bytes.NewReader(data))
	if err != nil {
		b.log.Warn("invalid stream", "error", err, "file", doc.FileName, "user_id", user.ID)
		b.sendMessage(msg.Chat.ID, fmt.Sprintf(msgInvalidStream, err))
		return
	}

	stored, err := b.app.AnalysisService.AnalyzeStream(ctx, user.ID, doc.FileName, src)
	switch {
	case errors.Is(err, entity.ErrOutOfOrderFrame):
		b.sendMessage(msg.Chat.ID, msgOutOfOrder)
		return
	case err != nil:
		b.log.Error("analyze stream", "error", err, "file", doc.FileName, "user_id", user.ID)
		b.sendMessage(msg.Chat.ID, msgProcessingError)
		return
	}

	b.sendReport(msg.Chat.ID, stored)
}

// handlePhoto проверяет фото дороги
func (b *Bot) handlePhoto(ctx context.Context, msg *tgbotapi.Message, user *entity.User) {
	b.markProcessing(ctx, user)
	defer b.resetState(ctx, user)
	b.sendMessage(msg.Chat.ID, msgProcessing)

	// Получаем файл с максимальным разрешением
	photo := msg.Photo[len(msg.Photo)-1]

	data, err := b.downloadFile(ctx, photo.FileID)
	if err != nil {
		b.log.Error("download photo", "error", err)
		b.sendMessage(msg.Chat.ID, msgPhotoError)
		return
	}

	out, err := b.app.InspectionService.InspectPhoto(ctx, data)
	if err != nil {
		b.log.Warn("inspect photo", "error", err, "user_id", user.ID)
		b.sendMessage(msg.Chat.ID, msgPhotoError)
		return
	}

	text := formatRoadReport(out.Report, out.Quality)
	if len(out.Highlighted) == 0 {
		b.sendMessage(msg.Chat.ID, text)
		return
	}

	p := tgbotapi.NewPhoto(msg.Chat.ID, tgbotapi.FileBytes{Name: "defects.jpg", Bytes: out.Highlighted})
	p.Caption = text
	if _, err := b.api.Send(p); err != nil {
		b.log.Error("send photo", "error", err)
		b.sendMessage(msg.Chat.ID, text)
	}
}

func (b *Bot) handleLast(ctx context.Context, msg *tgbotapi.Message) {
	stored, err := b.app.AnalysisService.LastReport(ctx, msg.From.ID)
	switch {
	case errors.Is(err, port.ErrReportNotFound):
		b.sendMessage(msg.Chat.ID, msgNoReports)
		return
	case err != nil:
		b.log.Error("load last report", "error", err, "user_id", msg.From.ID)
		b.sendMessage(msg.Chat.ID, msgProcessingError)
		return
	}

	b.sendReport(msg.Chat.ID, stored)
}

// sendReport отправляет сводку и полный отчёт файлом
func (b *Bot) sendReport(chatID int64, stored *entity.StoredReport) {
	b.sendMessage(chatID, formatVideoReport(stored))

	data, err := json.MarshalIndent(stored.Report, "", "  ")
	if err != nil {
		b.log.Error("encode report", "error", err, "report_id", stored.ID)
		return
	}

	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: "report.json", Bytes: data})
	if _, err := b.api.Send(doc); err != nil {
		b.log.Error("send report document", "error", err, "report_id", stored.ID)
	}
}

func (b *Bot) markProcessing(ctx context.Context, user *entity.User) {
	if _, err := b.app.UserService.MarkProcessing(ctx, user.ID, user.ChatID); err != nil {
		b.log.Error("mark processing", "error", err, "user_id", user.ID)
	}
}

func (b *Bot) resetState(ctx context.Context, user *entity.User) {
	if _, err := b.app.UserService.Cancel(ctx, user.ID, user.ChatID); err != nil {
		b.log.Error("reset user state", "error", err, "user_id", user.ID)
	}
}

// downloadFile скачивает файл из Telegram
func (b *Bot) downloadFile(ctx context.Context, fileID string) ([]byte, error) {
	file, err := b.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}
	if file.FileSize > maxDocumentSize {
		return nil, fmt.Errorf("file is too large: %d bytes", file.FileSize)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, file.Link(b.api.Token), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download file: status %s", resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize+1))
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	if len(data) > maxDocumentSize {
		return nil, fmt.Errorf("file is too large")
	}

	return data, nil
}

// sendMessage отправляет текстовое сообщение
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		b.log.Error("send message", "error", err, "chat_id", chatID)
	}
}
