package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/SebaxtriUTP/colombia-explora/internal/client"
	"github.com/SebaxtriUTP/colombia-explora/internal/config"
	"github.com/SebaxtriUTP/colombia-explora/internal/handler"
	"github.com/SebaxtriUTP/colombia-explora/internal/repository"
	"github.com/SebaxtriUTP/colombia-explora/internal/service"
	"github.com/SebaxtriUTP/colombia-explora/internal/session"

	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL драйвер
)

// Диалог входа: сначала имя пользователя, затем пароль.
type loginDialog struct {
	stage    int // 0 - ждем имя, 1 - ждем пароль
	username string
}

// Диалог регистрации: имя, почта, пароль.
type registerDialog struct {
	stage    int // 0 - имя, 1 - почта, 2 - пароль
	username string
	email    string
}

func main() {
	cfg := config.Load()

	// Подключение к базе данных сессий
	db, err := sqlx.Connect("postgres", cfg.DSN())
	if err != nil {
		log.Fatalf("Не удалось подключиться к базе данных: %v", err)
	}
	// Выполняем миграции (если есть)
	files, err := filepath.Glob("migrations/*.sql")
	if err == nil {
		for _, file := range files {
			content, readErr := os.ReadFile(file)
			if readErr != nil {
				log.Printf("Миграция %s не прочитана: %v", file, readErr)
				continue
			}
			if _, execErr := db.Exec(string(content)); execErr != nil {
				log.Printf("Миграция %s завершилась ошибкой: %v", file, execErr)
			} else {
				log.Printf("Миграция %s применена.", file)
			}
		}
	}

	// Клиенты внешних сервисов и хранилище сессий
	api := client.New(cfg.APIURL, cfg.AuthURL)
	authClient := client.NewAuthClient(api)
	destClient := client.NewDestinationClient(api)
	resClient := client.NewReservationClient(api)

	sessions := session.NewStore(repository.NewSessionRepository(db))
	authService := service.NewAuthService(authClient, sessions)
	reserveService := service.NewReserveService(destClient, resClient)
	adminService := service.NewAdminService(destClient)
	guard := service.NewRouteGuard(sessions)

	// Служебный HTTP-интерфейс (health-check и сквозное чтение каталога)
	router := gin.Default()
	h := handler.NewHandler(destClient)
	router.GET("/health", h.Health)
	router.GET("/destinations", h.ListDestinations)
	go func() {
		if err := router.Run(cfg.OpsAddr); err != nil {
			log.Printf("Служебный HTTP-интерфейс остановлен: %v", err)
		}
	}()

	// Инициализация Telegram Bot API
	if cfg.BotToken == "" {
		log.Fatal("Не указан токен бота (BOT_TOKEN)")
	}
	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		log.Fatal("Ошибка инициализации бота:", err)
	}
	log.Printf("Запущен бот %s", bot.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := bot.GetUpdatesChan(u)

	// Состояние диалогов по чатам
	pendingLogin := make(map[int64]*loginDialog)
	pendingRegister := make(map[int64]*registerDialog)
	reserveFlows := make(map[int64]*service.ReserveFlow)
	reserveStep := make(map[int64]string) // поле, ожидающее ввода
	adminFlows := make(map[int64]*service.AdminFlow)
	adminStep := make(map[int64]string) // "create" или "edit"

	// Уход с экрана сбрасывает все переходные состояния чата
	resetDialogs := func(chatID int64) {
		delete(pendingLogin, chatID)
		delete(pendingRegister, chatID)
		delete(reserveFlows, chatID)
		delete(reserveStep, chatID)
		delete(adminFlows, chatID)
		delete(adminStep, chatID)
	}

	// Отказ охранника маршрутов: перенаправляем на экран входа,
	// исходная цель перехода не запоминается
	redirectToLogin := func(chatID int64) {
		resetDialogs(chatID)
		pendingLogin[chatID] = &loginDialog{}
		bot.Send(tgbotapi.NewMessage(chatID, "Debes iniciar sesión para continuar.\nIngresa tu usuario:"))
	}

	token := func(chatID int64) string {
		tok, _ := sessions.Token(chatID)
		return tok
	}

	for update := range updates {
		// --- CallbackQuery (inline buttons) ---
		if cq := update.CallbackQuery; cq != nil {
			bot.Request(tgbotapi.NewCallback(cq.ID, ""))

			chatID := cq.From.ID
			data := cq.Data

			switch {
			// Начать оформление брони
			case strings.HasPrefix(data, "RESERVE_"):
				if !guard.CanEnter(service.RouteReserve, chatID) {
					redirectToLogin(chatID)
					continue
				}
				destID, _ := strconv.Atoi(strings.TrimPrefix(data, "RESERVE_"))
				flow := reserveService.StartFlow(token(chatID), destID)
				if flow.State() == service.StateNotFound {
					if flow.Error != "" {
						bot.Send(tgbotapi.NewMessage(chatID, flow.Error))
					} else {
						bot.Send(tgbotapi.NewMessage(chatID, "Destino no encontrado"))
					}
					continue
				}
				if flow.Destination().Price == nil {
					bot.Send(tgbotapi.NewMessage(chatID, "Este destino no tiene precio configurado."))
					continue
				}
				reserveFlows[chatID] = flow
				reserveStep[chatID] = "people"
				dest := flow.Destination()
				text := fmt.Sprintf("🏔 %s\n%s\n💵 $%.2f / persona / día\n\nNúmero de personas (1-20):",
					dest.Name, dest.Description, *dest.Price)
				bot.Send(tgbotapi.NewMessage(chatID, text))

			// Подтвердить отправку брони
			case data == "RESERVE_OK":
				flow, ok := reserveFlows[chatID]
				if !ok {
					continue
				}
				res, err := reserveService.Submit(flow, token(chatID))
				if err != nil {
					// Остаемся в режиме редактирования для повтора
					bot.Send(tgbotapi.NewMessage(chatID, flow.Error))
					sendQuote(bot, chatID, reserveService, flow)
					continue
				}
				delete(reserveFlows, chatID)
				delete(reserveStep, chatID)
				bot.Send(tgbotapi.NewMessage(chatID, fmt.Sprintf("✅ Reserva confirmada. Total: $%.2f", res.TotalPrice)))
				sendReservations(bot, chatID, resClient, token(chatID))

			case data == "RESERVE_CANCEL":
				delete(reserveFlows, chatID)
				delete(reserveStep, chatID)
				bot.Send(tgbotapi.NewMessage(chatID, "Reserva cancelada."))

			// Экран администратора: открыть правку
			case strings.HasPrefix(data, "EDIT_"):
				flow, ok := adminFlows[chatID]
				if !ok {
					continue
				}
				destID, _ := strconv.Atoi(strings.TrimPrefix(data, "EDIT_"))
				for _, d := range flow.Destinations {
					if d.ID == destID {
						flow.StartEdit(d)
						break
					}
				}
				if form := flow.EditForm(); form != nil {
					adminStep[chatID] = "edit"
					text := fmt.Sprintf(
						"Editando: %s | %s | %.2f | %s\n\nEnvía los nuevos valores:\nnombre; región; precio; descripción\n(deja un campo vacío para conservarlo)",
						form.Name, form.Region, form.Price, form.Description)
					bot.Send(tgbotapi.NewMessage(chatID, text))
				}

			// Экран администратора: запросить подтверждение удаления
			case strings.HasPrefix(data, "DEL_"):
				flow, ok := adminFlows[chatID]
				if !ok {
					continue
				}
				destID, _ := strconv.Atoi(strings.TrimPrefix(data, "DEL_"))
				for _, d := range flow.Destinations {
					if d.ID == destID {
						flow.ConfirmDelete(d)
						break
					}
				}
				if target, ok := flow.DeleteTarget(); ok {
					text := fmt.Sprintf("¿Estás seguro de que deseas eliminar el destino %s?\nEsta acción no se puede deshacer.", target.Name)
					msg := tgbotapi.NewMessage(chatID, text)
					msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(
						tgbotapi.NewInlineKeyboardButtonData("🗑 Eliminar", "DEL_OK"),
						tgbotapi.NewInlineKeyboardButtonData("Cancelar", "DEL_CANCEL"),
					))
					bot.Send(msg)
				}

			// Подтвержденное удаление (второе явное действие)
			case data == "DEL_OK":
				flow, ok := adminFlows[chatID]
				if !ok {
					continue
				}
				adminService.ExecuteDelete(flow, token(chatID))
				if errText := flow.DeleteError(); errText != "" {
					bot.Send(tgbotapi.NewMessage(chatID, errText))
					continue
				}
				sendAdmin(bot, chatID, flow)

			case data == "DEL_CANCEL":
				if flow, ok := adminFlows[chatID]; ok {
					flow.CancelDelete()
					bot.Send(tgbotapi.NewMessage(chatID, "Eliminación cancelada."))
				}

			case data == "EDIT_CANCEL":
				if flow, ok := adminFlows[chatID]; ok {
					flow.CancelEdit()
					delete(adminStep, chatID)
					bot.Send(tgbotapi.NewMessage(chatID, "Edición cancelada."))
				}

			// Экран администратора: форма создания
			case data == "NEW_DEST":
				if _, ok := adminFlows[chatID]; !ok {
					continue
				}
				adminStep[chatID] = "create"
				bot.Send(tgbotapi.NewMessage(chatID, "Envía el nuevo destino:\nnombre; región; precio; descripción"))
			}

			continue
		}

		// --- Обычные сообщения ---
		if update.Message == nil {
			continue
		}
		msg := update.Message
		chatID := msg.Chat.ID

		// Команды (навигация между экранами)
		if msg.IsCommand() {
			resetDialogs(chatID)
			switch msg.Command() {
			case "start":
				bot.Send(tgbotapi.NewMessage(chatID, "🌄 Explora la Magia del Eje Cafetero\nAventuras de montaña, senderismo y naturaleza a tu alcance.\n\nComandos: /destinations /login /register /reservations /admin /logout"))
				sendHome(bot, chatID, destClient, token(chatID))

			case "destinations":
				sendHome(bot, chatID, destClient, token(chatID))

			case "login":
				pendingLogin[chatID] = &loginDialog{}
				bot.Send(tgbotapi.NewMessage(chatID, "Ingresa tu usuario:"))

			case "register":
				pendingRegister[chatID] = &registerDialog{}
				bot.Send(tgbotapi.NewMessage(chatID, "Elige un nombre de usuario:"))

			case "logout":
				if err := authService.Logout(chatID); err != nil {
					log.Printf("Ошибка при выходе из сессии чата %d: %v", chatID, err)
				}
				bot.Send(tgbotapi.NewMessage(chatID, "Sesión cerrada."))

			case "reservations":
				if !guard.CanEnter(service.RouteReservations, chatID) {
					redirectToLogin(chatID)
					continue
				}
				sendReservations(bot, chatID, resClient, token(chatID))

			case "admin":
				if !guard.CanEnter(service.RouteAdmin, chatID) {
					redirectToLogin(chatID)
					continue
				}
				if !sessions.IsAdmin(chatID) {
					// Подсказка роли скрывает экран, но не защищает его:
					// привилегированные операции отклонит бэкенд
					bot.Send(tgbotapi.NewMessage(chatID, "Panel de administración (se requiere rol admin en el servidor)."))
				}
				flow := adminService.NewFlow(token(chatID))
				adminFlows[chatID] = flow
				sendAdmin(bot, chatID, flow)

			case "cancel":
				bot.Send(tgbotapi.NewMessage(chatID, "Operación cancelada."))
			}
			continue
		}

		// Обработка «ожидающих» состояний

		// Вход
		if dlg, ok := pendingLogin[chatID]; ok {
			switch dlg.stage {
			case 0:
				dlg.username = strings.TrimSpace(msg.Text)
				dlg.stage = 1
				bot.Send(tgbotapi.NewMessage(chatID, "Ingresa tu contraseña:"))
			case 1:
				delete(pendingLogin, chatID)
				if err := authService.Login(chatID, dlg.username, msg.Text); err != nil {
					bot.Send(tgbotapi.NewMessage(chatID, client.ErrorDetail(err, "Error al iniciar sesión")))
				} else {
					bot.Send(tgbotapi.NewMessage(chatID, fmt.Sprintf("¡Bienvenido, %s!", dlg.username)))
					sendHome(bot, chatID, destClient, token(chatID))
				}
			}
			continue
		}

		// Регистрация (с автоматическим входом после успеха)
		if dlg, ok := pendingRegister[chatID]; ok {
			switch dlg.stage {
			case 0:
				dlg.username = strings.TrimSpace(msg.Text)
				dlg.stage = 1
				bot.Send(tgbotapi.NewMessage(chatID, "Ingresa tu email:"))
			case 1:
				dlg.email = strings.TrimSpace(msg.Text)
				dlg.stage = 2
				bot.Send(tgbotapi.NewMessage(chatID, "Crea una contraseña segura:"))
			case 2:
				delete(pendingRegister, chatID)
				err := authService.Register(chatID, dlg.username, dlg.email, msg.Text)
				switch {
				case err == service.ErrAutoLoginFailed:
					bot.Send(tgbotapi.NewMessage(chatID, err.Error()))
				case err != nil:
					bot.Send(tgbotapi.NewMessage(chatID, client.ErrorDetail(err, "Error al crear la cuenta")))
				default:
					bot.Send(tgbotapi.NewMessage(chatID, "Cuenta creada. Sesión iniciada."))
					sendHome(bot, chatID, destClient, token(chatID))
				}
			}
			continue
		}

		// Поля брони: люди, заезд, выезд (пересчет после каждого поля)
		if flow, ok := reserveFlows[chatID]; ok {
			switch reserveStep[chatID] {
			case "people":
				n, err := strconv.Atoi(strings.TrimSpace(msg.Text))
				if err != nil || n < 1 || n > 20 {
					bot.Send(tgbotapi.NewMessage(chatID, "Indica un número de personas entre 1 y 20."))
					continue
				}
				flow.SetPeople(n)
				reserveStep[chatID] = "check_in"
				bot.Send(tgbotapi.NewMessage(chatID, "Fecha de llegada (YYYY-MM-DD):"))
			case "check_in":
				date, err := parseDate(msg.Text)
				if err != nil {
					bot.Send(tgbotapi.NewMessage(chatID, "Fecha inválida. Usa el formato YYYY-MM-DD."))
					continue
				}
				if date.Before(today()) {
					bot.Send(tgbotapi.NewMessage(chatID, "La fecha de llegada no puede ser anterior a hoy."))
					continue
				}
				flow.SetCheckIn(date.Format(service.DateLayout))
				reserveStep[chatID] = "check_out"
				bot.Send(tgbotapi.NewMessage(chatID, "Fecha de salida (YYYY-MM-DD):"))
			case "check_out":
				date, err := parseDate(msg.Text)
				if err != nil {
					bot.Send(tgbotapi.NewMessage(chatID, "Fecha inválida. Usa el formato YYYY-MM-DD."))
					continue
				}
				flow.SetCheckOut(date.Format(service.DateLayout))
				if flow.Total <= 0 {
					bot.Send(tgbotapi.NewMessage(chatID, "La fecha de salida debe ser posterior a la llegada."))
					continue
				}
				sendQuote(bot, chatID, reserveService, flow)
			}
			continue
		}

		// Формы администратора (создание/правка) одним сообщением
		if flow, ok := adminFlows[chatID]; ok && adminStep[chatID] != "" {
			switch adminStep[chatID] {
			case "create":
				name, region, price, description, err := parseDestinationInput(msg.Text)
				if err != nil {
					bot.Send(tgbotapi.NewMessage(chatID, err.Error()))
					continue
				}
				flow.NewDest = service.DestinationForm{Name: name, Region: region, Price: price, Description: description}
				adminService.Create(flow, token(chatID))
				delete(adminStep, chatID)
				if flow.CreateError != "" {
					bot.Send(tgbotapi.NewMessage(chatID, flow.CreateError))
					continue
				}
				sendAdmin(bot, chatID, flow)
			case "edit":
				form := flow.EditForm()
				if form == nil {
					delete(adminStep, chatID)
					continue
				}
				applyDestinationEdit(form, msg.Text)
				adminService.SaveEdit(flow, token(chatID))
				if errText := flow.EditError(); errText != "" {
					// Диалог правки остается открытым с текстом ошибки
					bot.Send(tgbotapi.NewMessage(chatID, errText))
					continue
				}
				delete(adminStep, chatID)
				sendAdmin(bot, chatID, flow)
			}
			continue
		}

		bot.Send(tgbotapi.NewMessage(chatID, "Usa /destinations para ver el catálogo o /start para ayuda."))
	}
}

// sendHome показывает каталог направлений с кнопками бронирования.
func sendHome(bot *tgbotapi.BotAPI, chatID int64, dests *client.DestinationClient, token string) {
	list, err := dests.List(token)
	if err != nil {
		bot.Send(tgbotapi.NewMessage(chatID, "No se pudieron cargar los destinos."))
		return
	}
	if len(list) == 0 {
		bot.Send(tgbotapi.NewMessage(chatID, "No hay destinos disponibles en este momento. ¡Vuelve pronto!"))
		return
	}
	for _, d := range list {
		text := "🏔 " + d.Name
		if d.Region != "" {
			text += " (" + d.Region + ")"
		}
		if d.Description != "" {
			text += "\n" + d.Description
		}
		if d.Price != nil {
			text += fmt.Sprintf("\n💵 $%.2f / persona / día", *d.Price)
		}
		msg := tgbotapi.NewMessage(chatID, text)
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Reservar", fmt.Sprintf("RESERVE_%d", d.ID)),
		))
		bot.Send(msg)
	}
}

// sendReservations показывает брони текущего пользователя.
func sendReservations(bot *tgbotapi.BotAPI, chatID int64, res *client.ReservationClient, token string) {
	list, err := res.List(token)
	if err != nil {
		bot.Send(tgbotapi.NewMessage(chatID, "No se pudieron cargar tus reservas."))
		return
	}
	if len(list) == 0 {
		bot.Send(tgbotapi.NewMessage(chatID, "No tienes reservas registradas aún."))
		return
	}
	var b strings.Builder
	b.WriteString("📋 Tus reservas:\n")
	for _, r := range list {
		fmt.Fprintf(&b, "\n#%d destino %d · %d persona(s)\n%s → %s · $%.2f\nCreada: %s\n",
			r.ID, r.DestinationID, r.People, r.CheckIn, r.CheckOut, r.TotalPrice, r.CreatedAt)
	}
	bot.Send(tgbotapi.NewMessage(chatID, b.String()))
}

// sendQuote показывает итог расчета и кнопку подтверждения, если заявка
// готова к отправке.
func sendQuote(bot *tgbotapi.BotAPI, chatID int64, svc *service.ReserveService, flow *service.ReserveFlow) {
	dest := flow.Destination()
	text := fmt.Sprintf(
		"Resumen de Precio\nPrecio por persona/día: $%.2f\nPersonas: %d\nDías: %d\nTotal: $%.2f",
		*dest.Price, flow.People, flow.Nights, flow.Total,
	)
	msg := tgbotapi.NewMessage(chatID, text)
	if svc.CanSubmit(flow) {
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Confirmar Reserva", "RESERVE_OK"),
			tgbotapi.NewInlineKeyboardButtonData("Cancelar", "RESERVE_CANCEL"),
		))
	}
	bot.Send(msg)
}

// sendAdmin показывает каталог с кнопками правки и удаления.
func sendAdmin(bot *tgbotapi.BotAPI, chatID int64, flow *service.AdminFlow) {
	if flow.CreateSuccess != "" {
		bot.Send(tgbotapi.NewMessage(chatID, flow.CreateSuccess))
		flow.CreateSuccess = ""
	}
	rows := [][]tgbotapi.InlineKeyboardButton{}
	var b strings.Builder
	b.WriteString("Panel de Administración\n")
	if len(flow.Destinations) == 0 {
		b.WriteString("\nNo hay destinos creados aún.")
	}
	for _, d := range flow.Destinations {
		price := 0.0
		if d.Price != nil {
			price = *d.Price
		}
		fmt.Fprintf(&b, "\n#%d %s · %s · $%.2f", d.ID, d.Name, d.Region, price)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("✏ %d", d.ID), fmt.Sprintf("EDIT_%d", d.ID)),
			tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("🗑 %d", d.ID), fmt.Sprintf("DEL_%d", d.ID)),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("➕ Crear destino", "NEW_DEST"),
	))
	msg := tgbotapi.NewMessage(chatID, b.String())
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	bot.Send(msg)
}

// parseDestinationInput разбирает форму «nombre; región; precio; descripción».
func parseDestinationInput(text string) (name, region string, price float64, description string, err error) {
	parts := strings.SplitN(text, ";", 4)
	name = strings.TrimSpace(parts[0])
	if name == "" {
		return "", "", 0, "", fmt.Errorf("El nombre es obligatorio. Formato: nombre; región; precio; descripción")
	}
	if len(parts) > 1 {
		region = strings.TrimSpace(parts[1])
	}
	if len(parts) > 2 {
		raw := strings.TrimSpace(parts[2])
		if raw != "" {
			price, err = strconv.ParseFloat(raw, 64)
			if err != nil || price < 0 {
				return "", "", 0, "", fmt.Errorf("Precio inválido.")
			}
		}
	}
	if len(parts) > 3 {
		description = strings.TrimSpace(parts[3])
	}
	return name, region, price, description, nil
}

// applyDestinationEdit накладывает введенные значения на снимок правки;
// пустые поля сохраняют прежнее значение.
func applyDestinationEdit(form *service.DestinationForm, text string) {
	parts := strings.SplitN(text, ";", 4)
	if v := strings.TrimSpace(parts[0]); v != "" {
		form.Name = v
	}
	if len(parts) > 1 {
		if v := strings.TrimSpace(parts[1]); v != "" {
			form.Region = v
		}
	}
	if len(parts) > 2 {
		if v := strings.TrimSpace(parts[2]); v != "" {
			if price, err := strconv.ParseFloat(v, 64); err == nil && price >= 0 {
				form.Price = price
			}
		}
	}
	if len(parts) > 3 {
		if v := strings.TrimSpace(parts[3]); v != "" {
			form.Description = v
		}
	}
}

func parseDate(text string) (time.Time, error) {
	return time.Parse(service.DateLayout, strings.TrimSpace(text))
}

func today() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
