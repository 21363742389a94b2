package telegram

import (
	"context"
	"errors"
	"fmt"
	"time"

	"yutai_notification_bot/internal/app"
	"yutai_notification_bot/internal/domain/benefit"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

const msgUnauthorized = "エラー: このコマンドを実行する権限がありません。"

// AdminHandlers serves the management commands. Only the configured admin may use them.
type AdminHandlers struct {
	ctx             context.Context
	benefitService  *app.BenefitService
	selections      *SelectionStore
	adminTelegramID int64
	location        *time.Location
	logger          *logrus.Entry
}

func NewAdminHandlers(
	ctx context.Context,
	benefitService *app.BenefitService,
	selections *SelectionStore,
	adminTelegramID int64,
	location *time.Location, // For parsing the dates the admin types
	baseLogger *logrus.Entry,
) *AdminHandlers {
	if location == nil {
		location = time.Local
	}
	return &AdminHandlers{
		ctx:             ctx,
		benefitService:  benefitService,
		selections:      selections,
		adminTelegramID: adminTelegramID,
		location:        location,
		logger:          baseLogger,
	}
}

// RegisterAdminHandlers registers handlers for admin commands and the bulk-delete keyboard.
func RegisterAdminHandlers(b *telebot.Bot, h *AdminHandlers) {
	b.Handle("/list", h.handleList)
	b.Handle("/add", h.handleAdd)
	b.Handle("/edit", h.handleEdit)
	b.Handle("/delete", h.handleDelete)
	b.Handle("/notify", h.handleNotify)
	RegisterSelectionHandlers(b, h)
}

// authorize logs the command and reports whether the sender is the admin.
func (h *AdminHandlers) authorize(c telebot.Context, handler string) (*logrus.Entry, bool) {
	handlerLogger := h.logger.WithFields(logrus.Fields{
		"handler":   handler,
		"sender_id": c.Sender().ID,
	})
	handlerLogger.Info("Command received")

	if c.Sender().ID != h.adminTelegramID {
		handlerLogger.Warn("Unauthorized access attempt")
		return handlerLogger, false
	}
	return handlerLogger, true
}

func (h *AdminHandlers) handleList(c telebot.Context) error {
	handlerLogger, ok := h.authorize(c, "/list")
	if !ok {
		return c.Send(msgUnauthorized)
	}

	args := c.Args()
	// Expected format: /list [expiry|amount|name] [asc|desc]
	if len(args) > 2 {
		return c.Send("コマンドの形式が正しくありません。使い方: /list [expiry|amount|name] [asc|desc]")
	}
	var rawKey, rawOrder string
	if len(args) > 0 {
		rawKey = args[0]
	}
	if len(args) > 1 {
		rawOrder = args[1]
	}
	key, err := app.ParseSortKey(rawKey)
	if err != nil {
		handlerLogger.WithError(err).Warn("Invalid sort key argument")
		return c.Send("並び替えの項目は expiry, amount, name のいずれかを指定してください。")
	}
	order, err := app.ParseSortOrder(rawOrder)
	if err != nil {
		handlerLogger.WithError(err).Warn("Invalid sort order argument")
		return c.Send("並び順は asc または desc を指定してください。")
	}
	handlerLogger = handlerLogger.WithFields(logrus.Fields{"sort_key": key, "sort_order": order})

	benefits, err := h.benefitService.List(h.ctx, key, order)
	if err != nil {
		handlerLogger.WithError(err).Error("Failed to get list of benefits")
		return c.Send(fmt.Sprintf("優待一覧の取得中にエラーが発生しました: %s", err.Error()))
	}
	if len(benefits) == 0 {
		handlerLogger.Info("No benefits registered")
		return c.Send("登録されている株主優待はありません。")
	}

	handlerLogger.WithField("benefits_count", len(benefits)).Info("Successfully retrieved benefit list")
	for _, chunk := range formatBenefitList(benefits, key, order) {
		if err := c.Send(chunk); err != nil {
			return err
		}
	}
	return nil
}

func (h *AdminHandlers) handleAdd(c telebot.Context) error {
	handlerLogger, ok := h.authorize(c, "/add")
	if !ok {
		return c.Send(msgUnauthorized)
	}

	in, err := parseAddPayload(c.Data(), h.location)
	if err != nil {
		handlerLogger.WithError(err).Warn("Invalid command format")
		return c.Send(inputErrorMessage(err, "/add 名称 | 金額 | YYYY-MM-DD | メモ"))
	}
	handlerLogger = handlerLogger.WithFields(logrus.Fields{
		"name":        in.Name,
		"expiry_date": benefit.FormatDate(in.ExpiryDate),
	})

	if err := h.benefitService.Add(h.ctx, in); err != nil {
		if msg, ok := validationMessage(err); ok {
			handlerLogger.WithError(err).Warn("Benefit rejected by validation")
			return c.Send(msg)
		}
		handlerLogger.WithError(err).Error("Failed to add benefit")
		return c.Send(fmt.Sprintf("登録中にエラーが発生しました: %s", err.Error()))
	}

	handlerLogger.Info("Benefit added successfully")
	return c.Send(fmt.Sprintf("「%s」を登録しました。", in.Name))
}

func (h *AdminHandlers) handleEdit(c telebot.Context) error {
	handlerLogger, ok := h.authorize(c, "/edit")
	if !ok {
		return c.Send(msgUnauthorized)
	}

	id, in, err := parseEditPayload(c.Data(), h.location)
	if err != nil {
		handlerLogger.WithError(err).Warn("Invalid command format")
		return c.Send(inputErrorMessage(err, "/edit ID | 名称 | 金額 | YYYY-MM-DD | メモ"))
	}
	handlerLogger = handlerLogger.WithField("benefit_id", id)

	if err := h.benefitService.Edit(h.ctx, id, in); err != nil {
		if errors.Is(err, benefit.ErrBenefitNotFound) {
			handlerLogger.WithError(err).Warn("Benefit to edit not found")
			return c.Send(fmt.Sprintf("ID %d の優待は見つかりませんでした。", id))
		}
		if msg, ok := validationMessage(err); ok {
			handlerLogger.WithError(err).Warn("Benefit rejected by validation")
			return c.Send(msg)
		}
		handlerLogger.WithError(err).Error("Failed to edit benefit")
		return c.Send(fmt.Sprintf("更新中にエラーが発生しました: %s", err.Error()))
	}

	handlerLogger.Info("Benefit updated successfully")
	return c.Send(fmt.Sprintf("ID %d を更新しました。", id))
}

func (h *AdminHandlers) handleDelete(c telebot.Context) error {
	handlerLogger, ok := h.authorize(c, "/delete")
	if !ok {
		return c.Send(msgUnauthorized)
	}

	args := c.Args()
	// Expected format: /delete <ID>
	if len(args) != 1 {
		return c.Send("コマンドの形式が正しくありません。使い方: /delete ID")
	}
	id, err := benefit.ParseID(args[0])
	if err != nil {
		handlerLogger.WithField("arg", args[0]).Warn("Invalid benefit ID format")
		return c.Send("エラー: IDは数字で指定してください。")
	}
	handlerLogger = handlerLogger.WithField("benefit_id", id)

	if err := h.benefitService.Remove(h.ctx, id); err != nil {
		if errors.Is(err, benefit.ErrBenefitNotFound) {
			handlerLogger.WithError(err).Warn("Benefit to delete not found")
			return c.Send(fmt.Sprintf("ID %d の優待は見つかりませんでした。", id))
		}
		handlerLogger.WithError(err).Error("Failed to delete benefit")
		return c.Send(fmt.Sprintf("削除中にエラーが発生しました: %s", err.Error()))
	}
	if c.Chat() != nil {
		h.selections.For(c.Chat().ID).Remove(id)
	}

	handlerLogger.Info("Benefit deleted successfully")
	return c.Send(fmt.Sprintf("ID %d を削除しました。", id))
}

func (h *AdminHandlers) handleNotify(c telebot.Context) error {
	handlerLogger, ok := h.authorize(c, "/notify")
	if !ok {
		return c.Send(msgUnauthorized)
	}

	report, err := h.benefitService.RunNotifier(h.ctx)
	if err != nil && !errors.Is(err, app.ErrMalformedRecords) {
		handlerLogger.WithError(err).Error("Notifier run failed")
		return c.Send(fmt.Sprintf("通知チェック中にエラーが発生しました: %s", err.Error()))
	}
	if err != nil {
		handlerLogger.WithError(err).Warn("Notifier run finished with malformed records")
	} else {
		handlerLogger.Info("Notifier run finished")
	}
	for _, chunk := range formatReport(report) {
		if err := c.Send(chunk); err != nil {
			return err
		}
	}
	return nil
}

func inputErrorMessage(err error, usage string) string {
	switch {
	case errors.Is(err, errInvalidAmount):
		return "エラー: 金額は数字で指定してください (不明な場合は - )。"
	case errors.Is(err, errInvalidDate):
		return "エラー: 期限は YYYY-MM-DD 形式で指定してください。"
	case errors.Is(err, errUsage):
		return "コマンドの形式が正しくありません。使い方: " + usage
	default:
		return fmt.Sprintf("エラー: %s", err.Error())
	}
}

func validationMessage(err error) (string, bool) {
	switch {
	case errors.Is(err, app.ErrNameRequired):
		return "エラー: 名称を入力してください。", true
	case errors.Is(err, app.ErrNegativeAmount):
		return "エラー: 金額に負の値は指定できません。", true
	case errors.Is(err, app.ErrExpiryRequired):
		return "エラー: 期限を入力してください。", true
	default:
		return "", false
	}
}
