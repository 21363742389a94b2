// internal/infra/telegram/selection_handlers.go
package telegram

import (
	"errors"
	"fmt"

	"yutai_notification_bot/internal/app"
	"yutai_notification_bot/internal/domain/benefit"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

// Callback uniques of the bulk-delete keyboard.
const (
	uniqueSelect        = "sel"
	uniqueDeleteConfirm = "del_confirm"
	uniqueDeleteCancel  = "del_cancel"
)

func RegisterSelectionHandlers(b *telebot.Bot, h *AdminHandlers) {
	b.Handle("/select", h.handleSelect)
	b.Handle(&telebot.Btn{Unique: uniqueSelect}, h.handleSelectToggle)
	b.Handle(&telebot.Btn{Unique: uniqueDeleteConfirm}, h.handleDeleteConfirm)
	b.Handle(&telebot.Btn{Unique: uniqueDeleteCancel}, h.handleDeleteCancel)
}

func chatID(c telebot.Context) int64 {
	if c.Chat() != nil {
		return c.Chat().ID
	}
	return c.Sender().ID
}

// selectionKeyboard lists every benefit as a toggle button followed by the confirm/cancel row.
func selectionKeyboard(benefits []*benefit.Benefit, sel *app.Selection) *telebot.ReplyMarkup {
	replyMarkup := &telebot.ReplyMarkup{}
	rows := make([]telebot.Row, 0, len(benefits)+1)
	for _, b := range benefits {
		mark := "⬜"
		if sel.Has(b.ID) {
			mark = "☑️"
		}
		label := fmt.Sprintf("%s %s (%s)", mark, b.Name, b.ExpiryDate)
		rows = append(rows, replyMarkup.Row(replyMarkup.Data(label, uniqueSelect, b.ID.String())))
	}
	btnConfirm := replyMarkup.Data(fmt.Sprintf("🗑 選択した%d件を削除", sel.Len()), uniqueDeleteConfirm)
	btnCancel := replyMarkup.Data("キャンセル", uniqueDeleteCancel)
	rows = append(rows, replyMarkup.Row(btnConfirm, btnCancel))
	replyMarkup.Inline(rows...)
	return replyMarkup
}

const selectPrompt = "削除する優待を選択してください。"

func (h *AdminHandlers) handleSelect(c telebot.Context) error {
	handlerLogger, ok := h.authorize(c, "/select")
	if !ok {
		return c.Send(msgUnauthorized)
	}

	benefits, err := h.benefitService.List(h.ctx, app.SortByExpiry, app.SortAsc)
	if err != nil {
		handlerLogger.WithError(err).Error("Failed to get list of benefits")
		return c.Send(fmt.Sprintf("優待一覧の取得中にエラーが発生しました: %s", err.Error()))
	}
	if len(benefits) == 0 {
		return c.Send("登録されている株主優待はありません。")
	}

	// A new keyboard starts from an empty selection.
	sel := h.selections.For(chatID(c))
	sel.Clear()
	return c.Send(selectPrompt, selectionKeyboard(benefits, sel))
}

func (h *AdminHandlers) handleSelectToggle(c telebot.Context) error {
	handlerLogger, ok := h.authorize(c, "callback:"+uniqueSelect)
	if !ok {
		return c.Respond(&telebot.CallbackResponse{Text: msgUnauthorized})
	}

	id, err := benefit.ParseID(c.Data())
	if err != nil {
		handlerLogger.WithError(err).Warn("Invalid benefit ID in select callback")
		return c.Respond(&telebot.CallbackResponse{Text: "IDの読み取りに失敗しました。"})
	}

	sel := h.selections.For(chatID(c))
	selected := sel.Toggle(id)
	handlerLogger.WithFields(logrus.Fields{"benefit_id": id, "selected": selected}).Debug("Selection toggled")

	benefits, err := h.benefitService.List(h.ctx, app.SortByExpiry, app.SortAsc)
	if err != nil {
		handlerLogger.WithError(err).Error("Failed to refresh selection keyboard")
		return c.Respond(&telebot.CallbackResponse{Text: "エラーが発生しました。"})
	}
	if err := c.Edit(selectPrompt, selectionKeyboard(benefits, sel)); err != nil {
		return err
	}
	return c.Respond()
}

func (h *AdminHandlers) handleDeleteConfirm(c telebot.Context) error {
	handlerLogger, ok := h.authorize(c, "callback:"+uniqueDeleteConfirm)
	if !ok {
		return c.Respond(&telebot.CallbackResponse{Text: msgUnauthorized})
	}

	sel := h.selections.For(chatID(c))
	// Pressing the confirm button is the confirmation.
	deleted, err := h.benefitService.RemoveSelected(h.ctx, sel, true)
	switch {
	case errors.Is(err, app.ErrEmptySelection):
		return c.Respond(&telebot.CallbackResponse{Text: "削除する優待が選択されていません。"})
	case err != nil:
		handlerLogger.WithError(err).WithField("deleted", deleted).Error("Bulk delete failed")
		if editErr := c.Edit(fmt.Sprintf("%d件削除した後にエラーが発生しました: %s", deleted, err.Error())); editErr != nil {
			return editErr
		}
		return c.Respond()
	}

	handlerLogger.WithField("deleted", deleted).Info("Selected benefits deleted")
	h.selections.Drop(chatID(c))
	if err := c.Edit(fmt.Sprintf("%d件の優待を削除しました。", deleted)); err != nil {
		return err
	}
	return c.Respond(&telebot.CallbackResponse{Text: "削除しました。"})
}

func (h *AdminHandlers) handleDeleteCancel(c telebot.Context) error {
	handlerLogger, ok := h.authorize(c, "callback:"+uniqueDeleteCancel)
	if !ok {
		return c.Respond(&telebot.CallbackResponse{Text: msgUnauthorized})
	}

	h.selections.Drop(chatID(c))
	handlerLogger.Info("Bulk delete cancelled")
	if err := c.Edit("削除をキャンセルしました。"); err != nil {
		return err
	}
	return c.Respond()
}
