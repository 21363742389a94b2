package telegram

import (
	"errors"
	"testing"

	"yutai_notification_bot/internal/app"
	"yutai_notification_bot/internal/domain/benefit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/telebot.v3"
)

func sentMarkup(t *testing.T, opts []interface{}) *telebot.ReplyMarkup {
	t.Helper()
	require.Len(t, opts, 1)
	markup, ok := opts[0].(*telebot.ReplyMarkup)
	require.True(t, ok)
	return markup
}

func TestSelectionKeyboard(t *testing.T) {
	benefits := []*benefit.Benefit{
		{ID: 2, Name: "食事券", ExpiryDate: "2024-04-15"},
		{ID: 1, Name: "QUOカード", ExpiryDate: "2024-06-30"},
	}
	sel := app.NewSelection()
	sel.Toggle(1)

	markup := selectionKeyboard(benefits, sel)
	require.Len(t, markup.InlineKeyboard, 3)

	first := markup.InlineKeyboard[0][0]
	assert.Equal(t, uniqueSelect, first.Unique)
	assert.Equal(t, "2", first.Data)
	assert.Equal(t, "⬜ 食事券 (2024-04-15)", first.Text)
	assert.Equal(t, "☑️ QUOカード (2024-06-30)", markup.InlineKeyboard[1][0].Text)

	last := markup.InlineKeyboard[2]
	require.Len(t, last, 2)
	assert.Equal(t, uniqueDeleteConfirm, last[0].Unique)
	assert.Equal(t, "🗑 選択した1件を削除", last[0].Text)
	assert.Equal(t, uniqueDeleteCancel, last[1].Unique)
}

func TestHandleSelect_StartsEmpty(t *testing.T) {
	h, _ := newTestHandlers(sampleRepo(), &stubNotifier{})
	h.selections.For(testAdminID).Toggle(1)

	c := newFakeContext(testAdminID, "")
	require.NoError(t, h.handleSelect(c))
	assert.Equal(t, selectPrompt, c.lastSent())
	assert.Equal(t, 0, h.selections.For(testAdminID).Len())

	markup := sentMarkup(t, c.sentOpts[0])
	assert.Len(t, markup.InlineKeyboard, 3)
}

func TestHandleSelect_NoBenefits(t *testing.T) {
	h, _ := newTestHandlers(newMemRepository(), &stubNotifier{})

	c := newFakeContext(testAdminID, "")
	require.NoError(t, h.handleSelect(c))
	assert.Equal(t, "登録されている株主優待はありません。", c.lastSent())
}

func TestHandleSelectToggle(t *testing.T) {
	h, _ := newTestHandlers(sampleRepo(), &stubNotifier{})

	c := newFakeContext(testAdminID, "2")
	require.NoError(t, h.handleSelectToggle(c))
	assert.True(t, h.selections.For(testAdminID).Has(2))
	require.Len(t, c.edited, 1)
	markup := sentMarkup(t, c.editOpts[0])
	assert.Equal(t, "☑️ 食事券 (2024-04-15)", markup.InlineKeyboard[0][0].Text)
	require.Len(t, c.responses, 1)

	c = newFakeContext(testAdminID, "2")
	require.NoError(t, h.handleSelectToggle(c))
	assert.False(t, h.selections.For(testAdminID).Has(2))
}

func TestHandleSelectToggle_BadData(t *testing.T) {
	h, _ := newTestHandlers(sampleRepo(), &stubNotifier{})

	c := newFakeContext(testAdminID, "abc")
	require.NoError(t, h.handleSelectToggle(c))
	assert.Empty(t, c.edited)
	require.Len(t, c.responses, 1)
	assert.Equal(t, "IDの読み取りに失敗しました。", c.responses[0].Text)
}

func TestHandleSelectToggle_NonAdmin(t *testing.T) {
	h, _ := newTestHandlers(sampleRepo(), &stubNotifier{})

	c := newFakeContext(7, "1")
	require.NoError(t, h.handleSelectToggle(c))
	assert.Equal(t, 0, h.selections.For(7).Len())
	require.Len(t, c.responses, 1)
	assert.Equal(t, msgUnauthorized, c.responses[0].Text)
}

func TestHandleDeleteConfirm(t *testing.T) {
	repo := sampleRepo()
	h, _ := newTestHandlers(repo, &stubNotifier{})
	sel := h.selections.For(testAdminID)
	sel.Toggle(1)
	sel.Toggle(2)

	c := newFakeContext(testAdminID, "")
	require.NoError(t, h.handleDeleteConfirm(c))
	assert.Empty(t, repo.ids())
	assert.Equal(t, []interface{}{"2件の優待を削除しました。"}, c.edited)
	assert.Equal(t, 0, h.selections.For(testAdminID).Len())
}

func TestHandleDeleteConfirm_EmptySelection(t *testing.T) {
	repo := sampleRepo()
	h, _ := newTestHandlers(repo, &stubNotifier{})

	c := newFakeContext(testAdminID, "")
	require.NoError(t, h.handleDeleteConfirm(c))
	assert.Len(t, repo.ids(), 2)
	assert.Empty(t, c.edited)
	require.Len(t, c.responses, 1)
	assert.Equal(t, "削除する優待が選択されていません。", c.responses[0].Text)
}

func TestHandleDeleteConfirm_StoreFaultKeepsRemaining(t *testing.T) {
	repo := sampleRepo()
	repo.deleteErr[2] = errors.New("connection reset")
	h, _ := newTestHandlers(repo, &stubNotifier{})
	sel := h.selections.For(testAdminID)
	sel.Toggle(1)
	sel.Toggle(2)

	c := newFakeContext(testAdminID, "")
	require.NoError(t, h.handleDeleteConfirm(c))
	assert.Equal(t, []benefit.ID{2}, repo.ids())
	assert.Equal(t, []benefit.ID{2}, h.selections.For(testAdminID).IDs())
	require.Len(t, c.edited, 1)
	assert.Contains(t, c.edited[0], "1件削除した後にエラーが発生しました")
}

func TestHandleDeleteCancel(t *testing.T) {
	repo := sampleRepo()
	h, _ := newTestHandlers(repo, &stubNotifier{})
	h.selections.For(testAdminID).Toggle(1)

	c := newFakeContext(testAdminID, "")
	require.NoError(t, h.handleDeleteCancel(c))
	assert.Len(t, repo.ids(), 2)
	assert.Equal(t, 0, h.selections.For(testAdminID).Len())
	assert.Equal(t, []interface{}{"削除をキャンセルしました。"}, c.edited)
}
