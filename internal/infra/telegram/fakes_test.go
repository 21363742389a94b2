package telegram

import (
	"context"
	"strings"
	"sync"
	"time"

	"yutai_notification_bot/internal/app"
	"yutai_notification_bot/internal/domain/benefit"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"gopkg.in/telebot.v3"
)

const testAdminID int64 = 42

// fakeContext implements the parts of telebot.Context the handlers use.
type fakeContext struct {
	telebot.Context

	sender *telebot.User
	chat   *telebot.Chat
	data   string

	sent      []interface{}
	sentOpts  [][]interface{}
	edited    []interface{}
	editOpts  [][]interface{}
	responses []*telebot.CallbackResponse
}

func newFakeContext(senderID int64, data string) *fakeContext {
	return &fakeContext{
		sender: &telebot.User{ID: senderID, FirstName: "Taro"},
		chat:   &telebot.Chat{ID: senderID},
		data:   data,
	}
}

func (f *fakeContext) Sender() *telebot.User { return f.sender }
func (f *fakeContext) Chat() *telebot.Chat   { return f.chat }
func (f *fakeContext) Data() string          { return f.data }
func (f *fakeContext) Args() []string        { return strings.Fields(f.data) }

func (f *fakeContext) Send(what interface{}, opts ...interface{}) error {
	f.sent = append(f.sent, what)
	f.sentOpts = append(f.sentOpts, opts)
	return nil
}

func (f *fakeContext) Edit(what interface{}, opts ...interface{}) error {
	f.edited = append(f.edited, what)
	f.editOpts = append(f.editOpts, opts)
	return nil
}

func (f *fakeContext) Respond(resp ...*telebot.CallbackResponse) error {
	if len(resp) == 0 {
		f.responses = append(f.responses, nil)
		return nil
	}
	f.responses = append(f.responses, resp...)
	return nil
}

func (f *fakeContext) lastSent() string {
	if len(f.sent) == 0 {
		return ""
	}
	s, _ := f.sent[len(f.sent)-1].(string)
	return s
}

// memRepository is an in-memory benefit.Repository.
type memRepository struct {
	mu        sync.Mutex
	benefits  []*benefit.Benefit
	nextID    benefit.ID
	listErr   error
	deleteErr map[benefit.ID]error
	inserted  []benefit.Input
}

func newMemRepository(benefits ...*benefit.Benefit) *memRepository {
	return &memRepository{benefits: benefits, nextID: 100, deleteErr: map[benefit.ID]error{}}
}

func (m *memRepository) List(ctx context.Context) ([]*benefit.Benefit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]*benefit.Benefit, len(m.benefits))
	copy(out, m.benefits)
	return out, nil
}

func (m *memRepository) Insert(ctx context.Context, in benefit.Input) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	m.inserted = append(m.inserted, in)
	m.benefits = append(m.benefits, &benefit.Benefit{
		ID: m.nextID, Name: in.Name, Amount: in.Amount, ExpiryDate: benefit.FormatDate(in.ExpiryDate), Memo: in.Memo,
	})
	return nil
}

func (m *memRepository) Update(ctx context.Context, id benefit.ID, in benefit.Input) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.benefits {
		if b.ID == id {
			b.Name, b.Amount, b.ExpiryDate, b.Memo = in.Name, in.Amount, benefit.FormatDate(in.ExpiryDate), in.Memo
			return nil
		}
	}
	return benefit.ErrBenefitNotFound
}

func (m *memRepository) Delete(ctx context.Context, id benefit.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.deleteErr[id]; err != nil {
		return err
	}
	for i, b := range m.benefits {
		if b.ID == id {
			m.benefits = append(m.benefits[:i], m.benefits[i+1:]...)
			return nil
		}
	}
	return benefit.ErrBenefitNotFound
}

func (m *memRepository) ids() []benefit.ID {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]benefit.ID, 0, len(m.benefits))
	for _, b := range m.benefits {
		ids = append(ids, b.ID)
	}
	return ids
}

type stubNotifier struct {
	report *app.Report
	err    error
	calls  int
}

func (s *stubNotifier) CheckAndNotify(ctx context.Context) (*app.Report, error) {
	s.calls++
	return s.report, s.err
}

func newTestHandlers(repo *memRepository, notifier app.NotificationService) (*AdminHandlers, *test.Hook) {
	log, hook := test.NewNullLogger()
	svc := app.NewBenefitService(repo, notifier, time.UTC)
	return NewAdminHandlers(context.Background(), svc, NewSelectionStore(), testAdminID, time.UTC, logrus.NewEntry(log)), hook
}
