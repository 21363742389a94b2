package app

import (
	"context"
	"errors"
	"sync"

	"yutai_notification_bot/internal/domain/benefit"
)

// fakeRepository is an in-memory benefit.Repository.
type fakeRepository struct {
	mu        sync.Mutex
	benefits  []*benefit.Benefit
	nextID    benefit.ID
	listErr   error
	deleteErr map[benefit.ID]error
	inserted  []benefit.Input
	updated   map[benefit.ID]benefit.Input
	deleted   []benefit.ID
}

func newFakeRepository(benefits ...*benefit.Benefit) *fakeRepository {
	return &fakeRepository{
		benefits:  benefits,
		nextID:    100,
		deleteErr: map[benefit.ID]error{},
		updated:   map[benefit.ID]benefit.Input{},
	}
}

func (f *fakeRepository) List(ctx context.Context) ([]*benefit.Benefit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]*benefit.Benefit, len(f.benefits))
	copy(out, f.benefits)
	return out, nil
}

func (f *fakeRepository) Insert(ctx context.Context, in benefit.Input) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	f.inserted = append(f.inserted, in)
	f.benefits = append(f.benefits, &benefit.Benefit{
		ID:         f.nextID,
		Name:       in.Name,
		Amount:     in.Amount,
		ExpiryDate: benefit.FormatDate(in.ExpiryDate),
		Memo:       in.Memo,
	})
	return nil
}

func (f *fakeRepository) Update(ctx context.Context, id benefit.ID, in benefit.Input) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.benefits {
		if b.ID == id {
			f.updated[id] = in
			b.Name, b.Amount, b.ExpiryDate, b.Memo = in.Name, in.Amount, benefit.FormatDate(in.ExpiryDate), in.Memo
			return nil
		}
	}
	return benefit.ErrBenefitNotFound
}

func (f *fakeRepository) Delete(ctx context.Context, id benefit.ID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.deleteErr[id]; err != nil {
		return err
	}
	for i, b := range f.benefits {
		if b.ID == id {
			f.benefits = append(f.benefits[:i], f.benefits[i+1:]...)
			f.deleted = append(f.deleted, id)
			return nil
		}
	}
	return benefit.ErrBenefitNotFound
}

// fakeSender records every message and fails for texts listed in failOn.
type fakeSender struct {
	mu     sync.Mutex
	sent   []string
	failOn func(text string) bool
}

var errWebhookDown = errors.New("webhook returned status 500")

func (f *fakeSender) Send(ctx context.Context, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failOn != nil && f.failOn(text) {
		return errWebhookDown
	}
	f.sent = append(f.sent, text)
	return nil
}
