package app

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"yutai_notification_bot/internal/domain/benefit"
)

// Custom application-level errors for the management surface
var ErrNameRequired = fmt.Errorf("name is required")
var ErrNegativeAmount = fmt.Errorf("amount must not be negative")
var ErrExpiryRequired = fmt.Errorf("expiry date is required")
var ErrNotConfirmed = fmt.Errorf("deletion was not confirmed")
var ErrEmptySelection = fmt.Errorf("no benefits selected")

// SortKey selects the column the benefit list is ordered by.
type SortKey string

const (
	SortByExpiry SortKey = "expiry"
	SortByAmount SortKey = "amount"
	SortByName   SortKey = "name"
)

// SortOrder is ascending or descending.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

func ParseSortKey(s string) (SortKey, error) {
	switch k := SortKey(strings.ToLower(strings.TrimSpace(s))); k {
	case "":
		return SortByExpiry, nil
	case SortByExpiry, SortByAmount, SortByName:
		return k, nil
	default:
		return "", fmt.Errorf("unknown sort key %q", s)
	}
}

func ParseSortOrder(s string) (SortOrder, error) {
	switch o := SortOrder(strings.ToLower(strings.TrimSpace(s))); o {
	case "":
		return SortAsc, nil
	case SortAsc, SortDesc:
		return o, nil
	default:
		return "", fmt.Errorf("unknown sort order %q", s)
	}
}

// BenefitService holds the business rules of the management surface. The store
// itself is a passthrough; validation happens here.
type BenefitService struct {
	benefitRepo benefit.Repository
	notifier    NotificationService
	location    *time.Location
}

func NewBenefitService(br benefit.Repository, notifier NotificationService, location *time.Location) *BenefitService {
	if location == nil {
		location = time.Local
	}
	return &BenefitService{
		benefitRepo: br,
		notifier:    notifier,
		location:    location,
	}
}

// List returns all benefits ordered by key. Records without an amount sort as zero;
// records with an unparseable expiry date always come last.
func (s *BenefitService) List(ctx context.Context, key SortKey, order SortOrder) ([]*benefit.Benefit, error) {
	benefits, err := s.benefitRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list benefits: %w", err)
	}
	s.sortBenefits(benefits, key, order)
	return benefits, nil
}

func (s *BenefitService) sortBenefits(benefits []*benefit.Benefit, key SortKey, order SortOrder) {
	slices.SortStableFunc(benefits, func(a, b *benefit.Benefit) int {
		var c int
		switch key {
		case SortByAmount:
			c = cmp.Compare(a.Amount.Int64, b.Amount.Int64)
		case SortByName:
			c = strings.Compare(a.Name, b.Name)
		default:
			ae, aErr := a.Expiry(s.location)
			be, bErr := b.Expiry(s.location)
			switch {
			case aErr != nil && bErr != nil:
				return 0
			case aErr != nil:
				return 1
			case bErr != nil:
				return -1
			}
			c = ae.Compare(be)
		}
		if order == SortDesc {
			return -c
		}
		return c
	})
}

// Add validates and registers a new benefit.
func (s *BenefitService) Add(ctx context.Context, in benefit.Input) error {
	in, err := validateInput(in)
	if err != nil {
		return err
	}
	if err := s.benefitRepo.Insert(ctx, in); err != nil {
		return fmt.Errorf("failed to create benefit in repository: %w", err)
	}
	return nil
}

// Edit validates and replaces every field of an existing benefit.
func (s *BenefitService) Edit(ctx context.Context, id benefit.ID, in benefit.Input) error {
	in, err := validateInput(in)
	if err != nil {
		return err
	}
	if err := s.benefitRepo.Update(ctx, id, in); err != nil {
		return fmt.Errorf("failed to update benefit %d: %w", id, err)
	}
	return nil
}

// Remove deletes one benefit.
func (s *BenefitService) Remove(ctx context.Context, id benefit.ID) error {
	if err := s.benefitRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete benefit %d: %w", id, err)
	}
	return nil
}

// RemoveSelected deletes every selected benefit once the operator has confirmed.
// Deleted ids leave the selection, as do ids that no longer exist in the store.
// On any other store fault the remaining ids stay selected and the number already
// deleted is returned with the error.
func (s *BenefitService) RemoveSelected(ctx context.Context, sel *Selection, confirmed bool) (int, error) {
	if sel.Len() == 0 {
		return 0, ErrEmptySelection
	}
	if !confirmed {
		return 0, ErrNotConfirmed
	}

	deleted := 0
	for _, id := range sel.IDs() {
		err := s.benefitRepo.Delete(ctx, id)
		if errors.Is(err, benefit.ErrBenefitNotFound) {
			sel.Remove(id)
			continue
		}
		if err != nil {
			return deleted, fmt.Errorf("failed to delete benefit %d: %w", id, err)
		}
		sel.Remove(id)
		deleted++
	}
	return deleted, nil
}

// RunNotifier triggers an expiry check on behalf of the operator.
func (s *BenefitService) RunNotifier(ctx context.Context) (*Report, error) {
	return s.notifier.CheckAndNotify(ctx)
}

func validateInput(in benefit.Input) (benefit.Input, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return in, ErrNameRequired
	}
	if in.Amount.Valid && in.Amount.Int64 < 0 {
		return in, ErrNegativeAmount
	}
	if in.ExpiryDate.IsZero() {
		return in, ErrExpiryRequired
	}
	return in, nil
}
