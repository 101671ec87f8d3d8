package application

import (
	"context"
	"strings"

	"github.com/atvirokodosprendimai/campaignkeeper/internal/domain"
)

func (s *Service) diaryOwner(ctx context.Context, owner domain.EntityRef) error {
	if !owner.Type.KeepsDiary() {
		return domain.Invalid("ownerType", "%s does not keep a diary", owner.Type)
	}
	_, err := s.requireEntity(ctx, owner)
	return err
}

func normalizeDiaryEntry(value domain.DiaryEntry) (domain.DiaryEntry, error) {
	value.Description = strings.TrimSpace(value.Description)
	value.Date = strings.TrimSpace(value.Date)
	if value.LinkedEntities == nil {
		value.LinkedEntities = []domain.LinkedEntityRef{}
	}

	v := &domain.ValidationError{}
	checkText(v, "description", value.Description)
	checkText(v, "date", value.Date)
	for i, linked := range value.LinkedEntities {
		if strings.TrimSpace(linked.ID) == "" || strings.TrimSpace(linked.Type) == "" || strings.TrimSpace(linked.Name) == "" {
			v.Add("linkedEntities", "entry %d needs id, type and name", i)
		}
	}
	return value, v.Err()
}

// ListDiary returns the owner's entries newest first. Entries sharing a date
// come back in reverse insertion order.
func (s *Service) ListDiary(ctx context.Context, owner domain.EntityRef) ([]domain.DiaryEntry, error) {
	if err := s.diaryOwner(ctx, owner); err != nil {
		return nil, err
	}
	return s.repo.ListDiaryEntries(ctx, owner)
}

func (s *Service) AddDiaryEntry(ctx context.Context, owner domain.EntityRef, value domain.DiaryEntry) (domain.DiaryEntry, error) {
	if err := s.diaryOwner(ctx, owner); err != nil {
		return domain.DiaryEntry{}, err
	}
	value, err := normalizeDiaryEntry(value)
	if err != nil {
		return domain.DiaryEntry{}, err
	}
	value.OwnerType = owner.Type
	value.OwnerID = owner.ID
	return s.repo.CreateDiaryEntry(ctx, value)
}

func (s *Service) diaryEntryOf(ctx context.Context, owner domain.EntityRef, entryID uint) (domain.DiaryEntry, error) {
	if err := s.diaryOwner(ctx, owner); err != nil {
		return domain.DiaryEntry{}, err
	}
	entry, err := s.repo.GetDiaryEntry(ctx, entryID)
	if err != nil {
		return domain.DiaryEntry{}, err
	}
	if entry.OwnerType != owner.Type || entry.OwnerID != owner.ID {
		return domain.DiaryEntry{}, domain.NotFound("diary entry", entryID)
	}
	return entry, nil
}

// UpdateDiaryEntry replaces the entry. Concurrent edits are last write wins.
func (s *Service) UpdateDiaryEntry(ctx context.Context, owner domain.EntityRef, entryID uint, value domain.DiaryEntry) (domain.DiaryEntry, error) {
	if _, err := s.diaryEntryOf(ctx, owner, entryID); err != nil {
		return domain.DiaryEntry{}, err
	}
	value, err := normalizeDiaryEntry(value)
	if err != nil {
		return domain.DiaryEntry{}, err
	}
	value.ID = entryID
	value.OwnerType = owner.Type
	value.OwnerID = owner.ID
	return s.repo.UpdateDiaryEntry(ctx, value)
}

func (s *Service) DeleteDiaryEntry(ctx context.Context, owner domain.EntityRef, entryID uint) error {
	if _, err := s.diaryEntryOf(ctx, owner, entryID); err != nil {
		return err
	}
	return s.repo.DeleteDiaryEntry(ctx, entryID)
}
