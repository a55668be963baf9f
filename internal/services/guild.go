package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/newsguild/warboard/internal/models"
)

// GuildService maintains the mutual guild relation. The invariant is
// symmetry: for any pair (a, b), either both link rows exist or
// neither does. Add and Remove therefore always touch both rows inside
// a single transaction.
type GuildService struct {
	db *gorm.DB
}

func NewGuildService(db *gorm.DB) *GuildService {
	return &GuildService{db: db}
}

// Members returns the users linked with userID, in id order.
func (s *GuildService) Members(userID uint) ([]models.User, error) {
	var members []models.User
	err := s.db.
		Joins("JOIN guild_links ON guild_links.member_id = users.id").
		Where("guild_links.user_id = ?", userID).
		Order("users.id").
		Find(&members).Error
	return members, err
}

// Add links actor with the target user. Rejects the zero sentinel id
// and self-links, missing targets, and cross-faction pairs. On success
// both directions are inserted in the same transaction; a pre-existing
// one-sided link is completed rather than treated as an error.
func (s *GuildService) Add(actor *models.User, targetID uint) error {
	if targetID == 0 || targetID == actor.ID {
		return ErrSelfLink
	}
	var target models.User
	if err := s.db.First(&target, targetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if target.Faction != actor.Faction {
		return ErrFactionMismatch
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		for _, pair := range [][2]uint{{actor.ID, targetID}, {targetID, actor.ID}} {
			link := models.GuildLink{UserID: pair[0], MemberID: pair[1]}
			err := tx.Where("user_id = ? AND member_id = ?", pair[0], pair[1]).
				FirstOrCreate(&link).Error
			if err != nil && !isDuplicate(err) {
				return err
			}
		}
		return nil
	})
}

// Remove unlinks actor and target. Both directions are deleted in one
// transaction; a missing row on either side is repaired silently
// instead of failing.
func (s *GuildService) Remove(actor *models.User, targetID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ? AND member_id = ?", actor.ID, targetID).
			Delete(&models.GuildLink{}).Error; err != nil {
			return err
		}
		return tx.Where("user_id = ? AND member_id = ?", targetID, actor.ID).
			Delete(&models.GuildLink{}).Error
	})
}
