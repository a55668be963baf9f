package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/newsguild/warboard/internal/models"
	"github.com/newsguild/warboard/internal/policy"
)

// NewsService implements post creation, deletion and per-viewer
// visibility.
type NewsService struct {
	db *gorm.DB
}

func NewNewsService(db *gorm.DB) *NewsService {
	return &NewsService{db: db}
}

// Create persists a post with the author's display identity copied in,
// so later profile edits do not rewrite history.
func (s *NewsService) Create(author *models.User, title, body string) (*models.News, error) {
	news := models.News{
		Title:        title,
		Body:         body,
		AuthorID:     author.ID,
		AuthorName:   author.UserName,
		FactionBadge: author.FactionBadge(),
		ThemeColor:   author.ThemeColor(),
	}
	if err := s.db.Create(&news).Error; err != nil {
		return nil, err
	}
	return &news, nil
}

// ByID fetches a post or ErrNotFound.
func (s *NewsService) ByID(id uint) (*models.News, error) {
	var news models.News
	if err := s.db.First(&news, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &news, nil
}

// Delete removes a post on behalf of actor. Only the author or an
// admin may delete.
func (s *NewsService) Delete(actor *models.User, newsID uint) error {
	news, err := s.ByID(newsID)
	if err != nil {
		return err
	}
	if !policy.CanDeleteNews(actor, news) {
		return ErrForbidden
	}
	return s.Purge(newsID)
}

// Purge removes a post unconditionally, first clearing the id from
// every user's hidden set so no dangling hidden reference remains.
// Both steps run in one transaction. The REST surface calls this
// directly; the HTML surface goes through Delete.
func (s *NewsService) Purge(newsID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("news_id = ?", newsID).Delete(&models.HiddenNews{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.News{}, newsID).Error
	})
}

// Hide adds the post to the viewer's hidden set. Hiding an
// already-hidden post is a no-op.
func (s *NewsService) Hide(userID, newsID uint) error {
	if _, err := s.ByID(newsID); err != nil {
		return err
	}
	mark := models.HiddenNews{UserID: userID, NewsID: newsID}
	err := s.db.Where("user_id = ? AND news_id = ?", userID, newsID).
		FirstOrCreate(&mark).Error
	if isDuplicate(err) {
		// Raced with another hide of the same pair; the mark exists.
		return nil
	}
	return err
}

// Unhide removes the post from the viewer's hidden set; tolerant of
// the mark already being absent.
func (s *NewsService) Unhide(userID, newsID uint) error {
	return s.db.Where("user_id = ? AND news_id = ?", userID, newsID).
		Delete(&models.HiddenNews{}).Error
}

// HiddenIDs returns the ids currently hidden by a user, in id order.
func (s *NewsService) HiddenIDs(userID uint) ([]uint, error) {
	var ids []uint
	err := s.db.Model(&models.HiddenNews{}).Where("user_id = ?", userID).
		Order("news_id").Pluck("news_id", &ids).Error
	return ids, err
}
