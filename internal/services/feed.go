package services

import (
	"gorm.io/gorm"

	"github.com/newsguild/warboard/internal/auth"
	"github.com/newsguild/warboard/internal/models"
	"github.com/newsguild/warboard/internal/policy"
)

// FeedItem is one post as presented to a specific viewer.
type FeedItem struct {
	models.News
	// Affordance is "delete" when the viewer may remove the post,
	// "hide" otherwise.
	Affordance string
}

// FeedService builds the filtered, sorted sequence of posts visible to
// a viewer.
type FeedService struct {
	db *gorm.DB
}

func NewFeedService(db *gorm.DB) *FeedService {
	return &FeedService{db: db}
}

// Feed returns every post except those the viewer has hidden, ordered
// by the viewer's preferences.
func (s *FeedService) Feed(viewer *models.User, prefs auth.Prefs) ([]FeedItem, error) {
	return s.query(viewer, prefs, 0)
}

// AuthorFeed is the profile-page variant: same filter and sort, but
// restricted to a single author's posts.
func (s *FeedService) AuthorFeed(viewer *models.User, authorID uint, prefs auth.Prefs) ([]FeedItem, error) {
	return s.query(viewer, prefs, authorID)
}

func (s *FeedService) query(viewer *models.User, prefs auth.Prefs, authorID uint) ([]FeedItem, error) {
	hidden := s.db.Model(&models.HiddenNews{}).Select("news_id").Where("user_id = ?", viewer.ID)
	q := s.db.Model(&models.News{}).Where("id NOT IN (?)", hidden)
	if authorID != 0 {
		q = q.Where("author_id = ?", authorID)
	}
	q = q.Order(orderClause(prefs))

	var news []models.News
	if err := q.Find(&news).Error; err != nil {
		return nil, err
	}
	items := make([]FeedItem, 0, len(news))
	for i := range news {
		items = append(items, FeedItem{
			News:       news[i],
			Affordance: policy.Affordance(viewer, &news[i]),
		})
	}
	return items, nil
}

// orderClause maps preferences to SQL ordering. Title sort tie-breaks
// on id; the tie-break direction follows the sort direction so that
// reversing the sort reverses the whole sequence exactly.
func orderClause(prefs auth.Prefs) string {
	dir := "ASC"
	if prefs.Reverse {
		dir = "DESC"
	}
	if prefs.SortBy == auth.SortByTitle {
		return "title " + dir + ", id " + dir
	}
	return "id " + dir
}
