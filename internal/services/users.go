package services

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/newsguild/warboard/internal/models"
)

// UserService implements registration, authentication and account
// maintenance.
type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// Register creates a user with a bcrypt-hashed password. Returns
// ErrNameTaken when the username is already in use; no partial row is
// left behind in that case.
func (s *UserService) Register(userName, password, faction string) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := models.User{
		UserName:     userName,
		PasswordHash: string(hash),
		Faction:      faction,
		Role:         models.RoleUser,
	}
	if err := s.db.Create(&user).Error; err != nil {
		if isDuplicate(err) {
			return nil, ErrNameTaken
		}
		return nil, err
	}
	return &user, nil
}

// Authenticate looks the user up by exact username and compares the
// bcrypt hash. Unknown users and wrong passwords are indistinguishable
// to the caller.
func (s *UserService) Authenticate(userName, password string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("user_name = ?", userName).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBadCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrBadCredentials
	}
	return &user, nil
}

// ByID fetches a user or ErrNotFound.
func (s *UserService) ByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// Exists reports whether a user id resolves; used as the session
// verifier so stale cookies for deleted users are rejected.
func (s *UserService) Exists(id uint) bool {
	var count int64
	s.db.Model(&models.User{}).Where("id = ?", id).Count(&count)
	return count > 0
}

// Rename changes the username, subject to the same uniqueness rule as
// registration.
func (s *UserService) Rename(id uint, newName string) error {
	err := s.db.Model(&models.User{}).Where("id = ?", id).
		Update("user_name", newName).Error
	if isDuplicate(err) {
		return ErrNameTaken
	}
	return err
}

// ChangePassword verifies the current password before storing the new
// hash.
func (s *UserService) ChangePassword(id uint, current, next string) error {
	user, err := s.ByID(id)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)); err != nil {
		return ErrBadCredentials
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.db.Model(&models.User{}).Where("id = ?", id).
		Update("password_hash", string(hash)).Error
}

// SetAvatarExt records which uploaded image extension belongs to the user.
func (s *UserService) SetAvatarExt(id uint, ext string) error {
	return s.db.Model(&models.User{}).Where("id = ?", id).
		Update("avatar_ext", ext).Error
}

// UserInfo is one row of the admin listing.
type UserInfo struct {
	models.User
	NewsCount int64
}

// ListWithNewsCounts returns every user together with the number of
// posts they authored, for the admin page.
func (s *UserService) ListWithNewsCounts() ([]UserInfo, error) {
	var users []models.User
	if err := s.db.Order("id").Find(&users).Error; err != nil {
		return nil, err
	}
	infos := make([]UserInfo, 0, len(users))
	for _, u := range users {
		var count int64
		if err := s.db.Model(&models.News{}).Where("author_id = ?", u.ID).Count(&count).Error; err != nil {
			return nil, err
		}
		infos = append(infos, UserInfo{User: u, NewsCount: count})
	}
	return infos, nil
}

// Delete removes a user and everything that references them: their
// posts (and every hidden mark pointing at those posts), their own
// hidden marks, and both directions of their guild links. All of it
// runs in one transaction so no dangling reference can survive a
// partial failure.
func (s *UserService) Delete(id uint) error {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		var newsIDs []uint
		if err := tx.Model(&models.News{}).Where("author_id = ?", id).
			Pluck("id", &newsIDs).Error; err != nil {
			return err
		}
		if len(newsIDs) > 0 {
			if err := tx.Where("news_id IN ?", newsIDs).Delete(&models.HiddenNews{}).Error; err != nil {
				return err
			}
			if err := tx.Where("author_id = ?", id).Delete(&models.News{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.HiddenNews{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ? OR member_id = ?", id, id).Delete(&models.GuildLink{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, id).Error
	})
}
