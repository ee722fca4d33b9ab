package db

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrUserExists         = errors.New("username or email already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidSignup      = errors.New("username, email and password are required")
)

// Signup creates a user together with their tracked-mods modlist.
func Signup(gdb *gorm.DB, username, email, password string) (*User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || email == "" || password == "" {
		return nil, ErrInvalidSignup
	}
	if len(username) > 30 || len(email) > 30 {
		return nil, fmt.Errorf("%w: username and email are limited to 30 characters", ErrInvalidSignup)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &User{
		Username: username,
		Email:    email,
		Password: string(hashed),
		HideNSFW: true,
	}
	err = gdb.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&User{}).Where("username = ? OR email = ?", username, email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrUserExists
		}
		if err := tx.Create(user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrUserExists
			}
			return err
		}
		_, err := EnsureTrackedModlist(tx, user.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate checks a username/password pair.
func Authenticate(gdb *gorm.DB, username, password string) (*User, error) {
	user, err := UserByName(gdb, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func UserByName(gdb *gorm.DB, username string) (*User, error) {
	var user User
	err := gdb.Where("username = ?", strings.TrimSpace(username)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func UserByID(gdb *gorm.DB, id int) (*User, error) {
	var user User
	err := gdb.First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ChangePassword replaces the password after verifying the current one.
func ChangePassword(gdb *gorm.DB, userID int, current, next string) error {
	user, err := UserByID(gdb, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(current)); err != nil {
		return ErrInvalidCredentials
	}
	if next == "" {
		return ErrInvalidSignup
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return gdb.Model(&User{}).Where("id = ?", userID).Update("password", string(hashed)).Error
}

func SetHideNSFW(gdb *gorm.DB, userID int, hide bool) error {
	res := gdb.Model(&User{}).Where("id = ?", userID).Update("hide_nsfw", hide)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// DeleteUser removes a user, their modlists and keep-tracked entries.
func DeleteUser(gdb *gorm.DB, userID int) error {
	return gdb.Transaction(func(tx *gorm.DB) error {
		if _, err := UserByID(tx, userID); err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM keep_tracked WHERE user_id = ?", userID).Error; err != nil {
			return err
		}
		var ids []int
		if err := tx.Model(&Modlist{}).Where("user_id = ?", userID).Pluck("id", &ids).Error; err != nil {
			return err
		}
		if len(ids) > 0 {
			if err := tx.Exec("DELETE FROM modlist_mod WHERE modlist_id IN ?", ids).Error; err != nil {
				return err
			}
			if err := tx.Exec("DELETE FROM game_modlist WHERE modlist_id IN ?", ids).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", ids).Delete(&Modlist{}).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&User{}, userID).Error
	})
}

// EnsureTrackedModlist returns the user's tracked-mods modlist, creating it
// if it does not exist yet.
func EnsureTrackedModlist(tx *gorm.DB, userID int) (*Modlist, error) {
	ml, err := FindTrackedModlist(tx, userID)
	if err == nil {
		return ml, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	desc := TrackedModlistDescription
	created := Modlist{
		Name:        TrackedModlistName,
		Description: &desc,
		Private:     true,
		UserID:      userID,
		LastUpdated: time.Now().UTC(),
	}
	if err := tx.Create(&created).Error; err != nil {
		return nil, fmt.Errorf("failed to create tracked modlist: %w", err)
	}
	return &created, nil
}

// FindTrackedModlist returns gorm.ErrRecordNotFound when the user has none.
func FindTrackedModlist(tx *gorm.DB, userID int) (*Modlist, error) {
	var ml Modlist
	if err := tx.Where("user_id = ? AND name = ?", userID, TrackedModlistName).First(&ml).Error; err != nil {
		return nil, err
	}
	return &ml, nil
}
