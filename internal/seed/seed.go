package seed

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallretail/tillpoint/internal/config"
	userdomain "github.com/smallretail/tillpoint/internal/user/domain"
	"github.com/smallretail/tillpoint/internal/user/password"
	"gorm.io/gorm"
)

const defaultAdminPassword = "admin123"

// EnsureAdminUser seeds the bootstrap admin so a fresh install can log
// in before any users are created through the API.
func EnsureAdminUser(db *gorm.DB, node *snowflake.Node, cfg config.Config) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}
	if node == nil {
		return errors.New("seed id node is required")
	}

	username := strings.TrimSpace(cfg.BootstrapAdminUser)
	if username == "" {
		username = "admin"
	}
	pass := cfg.BootstrapAdminPassword
	if pass == "" {
		pass = defaultAdminPassword
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing userdomain.User
		err := tx.Raw(`SELECT * FROM users WHERE username = ?`, username).Scan(&existing).Error
		if err != nil {
			return err
		}
		if existing.ID != 0 {
			return nil
		}

		hash, err := password.Hash(pass)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		return tx.Create(&userdomain.User{
			ID:           node.Generate().Int64(),
			Username:     username,
			FullName:     "Store Admin",
			PasswordHash: hash,
			Role:         userdomain.RoleAdmin,
			Active:       true,
			CreatedAt:    now,
			UpdatedAt:    now,
		}).Error
	})
}
