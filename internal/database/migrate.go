package database

import (
	"fmt"

	"github.com/pageza/cucina/backend/internal/logger"
	"github.com/pageza/cucina/backend/internal/model"
	"gorm.io/gorm"
)

// Tables lists every row type in creation order.
func Tables() []interface{} {
	return []interface{}{
		&model.Recipe{},
		&model.Ingredient{},
		&model.User{},
		&model.Poll{},
		&model.PollOption{},
	}
}

// RunMigrations creates the current schema. Existing tables are extended,
// never dropped.
func RunMigrations(db *gorm.DB, log *logger.Logger) error {
	log.Info("creating schema", "dialect", db.Dialector.Name())
	if err := db.AutoMigrate(Tables()...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}
