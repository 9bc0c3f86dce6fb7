// internal/services/service_test.go
package services

import (
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/storyweave/storyweave-backend/internal/config"
	"github.com/storyweave/storyweave-backend/internal/models"
	"github.com/storyweave/storyweave-backend/internal/utils"
)

const (
	creatorAddr     = "0x1111111111111111111111111111111111111111"
	contributorAddr = "0x2222222222222222222222222222222222222222"
	voterAddr       = "0x3333333333333333333333333333333333333333"
	otherAddr       = "0x4444444444444444444444444444444444444444"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	// A second connection to :memory: would be a second empty database
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get underlying sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.User{},
		&models.Asset{},
		&models.Contribution{},
		&models.ContributionVote{},
		&models.RoyaltySplit{},
		&models.RoyaltyRecipient{},
		&models.Distribution{},
		&models.RevenueTransaction{},
		&models.Notification{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

func newTestConfig() *config.Config {
	return &config.Config{
		Environment: "test",
		Chain: config.ChainConfig{
			Network: "testnet",
		},
	}
}

func paginationDefaults() utils.PaginationParams {
	return utils.PaginationParams{
		Page:  1,
		Limit: 20,
		Sort:  "created_at",
		Order: "asc",
	}
}

func seedAsset(t *testing.T, db *gorm.DB, kind models.AssetKind, creator string) *models.Asset {
	t.Helper()

	asset := &models.Asset{
		Kind:           kind,
		Name:           fmt.Sprintf("Test %s", kind),
		Description:    "seeded asset",
		CreatorAddress: creator,
		Status:         models.AssetStatusMinted,
	}
	if err := db.Create(asset).Error; err != nil {
		t.Fatalf("failed to seed asset: %v", err)
	}
	return asset
}

func seedContribution(t *testing.T, db *gorm.DB, asset *models.Asset, contributor string) *models.Contribution {
	t.Helper()

	contribution := &models.Contribution{
		AssetID:            asset.ID,
		Kind:               models.ContributionKindStory,
		Title:              "The Lost Chapter",
		Description:        "a new story arc",
		ContributorAddress: contributor,
		Status:             models.ContributionStatusPending,
	}
	if err := db.Create(contribution).Error; err != nil {
		t.Fatalf("failed to seed contribution: %v", err)
	}
	return contribution
}
