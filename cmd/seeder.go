package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/frahmantamala/asset-custody/internal"
	categoryDatamodel "github.com/frahmantamala/asset-custody/internal/core/datamodel/category"
	departmentDatamodel "github.com/frahmantamala/asset-custody/internal/core/datamodel/department"
	userDatamodel "github.com/frahmantamala/asset-custody/internal/core/datamodel/user"
	"github.com/frahmantamala/asset-custody/internal/user"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const seedAdminUsername = "admin"

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with the admin account and reference data",
	Long:  `Create the default admin user, item categories and departments. Existing rows are left alone.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := initializeDependencies(cmd.Context())
		if err != nil {
			return err
		}
		defer deps.Close()

		if clearData {
			if err := clearTables(cmd.Context(), deps.DB); err != nil {
				return err
			}
			deps.Logger.Warn("existing data cleared")
		}

		return seed(cmd.Context(), deps.DB, deps.Config.Security, deps.Logger)
	},
}

var seedCategories = []struct {
	Name string
	Desc string
}{
	{"Laptops", "portable computers"},
	{"Monitors", "external displays"},
	{"Phones", "mobile phones and handsets"},
	{"Peripherals", "keyboards, mice, headsets, docks"},
	{"Vehicles", "pool cars and motorbikes"},
}

var seedDepartments = []struct {
	Name string
	Desc string
}{
	{"Engineering", "product and platform engineering"},
	{"Operations", "facilities and logistics"},
	{"Finance", "accounting and procurement"},
	{"Human Resources", "people operations"},
}

// seed is idempotent: rows are matched by username or name and never overwritten.
func seed(ctx context.Context, db *gorm.DB, security internal.SecurityConfig, lg *slog.Logger) error {
	db = db.WithContext(ctx)

	hash, err := bcrypt.GenerateFromPassword([]byte(security.DefaultPassword), security.BCryptCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	admin := userDatamodel.User{
		Username:     seedAdminUsername,
		Email:        "admin@example.com",
		FullName:     "System Administrator",
		PasswordHash: string(hash),
		Role:         user.RoleAdmin,
		IsActive:     true,
	}
	res := db.Where("LOWER(username) = ?", seedAdminUsername).FirstOrCreate(&admin)
	if res.Error != nil {
		return fmt.Errorf("seed admin user: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		lg.Info("seeded admin user", "username", admin.Username)
	} else {
		lg.Info("admin user already exists", "username", admin.Username)
	}

	for _, c := range seedCategories {
		row := categoryDatamodel.Category{Name: c.Name, Description: c.Desc}
		res := db.Where("name = ?", c.Name).FirstOrCreate(&row)
		if res.Error != nil {
			return fmt.Errorf("seed category %s: %w", c.Name, res.Error)
		}
		if res.RowsAffected > 0 {
			lg.Info("seeded category", "name", c.Name)
		}
	}

	for _, d := range seedDepartments {
		row := departmentDatamodel.Department{Name: d.Name, Description: d.Desc}
		res := db.Where("name = ?", d.Name).FirstOrCreate(&row)
		if res.Error != nil {
			return fmt.Errorf("seed department %s: %w", d.Name, res.Error)
		}
		if res.RowsAffected > 0 {
			lg.Info("seeded department", "name", d.Name)
		}
	}

	return nil
}

// clearTables empties everything in foreign key order.
func clearTables(ctx context.Context, db *gorm.DB) error {
	if os.Getenv("APP_ENV") == "production" {
		return fmt.Errorf("refusing to clear data in production")
	}
	tables := []string{"audit_logs", "assignments", "items", "personnel", "categories", "departments", "users"}
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, t := range tables {
			if err := tx.Exec("DELETE FROM " + t).Error; err != nil {
				return fmt.Errorf("clear %s: %w", t, err)
			}
		}
		return nil
	})
}
