package store

import (
	"fmt"

	assignmentDatamodel "github.com/frahmantamala/asset-custody/internal/core/datamodel/assignment"
	auditDatamodel "github.com/frahmantamala/asset-custody/internal/core/datamodel/audit"
	categoryDatamodel "github.com/frahmantamala/asset-custody/internal/core/datamodel/category"
	departmentDatamodel "github.com/frahmantamala/asset-custody/internal/core/datamodel/department"
	itemDatamodel "github.com/frahmantamala/asset-custody/internal/core/datamodel/item"
	personnelDatamodel "github.com/frahmantamala/asset-custody/internal/core/datamodel/personnel"
	userDatamodel "github.com/frahmantamala/asset-custody/internal/core/datamodel/user"
	"gorm.io/gorm"
)

// OneActivePerItemIndex backs the single-custodian rule at the storage level.
const OneActivePerItemIndex = "assignments_one_active_per_item"

// AutoMigrate creates the schema from the row structs. Production uses the goose files under
// db/migrations; this is for tests and local sqlite runs.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&userDatamodel.User{},
		&departmentDatamodel.Department{},
		&categoryDatamodel.Category{},
		&personnelDatamodel.Personnel{},
		&itemDatamodel.Item{},
		&assignmentDatamodel.Assignment{},
		&auditDatamodel.Log{},
	); err != nil {
		return err
	}

	// at most one open assignment per item
	return db.Exec(fmt.Sprintf(`
	  CREATE UNIQUE INDEX IF NOT EXISTS %s
	  ON assignments (item_id)
	  WHERE status = 'active';
	`, OneActivePerItemIndex)).Error
}
