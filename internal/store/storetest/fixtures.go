package storetest

import (
	"fmt"
	"time"

	assignmentDatamodel "github.com/frahmantamala/asset-custody/internal/core/datamodel/assignment"
	categoryDatamodel "github.com/frahmantamala/asset-custody/internal/core/datamodel/category"
	departmentDatamodel "github.com/frahmantamala/asset-custody/internal/core/datamodel/department"
	itemDatamodel "github.com/frahmantamala/asset-custody/internal/core/datamodel/item"
	personnelDatamodel "github.com/frahmantamala/asset-custody/internal/core/datamodel/personnel"
	userDatamodel "github.com/frahmantamala/asset-custody/internal/core/datamodel/user"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Fixtures inserts rows directly, bypassing services, so tests can arrange state in one line.
type Fixtures struct {
	DB *gorm.DB
}

func NewFixtures(db *gorm.DB) *Fixtures {
	return &Fixtures{DB: db}
}

func (f *Fixtures) must(err error) {
	if err != nil {
		panic(fmt.Sprintf("storetest fixture: %v", err))
	}
}

func (f *Fixtures) User(username, role string) *userDatamodel.User {
	u := &userDatamodel.User{
		Username:     username,
		Email:        username + "@example.com",
		FullName:     username,
		PasswordHash: "x",
		Role:         role,
		IsActive:     true,
	}
	f.must(f.DB.Create(u).Error)
	return u
}

func (f *Fixtures) Department(name string) *departmentDatamodel.Department {
	d := &departmentDatamodel.Department{Name: name}
	f.must(f.DB.Create(d).Error)
	return d
}

func (f *Fixtures) Category(name string) *categoryDatamodel.Category {
	c := &categoryDatamodel.Category{Name: name}
	f.must(f.DB.Create(c).Error)
	return c
}

func (f *Fixtures) Personnel(name, employeeNumber string, departmentID int64, active bool) *personnelDatamodel.Personnel {
	p := &personnelDatamodel.Personnel{
		Name:           name,
		EmployeeNumber: employeeNumber,
		DepartmentID:   departmentID,
		IsActive:       active,
	}
	f.must(f.DB.Create(p).Error)
	return p
}

func (f *Fixtures) Item(name string, categoryID int64, status string) *itemDatamodel.Item {
	i := &itemDatamodel.Item{Name: name, CategoryID: categoryID, Status: status}
	f.must(f.DB.Create(i).Error)
	return i
}

// Assignment writes a ledger row without touching the item's status.
func (f *Fixtures) Assignment(personnelID, itemID, byUserID int64, status string) *assignmentDatamodel.Assignment {
	a := &assignmentDatamodel.Assignment{
		AssignmentNumber: "FIX-" + uuid.NewString(),
		PersonnelID:      personnelID,
		ItemID:           itemID,
		AssignedByUserID: byUserID,
		AssignedDate:     time.Now(),
		Status:           status,
	}
	if status != "active" {
		now := time.Now()
		a.ReturnedByUserID = &byUserID
		a.ReturnedDate = &now
	}
	f.must(f.DB.Create(a).Error)
	return a
}
