package personnel_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	errors "github.com/frahmantamala/asset-custody/internal"
	"github.com/frahmantamala/asset-custody/internal/audit"
	auditPostgres "github.com/frahmantamala/asset-custody/internal/audit/postgres"
	"github.com/frahmantamala/asset-custody/internal/core/deletion"
	"github.com/frahmantamala/asset-custody/internal/core/events"
	"github.com/frahmantamala/asset-custody/internal/personnel"
	personnelPostgres "github.com/frahmantamala/asset-custody/internal/personnel/postgres"
	"github.com/frahmantamala/asset-custody/internal/store/storetest"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

func TestPersonnel(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Personnel Suite")
}

var _ = Describe("Personnel Service", func() {
	var (
		db      *gorm.DB
		fx      *storetest.Fixtures
		service *personnel.Service
		deptID  int64
		ctx     context.Context
	)

	BeforeEach(func() {
		var err error
		db, err = storetest.Open()
		Expect(err).NotTo(HaveOccurred())

		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		fx = storetest.NewFixtures(db)
		service = personnel.NewService(
			personnelPostgres.NewPersonnelRepository(db),
			storetest.Transactor(db),
			audit.NewService(auditPostgres.NewAuditRepository(db), logger),
			events.NopPublisher{},
			logger,
		)
		deptID = fx.Department("Engineering").ID
		ctx = context.Background()
	})

	AfterEach(func() {
		Expect(storetest.Close(db)).To(Succeed())
	})

	It("creates active personnel", func() {
		p, err := service.Create(ctx, 1, personnel.CreatePersonnelDTO{Name: "Ada", EmployeeNumber: "E-100", DepartmentID: deptID})
		Expect(err).NotTo(HaveOccurred())
		Expect(p.IsActive).To(BeTrue())
		Expect(p.ID).To(BeNumerically(">", 0))
	})

	It("accumulates name, duplicate number and unknown department", func() {
		fx.Personnel("Existing", "E-1", deptID, true)

		_, err := service.Create(ctx, 1, personnel.CreatePersonnelDTO{Name: " ", EmployeeNumber: "E-1", DepartmentID: 999})
		appErr, ok := errors.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.Details.(errors.ValidationErrors).Fields()).To(ConsistOf("name", "employee_number", "department_id"))
	})

	It("lets a record keep its own employee number on update", func() {
		p := fx.Personnel("Bea", "E-2", deptID, true)

		updated, err := service.Update(ctx, 1, p.ID, personnel.UpdatePersonnelDTO{Name: "Beatrice", EmployeeNumber: "E-2", DepartmentID: deptID})
		Expect(err).NotTo(HaveOccurred())
		Expect(updated.Name).To(Equal("Beatrice"))
	})

	It("rejects taking another record's employee number", func() {
		fx.Personnel("Cy", "E-3", deptID, true)
		p := fx.Personnel("Di", "E-4", deptID, true)

		_, err := service.Update(ctx, 1, p.ID, personnel.UpdatePersonnelDTO{Name: "Di", EmployeeNumber: "E-3", DepartmentID: deptID})
		Expect(errors.HasType(err, errors.ErrorTypeValidation)).To(BeTrue())
	})

	It("hard-deletes unreferenced personnel", func() {
		p := fx.Personnel("Ed", "E-5", deptID, true)

		result, err := service.Delete(ctx, 1, p.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Outcome).To(Equal(deletion.OutcomeHardDeleted))

		_, err = service.GetByID(ctx, p.ID)
		Expect(err).To(MatchError(personnel.ErrPersonnelNotFound))
	})

	It("deactivates personnel with assignment history", func() {
		u := fx.User("issuer", "manager")
		cat := fx.Category("Cameras")
		p := fx.Personnel("Flo", "E-6", deptID, true)
		i := fx.Item("Cam", cat.ID, "available")
		fx.Assignment(p.ID, i.ID, u.ID, "returned")

		result, err := service.Delete(ctx, u.ID, p.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Outcome).To(Equal(deletion.OutcomeDeactivated))

		got, err := service.GetByID(ctx, p.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(got.IsActive).To(BeFalse())
	})

	It("lists by department", func() {
		other := fx.Department("Sales")
		fx.Personnel("Gus", "E-7", deptID, true)
		fx.Personnel("Hal", "E-8", other.ID, true)

		result, err := service.List(ctx, personnel.ListPersonnelFilter{DepartmentID: other.ID})
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Total).To(Equal(int64(1)))
		Expect(result.Personnel[0].Name).To(Equal("Hal"))
	})
})
