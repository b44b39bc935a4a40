package item_test

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
	"github.com/frahmantamala/asset-custody/internal/item"
	itemPostgres "github.com/frahmantamala/asset-custody/internal/item/postgres"
	"github.com/frahmantamala/asset-custody/internal/store/storetest"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

func TestItem(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Item Suite")
}

var _ = Describe("Item Service", func() {
	var (
		db       *gorm.DB
		fx       *storetest.Fixtures
		service  *item.Service
		auditSvc *audit.Service
		catID    int64
		ctx      context.Context
	)

	BeforeEach(func() {
		var err error
		db, err = storetest.Open()
		Expect(err).NotTo(HaveOccurred())

		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		fx = storetest.NewFixtures(db)
		auditSvc = audit.NewService(auditPostgres.NewAuditRepository(db), logger)
		service = item.NewService(itemPostgres.NewItemRepository(db), storetest.Transactor(db), auditSvc, events.NopPublisher{}, logger)
		catID = fx.Category("Laptops").ID
		ctx = context.Background()
	})

	AfterEach(func() {
		Expect(storetest.Close(db)).To(Succeed())
	})

	It("starts new items as available", func() {
		it, err := service.Create(ctx, 1, item.ItemDTO{Name: "ThinkPad", CategoryID: catID})
		Expect(err).NotTo(HaveOccurred())
		Expect(it.Status).To(Equal(item.StatusAvailable))
	})

	It("rejects a missing name and an unknown category together", func() {
		_, err := service.Create(ctx, 1, item.ItemDTO{Name: "", CategoryID: 42})
		appErr, ok := errors.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.Details.(errors.ValidationErrors).Fields()).To(ConsistOf("name", "category_id"))
	})

	It("leaves status alone on update", func() {
		row := fx.Item("Old name", catID, item.StatusLost)

		it, err := service.Update(ctx, 1, row.ID, item.ItemDTO{Name: "New name", CategoryID: catID})
		Expect(err).NotTo(HaveOccurred())
		Expect(it.Name).To(Equal("New name"))

		got, err := service.GetByID(ctx, row.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(got.Status).To(Equal(item.StatusLost))
	})

	Describe("Delete", func() {
		var issuer, holder int64

		BeforeEach(func() {
			issuer = fx.User("mgr", "manager").ID
			holder = fx.Personnel("Pat", "E-1", fx.Department("Ops").ID, true).ID
		})

		It("hard-deletes an item with no history", func() {
			row := fx.Item("Spare", catID, item.StatusAvailable)

			result, err := service.Delete(ctx, issuer, row.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Outcome).To(Equal(deletion.OutcomeHardDeleted))

			_, err = service.GetByID(ctx, row.ID)
			Expect(err).To(MatchError(item.ErrItemNotFound))
		})

		It("retires an item with closed history", func() {
			row := fx.Item("Used", catID, item.StatusAvailable)
			fx.Assignment(holder, row.ID, issuer, "returned")

			result, err := service.Delete(ctx, issuer, row.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Outcome).To(Equal(deletion.OutcomeRetired))

			got, err := service.GetByID(ctx, row.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Status).To(Equal(item.StatusRetired))

			entries, _ := auditSvc.List(ctx, audit.ListFilter{Entity: audit.EntityItem, EntityID: row.ID})
			Expect(entries[0].Action).To(Equal(audit.ActionRetire))
		})

		It("refuses while the item is issued", func() {
			row := fx.Item("Out", catID, item.StatusAssigned)
			fx.Assignment(holder, row.ID, issuer, "active")

			_, err := service.Delete(ctx, issuer, row.ID)
			Expect(err).To(MatchError(item.ErrItemInCustody))

			got, _ := service.GetByID(ctx, row.ID)
			Expect(got.Status).To(Equal(item.StatusAssigned))
		})
	})

	It("filters by status and rejects unknown statuses", func() {
		fx.Item("A", catID, item.StatusAvailable)
		fx.Item("B", catID, item.StatusDamaged)

		result, err := service.List(ctx, item.ListItemsFilter{Status: item.StatusDamaged})
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Total).To(Equal(int64(1)))
		Expect(result.Items[0].Name).To(Equal("B"))

		_, err = service.List(ctx, item.ListItemsFilter{Status: "stolen"})
		Expect(errors.HasType(err, errors.ErrorTypeValidation)).To(BeTrue())
	})
})
