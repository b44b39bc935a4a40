package report_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/frahmantamala/asset-custody/internal/core/events"
	"github.com/frahmantamala/asset-custody/internal/report"
	reportPostgres "github.com/frahmantamala/asset-custody/internal/report/postgres"
	"github.com/frahmantamala/asset-custody/internal/store/storetest"
	"github.com/frahmantamala/asset-custody/internal/transport"
	"github.com/jmoiron/sqlx"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

func TestReport(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Report Suite")
}

// memoryCache is a map-backed Cache that counts reads, writes and invalidations.
type memoryCache struct {
	entries       map[string][]byte
	hits, sets    int
	invalidations int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string][]byte{}}
}

func (c *memoryCache) Get(_ context.Context, key string, dst interface{}) (bool, error) {
	b, ok := c.entries[key]
	if !ok {
		return false, nil
	}
	c.hits++
	return true, json.Unmarshal(b, dst)
}

func (c *memoryCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.sets++
	c.entries[key] = b
	return nil
}

func (c *memoryCache) Invalidate(context.Context) error {
	c.invalidations++
	c.entries = map[string][]byte{}
	return nil
}

var _ = Describe("Report Service", func() {
	var (
		db      *gorm.DB
		fx      *storetest.Fixtures
		service *report.Service
		cache   *memoryCache
		logger  *slog.Logger
		ctx     context.Context
	)

	BeforeEach(func() {
		var err error
		db, err = storetest.Open()
		Expect(err).NotTo(HaveOccurred())

		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())

		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
		fx = storetest.NewFixtures(db)
		cache = newMemoryCache()
		service = report.NewService(reportPostgres.NewReportRepository(sqlx.NewDb(sqlDB, "sqlite3")), cache, time.Minute, logger)
		ctx = context.Background()
	})

	AfterEach(func() {
		Expect(storetest.Close(db)).To(Succeed())
	})

	seed := func() (laptops int64) {
		u := fx.User("mgr", "manager")
		ops := fx.Department("Ops")
		fx.Department("Idle")
		a := fx.Personnel("A", "E-1", ops.ID, true)
		fx.Personnel("B", "E-2", ops.ID, true)
		fx.Personnel("C", "E-3", ops.ID, false)

		cat := fx.Category("Laptops")
		fx.Category("Empty")
		issued := fx.Item("L1", cat.ID, "assigned")
		fx.Item("L2", cat.ID, "available")
		fx.Item("L3", cat.ID, "available")
		fx.Item("L4", cat.ID, "lost")
		fx.Assignment(a.ID, issued.ID, u.ID, "active")
		return cat.ID
	}

	It("reads totals in one pass", func() {
		seed()

		totals, err := service.GetTotals(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(*totals).To(Equal(report.Totals{
			ActivePersonnel:   2,
			TotalItems:        4,
			ActiveAssignments: 1,
			AvailableItems:    2,
		}))
	})

	It("computes an exact utilization ratio and zero for empty categories", func() {
		laptops := seed()

		rows, err := service.GetCategoryDistribution(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(rows).To(HaveLen(2))

		Expect(rows[0].CategoryName).To(Equal("Empty"))
		Expect(rows[0].Total).To(BeZero())
		Expect(rows[0].UtilizationRatio).To(Equal(0.0))

		Expect(rows[1].CategoryID).To(Equal(laptops))
		Expect(rows[1].Total).To(Equal(int64(4)))
		Expect(rows[1].Assigned).To(Equal(int64(1)))
		Expect(rows[1].Available).To(Equal(int64(2)))
		Expect(rows[1].UtilizationRatio).To(Equal(0.25))
	})

	It("counts only active personnel per department", func() {
		seed()

		rows, err := service.GetDepartmentDistribution(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(rows).To(HaveLen(2))

		Expect(rows[0].DepartmentName).To(Equal("Idle"))
		Expect(rows[0].Ratio).To(Equal(0.0))

		Expect(rows[1].ActivePersonnel).To(Equal(int64(2)))
		Expect(rows[1].ActiveAssignments).To(Equal(int64(1)))
		Expect(rows[1].Ratio).To(Equal(0.5))
	})

	It("returns recent assignments with display data and caps the limit", func() {
		seed()

		rows, err := service.GetRecentAssignments(ctx, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(rows).To(HaveLen(1))
		Expect(rows[0].PersonnelName).To(Equal("A"))
		Expect(rows[0].ItemName).To(Equal("L1"))
		Expect(rows[0].AssignedByUsername).To(Equal("mgr"))

		_, err = service.GetRecentAssignments(ctx, 5000)
		Expect(err).NotTo(HaveOccurred())
		Expect(cache.entries).To(HaveKey("recent:100"))
		Expect(cache.entries).To(HaveKey("recent:10"))
	})

	It("serves repeated reads from the cache until an event invalidates it", func() {
		seed()
		bus := events.NewEventBus(logger)
		report.NewEventHandler(cache, logger).Register(bus)

		_, err := service.GetTotals(ctx)
		Expect(err).NotTo(HaveOccurred())
		_, err = service.GetTotals(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(cache.sets).To(Equal(1))
		Expect(cache.hits).To(Equal(1))

		bus.Publish(ctx, events.NewAssignmentClosedEvent(1, 1, "returned", 1))
		Expect(cache.invalidations).To(Equal(1))

		_, err = service.GetTotals(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(cache.sets).To(Equal(2))
	})

	It("serves the dashboard over HTTP", func() {
		seed()
		handler := report.NewHandler(transport.NewBaseHandler(logger), service)

		w := httptest.NewRecorder()
		handler.GetCategories(w, httptest.NewRequest(http.MethodGet, "/dashboard/categories", nil))
		Expect(w.Code).To(Equal(http.StatusOK))

		var body struct {
			Categories []report.CategoryDistribution `json:"categories"`
		}
		Expect(json.NewDecoder(w.Body).Decode(&body)).To(Succeed())
		Expect(body.Categories).To(HaveLen(2))
		Expect(body.Categories[1].UtilizationRatio).To(Equal(0.25))
	})
})
