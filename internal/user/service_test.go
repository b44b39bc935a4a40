package user_test

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
	"github.com/frahmantamala/asset-custody/internal/store/storetest"
	"github.com/frahmantamala/asset-custody/internal/user"
	userPostgres "github.com/frahmantamala/asset-custody/internal/user/postgres"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func TestUser(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "User Suite")
}

func fieldsOf(err error) []string {
	appErr, ok := errors.IsAppError(err)
	Expect(ok).To(BeTrue())
	Expect(appErr.Type).To(Equal(errors.ErrorTypeValidation))
	return appErr.Details.(errors.ValidationErrors).Fields()
}

var _ = Describe("User Service", func() {
	var (
		db       *gorm.DB
		fx       *storetest.Fixtures
		repo     *userPostgres.UserRepository
		auditSvc *audit.Service
		service  *user.Service
		admin    int64
		ctx      context.Context
	)

	BeforeEach(func() {
		var err error
		db, err = storetest.Open()
		Expect(err).NotTo(HaveOccurred())

		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		fx = storetest.NewFixtures(db)
		repo = userPostgres.NewUserRepository(db)
		auditSvc = audit.NewService(auditPostgres.NewAuditRepository(db), logger)
		service = user.NewService(repo, storetest.Transactor(db), auditSvc, events.NopPublisher{},
			user.Credentials{DefaultPassword: "welcome-123", BCryptCost: bcrypt.MinCost}, logger)

		admin = fx.User("root", user.RoleAdmin).ID
		ctx = context.Background()
	})

	AfterEach(func() {
		Expect(storetest.Close(db)).To(Succeed())
	})

	Describe("Create", func() {
		It("stores the user with the default password and returns it once", func() {
			result, err := service.Create(ctx, admin, user.CreateUserDTO{
				Username: "  alice ",
				Email:    "Alice@Example.COM",
				FullName: "Alice",
				Role:     user.RoleManager,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.InitialPassword).To(Equal("welcome-123"))
			Expect(result.User.Username).To(Equal("alice"))
			Expect(result.User.Email).To(Equal("alice@example.com"))
			Expect(result.User.IsActive).To(BeTrue())

			row, err := repo.GetByID(ctx, result.User.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(bcrypt.CompareHashAndPassword([]byte(row.PasswordHash), []byte("welcome-123"))).To(Succeed())
		})

		It("reports every violation in one error", func() {
			_, err := service.Create(ctx, admin, user.CreateUserDTO{
				Username: "",
				Email:    "not-an-email",
				Role:     "superuser",
			})
			Expect(fieldsOf(err)).To(ConsistOf("username", "email", "role"))
		})

		It("rejects a username longer than 50 characters", func() {
			long := make([]byte, 51)
			for i := range long {
				long[i] = 'a'
			}
			_, err := service.Create(ctx, admin, user.CreateUserDTO{Username: string(long), Email: "a@b.co", Role: user.RoleUser})
			Expect(fieldsOf(err)).To(ConsistOf("username"))
		})

		It("treats username and email as case-insensitive when checking duplicates", func() {
			_, err := service.Create(ctx, admin, user.CreateUserDTO{Username: "ROOT", Email: "ROOT@example.com", Role: user.RoleUser})
			Expect(fieldsOf(err)).To(ConsistOf("username", "email"))

			appErr, _ := errors.IsAppError(err)
			for _, v := range appErr.Details.(errors.ValidationErrors).Errors {
				Expect(v.Code).To(Equal(string(errors.ErrCodeDuplicate)))
			}
		})

		It("writes an audit entry", func() {
			result, err := service.Create(ctx, admin, user.CreateUserDTO{Username: "bob", Email: "bob@example.com", Role: user.RoleUser})
			Expect(err).NotTo(HaveOccurred())

			entries, err := auditSvc.List(ctx, audit.ListFilter{Entity: audit.EntityUser, EntityID: result.User.ID})
			Expect(err).NotTo(HaveOccurred())
			Expect(entries).To(HaveLen(1))
			Expect(entries[0].ActorUserID).To(Equal(admin))
			Expect(entries[0].Action).To(Equal(audit.ActionCreate))
		})
	})

	Describe("Update", func() {
		It("accepts the user's own username and email", func() {
			u, err := service.Update(ctx, admin, admin, user.UpdateUserDTO{
				Username: "root",
				Email:    "root@example.com",
				FullName: "Root Admin",
				Role:     user.RoleAdmin,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(u.FullName).To(Equal("Root Admin"))
		})

		It("rejects another user's email", func() {
			other := fx.User("carol", user.RoleUser)
			_, err := service.Update(ctx, admin, other.ID, user.UpdateUserDTO{
				Username: "carol",
				Email:    "root@example.com",
				Role:     user.RoleUser,
			})
			Expect(fieldsOf(err)).To(ConsistOf("email"))
		})

		It("does not change the password", func() {
			other := fx.User("dave", user.RoleUser)
			_, err := service.Update(ctx, admin, other.ID, user.UpdateUserDTO{Username: "dave", Email: "dave@example.com", Role: user.RoleManager})
			Expect(err).NotTo(HaveOccurred())

			row, _ := repo.GetByID(ctx, other.ID)
			Expect(row.PasswordHash).To(Equal("x"))
			Expect(row.Role).To(Equal(user.RoleManager))
		})

		It("returns not found for an unknown id", func() {
			_, err := service.Update(ctx, admin, 999, user.UpdateUserDTO{Username: "x", Email: "x@example.com", Role: user.RoleUser})
			Expect(err).To(MatchError(user.ErrUserNotFound))
		})
	})

	Describe("Delete", func() {
		It("refuses to delete the acting user", func() {
			_, err := service.Delete(ctx, admin, admin)
			Expect(errors.HasType(err, errors.ErrorTypeForbidden)).To(BeTrue())
		})

		It("returns not found for an unknown id", func() {
			_, err := service.Delete(ctx, admin, 999)
			Expect(err).To(MatchError(user.ErrUserNotFound))
		})

		It("hard-deletes an unreferenced user", func() {
			other := fx.User("erin", user.RoleUser)

			result, err := service.Delete(ctx, admin, other.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Outcome).To(Equal(deletion.OutcomeHardDeleted))

			_, err = service.GetByID(ctx, other.ID)
			Expect(errors.HasType(err, errors.ErrorTypeNotFound)).To(BeTrue())
		})

		It("deactivates a user who closed an assignment", func() {
			closer := fx.User("frank", user.RoleManager)
			dept := fx.Department("Ops")
			cat := fx.Category("Laptops")
			p := fx.Personnel("Pat", "E-1", dept.ID, true)
			item := fx.Item("X1", cat.ID, "lost")
			fx.Assignment(p.ID, item.ID, closer.ID, "lost")

			result, err := service.Delete(ctx, admin, closer.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Outcome).To(Equal(deletion.OutcomeDeactivated))
			Expect(result.References).To(Equal(int64(1)))

			u, err := service.GetByID(ctx, closer.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(u.IsActive).To(BeFalse())

			entries, _ := auditSvc.List(ctx, audit.ListFilter{Entity: audit.EntityUser, EntityID: closer.ID})
			Expect(entries).To(HaveLen(1))
			Expect(entries[0].Action).To(Equal(audit.ActionDeactivate))
		})
	})

	Describe("ResetPassword", func() {
		It("is idempotent", func() {
			other := fx.User("gina", user.RoleUser)
			for i := 0; i < 2; i++ {
				result, err := service.ResetPassword(ctx, admin, other.ID)
				Expect(err).NotTo(HaveOccurred())
				Expect(result.NewPassword).To(Equal("welcome-123"))
			}

			row, _ := repo.GetByID(ctx, other.ID)
			Expect(bcrypt.CompareHashAndPassword([]byte(row.PasswordHash), []byte("welcome-123"))).To(Succeed())
		})

		It("requires the user to exist", func() {
			_, err := service.ResetPassword(ctx, admin, 404)
			Expect(err).To(MatchError(user.ErrUserNotFound))
		})
	})

	Describe("List", func() {
		It("filters by search and active flag", func() {
			fx.User("henry", user.RoleUser)
			inactive := fx.User("henrietta", user.RoleUser)
			Expect(db.Model(inactive).Update("is_active", false).Error).To(Succeed())

			active := true
			result, err := service.List(ctx, user.ListUsersFilter{Search: "HENR", Active: &active})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Total).To(Equal(int64(1)))
			Expect(result.Users[0].Username).To(Equal("henry"))
		})
	})
})
