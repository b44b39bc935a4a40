package auth_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	errors "github.com/frahmantamala/asset-custody/internal"
	"github.com/frahmantamala/asset-custody/internal/auth"
	userDatamodel "github.com/frahmantamala/asset-custody/internal/core/datamodel/user"
	"github.com/frahmantamala/asset-custody/internal/store/storetest"
	"github.com/frahmantamala/asset-custody/internal/transport"
	"github.com/frahmantamala/asset-custody/internal/user"
	userPostgres "github.com/frahmantamala/asset-custody/internal/user/postgres"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func TestAuth(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Auth Module Suite")
}

const secret = "0123456789abcdef0123456789abcdef"

var _ = Describe("Auth Service", func() {
	var (
		db      *gorm.DB
		fx      *storetest.Fixtures
		tokens  *auth.JWTTokenGenerator
		service *auth.Service
		logger  *slog.Logger
		ctx     context.Context
	)

	withPassword := func(u *userDatamodel.User, password string) {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
		Expect(err).NotTo(HaveOccurred())
		Expect(db.Model(u).Update("password_hash", string(hash)).Error).To(Succeed())
	}

	BeforeEach(func() {
		var err error
		db, err = storetest.Open()
		Expect(err).NotTo(HaveOccurred())

		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
		fx = storetest.NewFixtures(db)
		tokens = auth.NewJWTTokenGenerator(secret, time.Minute)
		service = auth.NewService(userPostgres.NewUserRepository(db), tokens, logger)
		ctx = context.Background()
	})

	AfterEach(func() {
		Expect(storetest.Close(db)).To(Succeed())
	})

	Describe("Authenticate", func() {
		It("issues a token carrying the user's role", func() {
			u := fx.User("alice", user.RoleManager)
			withPassword(u, "s3cret-pass")

			result, err := service.Authenticate(ctx, auth.LoginDTO{Username: "Alice", Password: "s3cret-pass"})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.TokenType).To(Equal("Bearer"))
			Expect(result.User.ID).To(Equal(u.ID))

			claims, err := tokens.ValidateToken(result.AccessToken)
			Expect(err).NotTo(HaveOccurred())
			Expect(claims.UserID).To(Equal(u.ID))
			Expect(claims.Role).To(Equal(user.RoleManager))
		})

		It("reports every missing field", func() {
			_, err := service.Authenticate(ctx, auth.LoginDTO{})
			appErr, ok := errors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Details.(errors.ValidationErrors).Fields()).To(ConsistOf("username", "password"))
		})

		It("rejects a wrong password and an unknown user the same way", func() {
			withPassword(fx.User("bob", user.RoleUser), "right-password")

			_, err := service.Authenticate(ctx, auth.LoginDTO{Username: "bob", Password: "wrong-password"})
			Expect(err).To(MatchError(errors.ErrInvalidCredentials))

			_, err = service.Authenticate(ctx, auth.LoginDTO{Username: "nobody", Password: "whatever"})
			Expect(err).To(MatchError(errors.ErrInvalidCredentials))
		})

		It("refuses inactive users", func() {
			u := fx.User("carol", user.RoleUser)
			withPassword(u, "right-password")
			Expect(db.Model(u).Update("is_active", false).Error).To(Succeed())

			_, err := service.Authenticate(ctx, auth.LoginDTO{Username: "carol", Password: "right-password"})
			Expect(err).To(MatchError(errors.ErrUserInactive))
		})
	})

	Describe("Authorize", func() {
		It("resolves the current role from the directory", func() {
			u := fx.User("dave", user.RoleManager)
			token, _, err := tokens.GenerateAccessToken(user.FromDataModel(u))
			Expect(err).NotTo(HaveOccurred())

			Expect(db.Model(u).Update("role", user.RoleUser).Error).To(Succeed())

			identity, err := service.Authorize(ctx, token)
			Expect(err).NotTo(HaveOccurred())
			Expect(identity.Role).To(Equal(user.RoleUser))
		})

		It("stops accepting tokens of deactivated users", func() {
			u := fx.User("erin", user.RoleAdmin)
			token, _, err := tokens.GenerateAccessToken(user.FromDataModel(u))
			Expect(err).NotTo(HaveOccurred())
			Expect(db.Model(u).Update("is_active", false).Error).To(Succeed())

			_, err = service.Authorize(ctx, token)
			Expect(err).To(MatchError(errors.ErrUserInactive))
		})

		It("rejects expired and foreign tokens", func() {
			u := user.FromDataModel(fx.User("frank", user.RoleUser))

			expired := auth.NewJWTTokenGenerator(secret, time.Minute)
			expired.AccessTokenTTL = -time.Minute
			token, _, err := expired.GenerateAccessToken(u)
			Expect(err).NotTo(HaveOccurred())
			_, err = service.Authorize(ctx, token)
			Expect(err).To(MatchError(errors.ErrTokenExpired))

			foreign := auth.NewJWTTokenGenerator(strings.Repeat("z", 32), time.Minute)
			token, _, err = foreign.GenerateAccessToken(u)
			Expect(err).NotTo(HaveOccurred())
			_, err = service.Authorize(ctx, token)
			Expect(err).To(MatchError(errors.ErrInvalidToken))
		})
	})

	Describe("Middleware", func() {
		var (
			handler *auth.Handler
			rbac    *auth.RBACAuthorization
			reached bool
		)

		BeforeEach(func() {
			base := transport.NewBaseHandler(logger)
			handler = auth.NewHandler(base, service)
			rbac = auth.NewRBACAuthorization(logger)
			reached = false
		})

		guarded := func(token string) *httptest.ResponseRecorder {
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				reached = true
				id, ok := errors.ActingUserFromContext(r.Context())
				Expect(ok).To(BeTrue())
				Expect(id).To(BeNumerically(">", 0))
				w.WriteHeader(http.StatusNoContent)
			})
			req := httptest.NewRequest(http.MethodPost, "/api/v1/items", nil)
			if token != "" {
				req.Header.Set("Authorization", "Bearer "+token)
			}
			w := httptest.NewRecorder()
			handler.AuthMiddleware(rbac.RequireMutator()(next)).ServeHTTP(w, req)
			return w
		}

		tokenFor := func(username, role string) string {
			token, _, err := tokens.GenerateAccessToken(user.FromDataModel(fx.User(username, role)))
			Expect(err).NotTo(HaveOccurred())
			return token
		}

		It("requires a bearer token", func() {
			Expect(guarded("").Code).To(Equal(http.StatusUnauthorized))
			Expect(reached).To(BeFalse())
		})

		It("lets managers mutate", func() {
			Expect(guarded(tokenFor("gina", user.RoleManager)).Code).To(Equal(http.StatusNoContent))
			Expect(reached).To(BeTrue())
		})

		It("forbids plain users from mutating", func() {
			w := guarded(tokenFor("hank", user.RoleUser))
			Expect(w.Code).To(Equal(http.StatusForbidden))
			Expect(w.Body.String()).To(ContainSubstring(string(errors.ErrCodeInsufficientRole)))
			Expect(reached).To(BeFalse())
		})
	})

	It("logs in over HTTP", func() {
		withPassword(fx.User("ivy", user.RoleAdmin), "right-password")
		handler := auth.NewHandler(transport.NewBaseHandler(logger), service)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"username":"ivy","password":"right-password"}`))
		w := httptest.NewRecorder()
		handler.Login(w, req)
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring("access_token"))

		req = httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"username":"ivy","password":"nope"}`))
		w = httptest.NewRecorder()
		handler.Login(w, req)
		Expect(w.Code).To(Equal(http.StatusUnauthorized))
	})
})
