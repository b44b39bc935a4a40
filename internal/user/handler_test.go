package user_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"

	errors "github.com/frahmantamala/asset-custody/internal"
	"github.com/frahmantamala/asset-custody/internal/audit"
	auditPostgres "github.com/frahmantamala/asset-custody/internal/audit/postgres"
	"github.com/frahmantamala/asset-custody/internal/core/events"
	"github.com/frahmantamala/asset-custody/internal/store/storetest"
	"github.com/frahmantamala/asset-custody/internal/transport"
	"github.com/frahmantamala/asset-custody/internal/user"
	userPostgres "github.com/frahmantamala/asset-custody/internal/user/postgres"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var _ = Describe("User Handler Integration", func() {
	var (
		db     *gorm.DB
		router *chi.Mux
		admin  int64
	)

	serve := func(method, path string, body interface{}) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		if body != nil {
			Expect(json.NewEncoder(&buf).Encode(body)).To(Succeed())
		}
		req := httptest.NewRequest(method, path, &buf)
		req = req.WithContext(errors.ContextWithActingUser(req.Context(), admin, user.RoleAdmin))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	BeforeEach(func() {
		var err error
		db, err = storetest.Open()
		Expect(err).NotTo(HaveOccurred())

		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		service := user.NewService(
			userPostgres.NewUserRepository(db),
			storetest.Transactor(db),
			audit.NewService(auditPostgres.NewAuditRepository(db), logger),
			events.NopPublisher{},
			user.Credentials{DefaultPassword: "welcome-123", BCryptCost: bcrypt.MinCost},
			logger,
		)
		handler := user.NewHandler(transport.NewBaseHandler(logger), service)

		router = chi.NewRouter()
		router.Get("/users/me", handler.GetCurrentUser)
		router.Post("/users", handler.CreateUser)
		router.Get("/users/{id}", handler.GetUser)
		router.Delete("/users/{id}", handler.DeleteUser)
		router.Post("/users/{id}/reset-password", handler.ResetPassword)

		admin = storetest.NewFixtures(db).User("root", user.RoleAdmin).ID
	})

	AfterEach(func() {
		Expect(storetest.Close(db)).To(Succeed())
	})

	It("creates a user and returns the initial password", func() {
		w := serve(http.MethodPost, "/users", user.CreateUserDTO{Username: "amy", Email: "amy@example.com", Role: user.RoleUser})
		Expect(w.Code).To(Equal(http.StatusCreated))

		var result user.CreateUserResult
		Expect(json.NewDecoder(w.Body).Decode(&result)).To(Succeed())
		Expect(result.InitialPassword).To(Equal("welcome-123"))
		Expect(result.User.Username).To(Equal("amy"))
	})

	It("answers 422 with every field violation", func() {
		w := serve(http.MethodPost, "/users", user.CreateUserDTO{Email: "nope", Role: "boss"})
		Expect(w.Code).To(Equal(http.StatusUnprocessableEntity))

		var body struct {
			Error struct {
				Type    string `json:"type"`
				Details struct {
					Errors []errors.ValidationError `json:"errors"`
				} `json:"details"`
			} `json:"error"`
		}
		Expect(json.NewDecoder(w.Body).Decode(&body)).To(Succeed())
		Expect(body.Error.Type).To(Equal(string(errors.ErrorTypeValidation)))
		Expect(body.Error.Details.Errors).To(HaveLen(3))
	})

	It("answers 403 when deleting oneself", func() {
		w := serve(http.MethodDelete, "/users/"+strconv.FormatInt(admin, 10), nil)
		Expect(w.Code).To(Equal(http.StatusForbidden))
	})

	It("answers 404 for an unknown user", func() {
		w := serve(http.MethodGet, "/users/4040", nil)
		Expect(w.Code).To(Equal(http.StatusNotFound))
	})

	It("answers 400 for a malformed id", func() {
		w := serve(http.MethodPost, "/users/abc/reset-password", nil)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("returns the acting user from /users/me", func() {
		w := serve(http.MethodGet, "/users/me", nil)
		Expect(w.Code).To(Equal(http.StatusOK))

		var u user.User
		Expect(json.NewDecoder(w.Body).Decode(&u)).To(Succeed())
		Expect(u.ID).To(Equal(admin))
	})

	It("answers 401 without an acting user", func() {
		req := httptest.NewRequest(http.MethodGet, "/users/me", nil).WithContext(context.Background())
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		Expect(w.Code).To(Equal(http.StatusUnauthorized))
	})
})
