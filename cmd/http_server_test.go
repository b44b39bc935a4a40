package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/frahmantamala/asset-custody/internal"
	"github.com/frahmantamala/asset-custody/internal/core/events"
	"github.com/frahmantamala/asset-custody/internal/store/storetest"
	"github.com/frahmantamala/asset-custody/internal/transport/rest"
	"github.com/go-chi/chi"
	"github.com/jmoiron/sqlx"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
)

func TestCmd(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Cmd Suite")
}

var _ = Describe("HTTP API", func() {
	var (
		deps   *Dependencies
		router *chi.Mux
	)

	const password = "welcome-123"

	call := func(method, path, token string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
		var buf bytes.Buffer
		if body != nil {
			Expect(json.NewEncoder(&buf).Encode(body)).To(Succeed())
		}
		req := httptest.NewRequest(method, path, &buf)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		out := map[string]interface{}{}
		if w.Body.Len() > 0 {
			_ = json.Unmarshal(w.Body.Bytes(), &out)
		}
		return w, out
	}

	login := func(username string) string {
		w, body := call(http.MethodPost, "/api/v1/auth/login", "", map[string]string{"username": username, "password": password})
		Expect(w.Code).To(Equal(http.StatusOK), w.Body.String())
		return body["access_token"].(string)
	}

	id := func(body map[string]interface{}) string {
		return strconv.FormatInt(int64(body["id"].(float64)), 10)
	}

	BeforeEach(func() {
		db, err := storetest.Open()
		Expect(err).NotTo(HaveOccurred())
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())

		lg := slog.New(slog.NewTextHandler(io.Discard, nil))
		deps = &Dependencies{
			Config: &internal.Config{
				Server:   internal.ServerConfig{AllowedOrigins: "*"},
				Database: internal.DatabaseConfig{Isolation: "default"},
				Security: internal.SecurityConfig{
					JWTSecret:           "0123456789abcdef0123456789abcdef",
					AccessTokenDuration: time.Minute,
					BCryptCost:          bcrypt.MinCost,
					DefaultPassword:     password,
				},
			},
			SQL:    sqlDB,
			DB:     db,
			ReadDB: sqlx.NewDb(sqlDB, "sqlite3"),
			Bus:    events.NewEventBus(lg),
			Logger: lg,
		}
		Expect(seed(context.Background(), db, deps.Config.Security, lg)).To(Succeed())

		router, err = buildRouter(deps, nil)
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		deps.Close()
	})

	It("reports health without a token", func() {
		w, body := call(http.MethodGet, "/api/v1/health", "", nil)
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(body["status"]).To(Equal(string(rest.HealthHealthy)))
	})

	It("seeds idempotently", func() {
		Expect(seed(context.Background(), deps.DB, deps.Config.Security, deps.Logger)).To(Succeed())
		var admins int64
		Expect(deps.DB.Table("users").Where("username = ?", seedAdminUsername).Count(&admins).Error).To(Succeed())
		Expect(admins).To(Equal(int64(1)))
	})

	It("rejects requests without a token", func() {
		w, _ := call(http.MethodGet, "/api/v1/items", "", nil)
		Expect(w.Code).To(Equal(http.StatusUnauthorized))
	})

	It("runs a custody cycle end to end", func() {
		admin := login(seedAdminUsername)

		w, body := call(http.MethodPost, "/api/v1/users", admin, map[string]string{
			"username": "morgan", "email": "morgan@example.com", "role": "manager",
		})
		Expect(w.Code).To(Equal(http.StatusCreated), w.Body.String())
		Expect(body["initial_password"]).To(Equal(password))
		manager := login("morgan")

		_, cats := call(http.MethodGet, "/api/v1/categories", manager, nil)
		laptops := cats["categories"].([]interface{})[0].(map[string]interface{})
		_, depts := call(http.MethodGet, "/api/v1/departments", manager, nil)
		dept := depts["departments"].([]interface{})[0].(map[string]interface{})

		w, person := call(http.MethodPost, "/api/v1/personnel", manager, map[string]interface{}{
			"name": "Sam Rivera", "employee_number": "E-100", "department_id": dept["id"],
		})
		Expect(w.Code).To(Equal(http.StatusCreated), w.Body.String())

		w, laptop := call(http.MethodPost, "/api/v1/items", manager, map[string]interface{}{
			"name": "ThinkPad X1", "category_id": laptops["id"],
		})
		Expect(w.Code).To(Equal(http.StatusCreated), w.Body.String())
		Expect(laptop["status"]).To(Equal("available"))

		w, asg := call(http.MethodPost, "/api/v1/assignments", manager, map[string]interface{}{
			"personnel_id": person["id"], "item_id": laptop["id"],
		})
		Expect(w.Code).To(Equal(http.StatusCreated), w.Body.String())
		Expect(asg["assignment_number"]).To(MatchRegexp(`^ASG-\d{8}-\d{6}$`))

		w, _ = call(http.MethodPost, "/api/v1/assignments", manager, map[string]interface{}{
			"personnel_id": person["id"], "item_id": laptop["id"],
		})
		Expect(w.Code).To(Equal(http.StatusConflict))

		w, _ = call(http.MethodDelete, "/api/v1/items/"+id(laptop), manager, nil)
		Expect(w.Code).To(Equal(http.StatusConflict))

		_, totals := call(http.MethodGet, "/api/v1/dashboard/totals", manager, nil)
		Expect(totals["active_assignments"]).To(BeNumerically("==", 1))

		w, closed := call(http.MethodPost, "/api/v1/assignments/"+id(asg)+"/close", manager, map[string]string{"outcome": "returned"})
		Expect(w.Code).To(Equal(http.StatusOK), w.Body.String())
		Expect(closed["status"]).To(Equal("returned"))

		_, item := call(http.MethodGet, "/api/v1/items/"+id(laptop), manager, nil)
		Expect(item["status"]).To(Equal("available"))

		// personnel with history is deactivated, not removed
		w, outcome := call(http.MethodDelete, "/api/v1/personnel/"+id(person), manager, nil)
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(outcome["outcome"]).To(Equal("deactivated"))

		w, audit := call(http.MethodGet, "/api/v1/audit-logs", admin, nil)
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(audit["entries"]).NotTo(BeEmpty())
	})

	It("keeps plain users read-only", func() {
		admin := login(seedAdminUsername)
		w, _ := call(http.MethodPost, "/api/v1/users", admin, map[string]string{
			"username": "riley", "email": "riley@example.com", "role": "user",
		})
		Expect(w.Code).To(Equal(http.StatusCreated))
		reader := login("riley")

		w, _ = call(http.MethodGet, "/api/v1/items", reader, nil)
		Expect(w.Code).To(Equal(http.StatusOK))

		w, _ = call(http.MethodPost, "/api/v1/categories", reader, map[string]string{"name": "Tablets"})
		Expect(w.Code).To(Equal(http.StatusForbidden))

		w, _ = call(http.MethodGet, "/api/v1/users", reader, nil)
		Expect(w.Code).To(Equal(http.StatusForbidden))

		w, me := call(http.MethodGet, "/api/v1/users/me", reader, nil)
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(me["username"]).To(Equal("riley"))
	})
})
