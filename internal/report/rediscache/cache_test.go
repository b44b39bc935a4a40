package rediscache_test

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/frahmantamala/asset-custody/internal/report/rediscache"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/redis/go-redis/v9"
)

func TestRedisCache(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Redis Cache Suite")
}

// memoryClient keeps values in a map and answers like a redis server would.
type memoryClient struct {
	values map[string]string
	ttls   map[string]time.Duration
	getErr error
}

func newMemoryClient() *memoryClient {
	return &memoryClient{values: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (m *memoryClient) Get(_ context.Context, key string) *redis.StringCmd {
	if m.getErr != nil {
		return redis.NewStringResult("", m.getErr)
	}
	v, ok := m.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (m *memoryClient) Set(_ context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	switch v := value.(type) {
	case []byte:
		m.values[key] = string(v)
	case string:
		m.values[key] = v
	}
	m.ttls[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func (m *memoryClient) Incr(_ context.Context, key string) *redis.IntCmd {
	n, _ := strconv.ParseInt(m.values[key], 10, 64)
	n++
	m.values[key] = strconv.FormatInt(n, 10)
	return redis.NewIntResult(n, nil)
}

type totals struct {
	Items    int64 `json:"items"`
	Assigned int64 `json:"assigned"`
}

var _ = Describe("Cache", func() {
	var (
		client *memoryClient
		cache  *rediscache.Cache
		ctx    context.Context
	)

	BeforeEach(func() {
		client = newMemoryClient()
		cache = rediscache.NewCache(client, "")
		ctx = context.Background()
	})

	It("misses until a value is stored, then returns it", func() {
		var got totals
		hit, err := cache.Get(ctx, "totals", &got)
		Expect(err).NotTo(HaveOccurred())
		Expect(hit).To(BeFalse())

		Expect(cache.Set(ctx, "totals", totals{Items: 4, Assigned: 1}, time.Minute)).To(Succeed())
		Expect(client.ttls).To(HaveKeyWithValue("custody:report:0:totals", time.Minute))

		hit, err = cache.Get(ctx, "totals", &got)
		Expect(err).NotTo(HaveOccurred())
		Expect(hit).To(BeTrue())
		Expect(got).To(Equal(totals{Items: 4, Assigned: 1}))
	})

	It("hides every older entry once invalidated", func() {
		Expect(cache.Set(ctx, "totals", totals{Items: 4}, time.Minute)).To(Succeed())
		Expect(cache.Invalidate(ctx)).To(Succeed())
		Expect(client.values).To(HaveKeyWithValue("custody:report:gen", "1"))

		var got totals
		hit, err := cache.Get(ctx, "totals", &got)
		Expect(err).NotTo(HaveOccurred())
		Expect(hit).To(BeFalse())

		Expect(cache.Set(ctx, "totals", totals{Items: 5}, time.Minute)).To(Succeed())
		Expect(client.values).To(HaveKey("custody:report:1:totals"))

		hit, err = cache.Get(ctx, "totals", &got)
		Expect(err).NotTo(HaveOccurred())
		Expect(hit).To(BeTrue())
		Expect(got.Items).To(Equal(int64(5)))
	})

	It("keeps separate namespaces apart", func() {
		other := rediscache.NewCache(client, "other")
		Expect(cache.Set(ctx, "totals", totals{Items: 4}, time.Minute)).To(Succeed())

		var got totals
		hit, err := other.Get(ctx, "totals", &got)
		Expect(err).NotTo(HaveOccurred())
		Expect(hit).To(BeFalse())
	})

	It("surfaces server errors instead of reporting a miss", func() {
		client.getErr = errors.New("connection refused")

		var got totals
		hit, err := cache.Get(ctx, "totals", &got)
		Expect(err).To(MatchError(ContainSubstring("connection refused")))
		Expect(hit).To(BeFalse())
		Expect(cache.Set(ctx, "totals", totals{}, time.Minute)).To(MatchError(ContainSubstring("connection refused")))
	})
})
