package cohort

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/pable/go-ulti-metrics/internal/model"
)

type countingObserver struct{ hits, misses int }

func (o *countingObserver) CacheHit(string)  { o.hits++ }
func (o *countingObserver) CacheMiss(string) { o.misses++ }

type fakeRedis struct {
	data   map[string][]byte
	ttls   map[string]time.Duration
	getErr error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (f *fakeRedis) Get(_ context.Context, key string) *redis.StringCmd {
	if f.getErr != nil {
		return redis.NewStringResult("", f.getErr)
	}
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(string(v), nil)
}

func (f *fakeRedis) Set(_ context.Context, key string, value interface{}, ttl time.Duration) *redis.StatusCmd {
	f.data[key] = value.([]byte)
	f.ttls[key] = ttl
	return redis.NewStatusResult("OK", nil)
}

type stubSource struct {
	players []model.Player
	calls   int
	err     error
}

func (s *stubSource) Players(_ context.Context, _ model.PlayerFilter) ([]model.Player, error) {
	s.calls++
	return s.players, s.err
}

func TestMemoryCache(t *testing.T) {
	Convey("Given a memory cache with a controllable clock", t, func() {
		now := time.Date(2016, 12, 2, 12, 0, 0, 0, time.UTC)
		obs := &countingObserver{}
		cache := NewMemoryCache(WithClock(func() time.Time { return now }), WithObserver(obs))
		ctx := context.Background()

		computes := 0
		compute := func(context.Context) ([]model.PlayerID, error) {
			computes++
			return []model.PlayerID{1, 2}, nil
		}

		Convey("When the same key is requested twice within the TTL", func() {
			a, err := cache.GetOrCompute(ctx, "female", 30*time.Second, compute)
			So(err, ShouldBeNil)
			now = now.Add(29 * time.Second)
			b, err := cache.GetOrCompute(ctx, "female", 30*time.Second, compute)
			So(err, ShouldBeNil)

			Convey("Then the value is computed once and served from cache", func() {
				So(computes, ShouldEqual, 1)
				So(b, ShouldResemble, a)
				So(obs.hits, ShouldEqual, 1)
				So(obs.misses, ShouldEqual, 1)
			})
		})

		Convey("When the TTL has elapsed", func() {
			_, _ = cache.GetOrCompute(ctx, "female", 30*time.Second, compute)
			now = now.Add(30 * time.Second)
			_, _ = cache.GetOrCompute(ctx, "female", 30*time.Second, compute)

			Convey("Then the next call recomputes", func() {
				So(computes, ShouldEqual, 2)
			})
		})

		Convey("When compute fails", func() {
			boom := errors.New("store down")
			_, err := cache.GetOrCompute(ctx, "male", time.Minute, func(context.Context) ([]model.PlayerID, error) {
				return nil, boom
			})

			Convey("Then the error propagates and nothing is cached", func() {
				So(errors.Is(err, boom), ShouldBeTrue)
				_, _ = cache.GetOrCompute(ctx, "male", time.Minute, compute)
				So(computes, ShouldEqual, 1)
			})
		})

		Convey("When the cache is invalidated", func() {
			_, _ = cache.GetOrCompute(ctx, "female", time.Minute, compute)
			cache.Invalidate()
			_, _ = cache.GetOrCompute(ctx, "female", time.Minute, compute)

			Convey("Then the entry is recomputed", func() {
				So(computes, ShouldEqual, 2)
			})
		})
	})
}

func TestRedisCache(t *testing.T) {
	Convey("Given a redis-backed cache", t, func() {
		client := newFakeRedis()
		obs := &countingObserver{}
		cache := NewRedisCache(client, "ultimetrics:", zerolog.Nop(), obs)
		ctx := context.Background()

		computes := 0
		compute := func(context.Context) ([]model.PlayerID, error) {
			computes++
			return []model.PlayerID{4, 7}, nil
		}

		Convey("When a key misses", func() {
			ids, err := cache.GetOrCompute(ctx, "cohort:male", 30*time.Second, compute)
			So(err, ShouldBeNil)
			So(ids, ShouldResemble, []model.PlayerID{4, 7})

			Convey("Then the value is stored as JSON with the TTL", func() {
				var stored []model.PlayerID
				So(json.Unmarshal(client.data["ultimetrics:cohort:male"], &stored), ShouldBeNil)
				So(stored, ShouldResemble, []model.PlayerID{4, 7})
				So(client.ttls["ultimetrics:cohort:male"], ShouldEqual, 30*time.Second)
				So(obs.misses, ShouldEqual, 1)
			})

			Convey("And a second call is a hit", func() {
				_, err := cache.GetOrCompute(ctx, "cohort:male", 30*time.Second, compute)
				So(err, ShouldBeNil)
				So(computes, ShouldEqual, 1)
				So(obs.hits, ShouldEqual, 1)
			})
		})

		Convey("When redis is unreachable", func() {
			client.getErr = errors.New("connection refused")
			ids, err := cache.GetOrCompute(ctx, "cohort:female", time.Minute, compute)

			Convey("Then the cohort is computed from the source", func() {
				So(err, ShouldBeNil)
				So(ids, ShouldResemble, []model.PlayerID{4, 7})
				So(computes, ShouldEqual, 1)
			})
		})
	})
}

func TestProvider(t *testing.T) {
	Convey("Given a provider over a stub player source", t, func() {
		src := &stubSource{players: roster()}
		p := NewProvider(src, NewMemoryCache(), 0, 0)
		ctx := context.Background()

		Convey("It defaults the TTL", func() {
			So(p.TTL(), ShouldEqual, DefaultTTL)
		})

		Convey("When all cohorts are requested", func() {
			c, err := p.Cohorts(ctx)
			So(err, ShouldBeNil)

			Convey("Then each set matches the classifier", func() {
				want := Classify(roster())
				So(c.Female.IDs(), ShouldResemble, want.Female.IDs())
				So(c.Male.IDs(), ShouldResemble, want.Male.IDs())
				So(c.Handlers.IDs(), ShouldResemble, want.Handlers.IDs())
				So(c.Cutters.IDs(), ShouldResemble, want.Cutters.IDs())
			})

			Convey("Then the roster is read once for all four cohorts", func() {
				So(src.calls, ShouldEqual, 1)
			})

			Convey("And a repeat call inside the TTL does not touch the store", func() {
				before := src.calls
				_, err := p.Cohorts(ctx)
				So(err, ShouldBeNil)
				So(src.calls, ShouldEqual, before)
			})
		})

		Convey("When single cohorts are requested one by one", func() {
			_, err := p.Cohort(ctx, Female)
			So(err, ShouldBeNil)
			_, err = p.Cohort(ctx, Male)
			So(err, ShouldBeNil)

			Convey("Then each miss reads the roster", func() {
				So(src.calls, ShouldEqual, 2)
			})
		})

		Convey("When an unknown cohort is requested", func() {
			_, err := p.Cohort(ctx, "goalies")
			So(err, ShouldNotBeNil)
			So(src.calls, ShouldEqual, 0)
		})

		Convey("When the store fails", func() {
			src.err = errors.New("db closed")
			_, err := p.Cohorts(ctx)
			So(err, ShouldNotBeNil)
			So(errors.Is(err, src.err), ShouldBeTrue)
		})
	})
}
