package server

import (
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"dealsadmin/internal/domain/service/review"
	"dealsadmin/pkg/contextx"
)

type viewKind string

const (
	viewPending viewKind = "pending"
	viewAll     viewKind = "all"
)

var viewKinds = []viewKind{viewPending, viewAll} //nolint:gochecknoglobals

type viewObserver interface {
	ViewOpened()
	ViewClosed()
}

// ViewRegistry keeps one review store per session and view. A store that is
// not touched for the TTL is evicted and closed, so responses still in
// flight for it are dropped.
type ViewRegistry struct {
	mu       sync.Mutex
	cache    *cache.Cache
	observer viewObserver
}

func NewViewRegistry(ttl time.Duration, observer viewObserver) *ViewRegistry {
	c := cache.New(ttl, ttl)
	c.OnEvicted(func(_ string, value any) {
		if store, ok := value.(*review.Store); ok {
			store.Close()
			observer.ViewClosed()
		}
	})

	return &ViewRegistry{
		cache:    c,
		observer: observer,
	}
}

// Get returns the session's store for the view, creating it with api on
// first use. Each call extends the store's lifetime.
func (v *ViewRegistry) Get(id contextx.SessionID, kind viewKind, api review.DealsAPI) *review.Store {
	key := viewKey(id, kind)

	v.mu.Lock()
	defer v.mu.Unlock()

	if value, ok := v.cache.Get(key); ok {
		if store, ok := value.(*review.Store); ok {
			v.cache.SetDefault(key, store)

			return store
		}
	}

	// An expired entry may linger until the janitor runs; evict it first so
	// its store is closed.
	v.cache.Delete(key)

	store := review.NewStore(api)
	v.cache.SetDefault(key, store)
	v.observer.ViewOpened()

	return store
}

// CloseSession tears down every view of the session.
func (v *ViewRegistry) CloseSession(id contextx.SessionID) {
	v.mu.Lock()
	defer v.mu.Unlock()

	for _, kind := range viewKinds {
		v.cache.Delete(viewKey(id, kind))
	}
}

func (v *ViewRegistry) Len() int {
	return v.cache.ItemCount()
}

func viewKey(id contextx.SessionID, kind viewKind) string {
	return id.String() + "/" + string(kind)
}
