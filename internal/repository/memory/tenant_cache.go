package memory

import (
	"context"
	"time"

	"lead-inbox-be/internal/entity"
	"lead-inbox-be/internal/repository/contract"

	"github.com/patrickmn/go-cache"
)

const tenantSnapshotKey = "tenant-directory"

// CachedTenantDirectory wraps the registry-backed directory with a
// time-bounded snapshot. Staleness is bounded by the TTL; invalidation is
// explicit (tests, the debug cache-clear endpoint), not event-driven.
type CachedTenantDirectory struct {
	inner contract.TenantDirectory
	cache *cache.Cache
}

func NewCachedTenantDirectory(inner contract.TenantDirectory, ttl time.Duration) *CachedTenantDirectory {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CachedTenantDirectory{
		inner: inner,
		cache: cache.New(ttl, 10*time.Minute),
	}
}

func (d *CachedTenantDirectory) List(ctx context.Context) ([]*entity.Tenant, error) {
	if x, found := d.cache.Get(tenantSnapshotKey); found {
		return x.([]*entity.Tenant), nil
	}
	tenants, err := d.inner.List(ctx)
	if err != nil {
		return nil, err
	}
	d.cache.Set(tenantSnapshotKey, tenants, cache.DefaultExpiration)
	return tenants, nil
}

func (d *CachedTenantDirectory) Invalidate() {
	d.cache.Delete(tenantSnapshotKey)
}
