package caching

import (
	"context"
	"encoding/json"
	"time"

	"bookwell/internal/models"
	"bookwell/internal/repositories"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Directory lookups (tenants, services, staff, resources) change rarely
// but sit on every read path, so they get a short-TTL read-through
// cache. Cache failures fall through to the database; transactional
// reads always bypass the cache via WithTx.

const directoryTTL = 5 * time.Minute

type cachedTenantRepo struct {
	inner  repositories.TenantRepository
	client *redis.Client
}

// NewCachedTenantRepo wraps a tenant repository with a redis
// read-through cache.
func NewCachedTenantRepo(inner repositories.TenantRepository, client *redis.Client) repositories.TenantRepository {
	return &cachedTenantRepo{inner: inner, client: client}
}

func (r *cachedTenantRepo) WithTx(db repositories.DB) repositories.TenantRepository {
	return r.inner.WithTx(db)
}

// tenantCacheEntry carries the policy document alongside the tenant,
// since Tenant excludes it from its own JSON form.
type tenantCacheEntry struct {
	Tenant *models.Tenant `json:"tenant"`
	Policy []byte         `json:"policy,omitempty"`
}

func (r *cachedTenantRepo) getCached(ctx context.Context, key string, load func() (*models.Tenant, error)) (*models.Tenant, error) {
	entry := &tenantCacheEntry{}
	if cacheGet(ctx, r.client, key, entry) && entry.Tenant != nil {
		entry.Tenant.Policy = entry.Policy
		return entry.Tenant, nil
	}
	tenant, err := load()
	if err != nil {
		return nil, err
	}
	cacheSet(ctx, r.client, key, &tenantCacheEntry{Tenant: tenant, Policy: tenant.Policy})
	return tenant, nil
}

func (r *cachedTenantRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	return r.getCached(ctx, "dir:tenant:"+id.String(), func() (*models.Tenant, error) {
		return r.inner.GetByID(ctx, id)
	})
}

func (r *cachedTenantRepo) GetBySlug(ctx context.Context, slug string) (*models.Tenant, error) {
	return r.getCached(ctx, "dir:tenant:slug:"+slug, func() (*models.Tenant, error) {
		return r.inner.GetBySlug(ctx, slug)
	})
}

type cachedCatalogRepo struct {
	inner  repositories.CatalogRepository
	client *redis.Client
}

// NewCachedCatalogRepo wraps a catalog repository with a redis
// read-through cache.
func NewCachedCatalogRepo(inner repositories.CatalogRepository, client *redis.Client) repositories.CatalogRepository {
	return &cachedCatalogRepo{inner: inner, client: client}
}

func (r *cachedCatalogRepo) WithTx(db repositories.DB) repositories.CatalogRepository {
	return r.inner.WithTx(db)
}

func (r *cachedCatalogRepo) GetService(ctx context.Context, tenantID, id uuid.UUID) (*models.Service, error) {
	key := "dir:service:" + tenantID.String() + ":" + id.String()
	svc := &models.Service{}
	if cacheGet(ctx, r.client, key, svc) {
		return svc, nil
	}
	svc, err := r.inner.GetService(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	cacheSet(ctx, r.client, key, svc)
	return svc, nil
}

func (r *cachedCatalogRepo) GetStaff(ctx context.Context, tenantID, id uuid.UUID) (*models.Staff, error) {
	key := "dir:staff:" + tenantID.String() + ":" + id.String()
	staff := &models.Staff{}
	if cacheGet(ctx, r.client, key, staff) {
		return staff, nil
	}
	staff, err := r.inner.GetStaff(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	cacheSet(ctx, r.client, key, staff)
	return staff, nil
}

func (r *cachedCatalogRepo) GetResource(ctx context.Context, tenantID, id uuid.UUID) (*models.Resource, error) {
	key := "dir:resource:" + tenantID.String() + ":" + id.String()
	resource := &models.Resource{}
	if cacheGet(ctx, r.client, key, resource) {
		return resource, nil
	}
	resource, err := r.inner.GetResource(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	cacheSet(ctx, r.client, key, resource)
	return resource, nil
}

func cacheGet(ctx context.Context, client *redis.Client, key string, out any) bool {
	payload, err := client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Warn().Err(err).Str("key", key).Msg("directory cache read")
		}
		return false
	}
	if err := json.Unmarshal(payload, out); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("decode cached directory entry")
		return false
	}
	return true
}

func cacheSet(ctx context.Context, client *redis.Client, key string, v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := client.Set(ctx, key, payload, directoryTTL).Err(); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("directory cache write")
	}
}
