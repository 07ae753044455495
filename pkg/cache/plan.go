package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"evacuation/pkg/domain"
)

// PlanCache специализированный кэш результатов планирования эвакуации.
// Ключ строится из хеша графа здания и хеша набора сценариев.
type PlanCache struct {
	cache      Cache
	defaultTTL time.Duration
}

// NewPlanCache создаёт кэш результатов планирования
func NewPlanCache(cache Cache, defaultTTL time.Duration) *PlanCache {
	if defaultTTL <= 0 {
		defaultTTL = 10 * time.Minute
	}
	return &PlanCache{
		cache:      cache,
		defaultTTL: defaultTTL,
	}
}

// Get получает кэшированный результат плана.
// Второй результат false означает промах кэша.
func (pc *PlanCache) Get(ctx context.Context, g *domain.Graph, scenarios []domain.Scenario) (*domain.PlanResult, bool, error) {
	key := BuildPlanKey(GraphHash(g), ScenarioHash(scenarios))

	data, err := pc.cache.Get(ctx, key)
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}

	var result domain.PlanResult
	if err := json.Unmarshal(data, &result); err != nil {
		// Повреждённый кэш удаляем, ошибку удаления игнорируем
		_ = pc.cache.Delete(ctx, key) //nolint:errcheck // best effort cleanup
		return nil, false, nil
	}

	return &result, true, nil
}

// Set сохраняет результат плана в кэш
func (pc *PlanCache) Set(ctx context.Context, g *domain.Graph, scenarios []domain.Scenario, result *domain.PlanResult, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = pc.defaultTTL
	}

	key := BuildPlanKey(GraphHash(g), ScenarioHash(scenarios))

	data, err := json.Marshal(result)
	if err != nil {
		return err
	}

	return pc.cache.Set(ctx, key, data, ttl)
}

// Invalidate удаляет кэш для графа
func (pc *PlanCache) Invalidate(ctx context.Context, g *domain.Graph) error {
	pattern := fmt.Sprintf("plan:%s:*", GraphHash(g))
	_, err := pc.cache.DeleteByPattern(ctx, pattern)
	return err
}

// InvalidateAll удаляет все кэшированные планы
func (pc *PlanCache) InvalidateAll(ctx context.Context) (int64, error) {
	return pc.cache.DeleteByPattern(ctx, "plan:*")
}
