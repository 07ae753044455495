package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"

	"evacuation/pkg/domain"
)

// GraphHash вычисляет хеш графа здания для использования как ключ кэша.
// Два графа с одинаковой топологией, пропускными способностями и
// параметрами модели времени дают одинаковый хеш независимо от
// порядка задания узлов и коридоров.
func GraphHash(g *domain.Graph) string {
	if g == nil {
		return ""
	}

	hash := sha256.Sum256(graphToCanonical(g))
	return hex.EncodeToString(hash[:16])
}

// graphToCanonical создаёт детерминированное представление графа
func graphToCanonical(g *domain.Graph) []byte {
	var result []byte

	params := g.Params()
	result = append(result, []byte(fmt.Sprintf("s:%s,t:%s,v:%.6f,p:%.6f;",
		g.SourceID(), g.SinkID(), params.WalkingSpeed, params.StairPenalty))...)

	// Nodes() уже отсортированы по ID
	for _, n := range g.Nodes() {
		result = append(result, []byte(fmt.Sprintf("n:%s:%d;", n.ID, n.Role))...)
	}

	// Коридоры сортируем по ключу, порядок добавления не важен для хеша
	corridors := g.Corridors()
	sort.Slice(corridors, func(i, j int) bool {
		if corridors[i].From != corridors[j].From {
			return corridors[i].From < corridors[j].From
		}
		return corridors[i].To < corridors[j].To
	})
	for _, c := range corridors {
		result = append(result, []byte(fmt.Sprintf("e:%s:%s:%.6f:%.6f:%d;",
			c.From, c.To, c.Capacity, c.Length, c.Kind))...)
	}

	return result
}

// ScenarioHash вычисляет хеш набора сценариев
func ScenarioHash(scenarios []domain.Scenario) string {
	var data []byte
	for _, s := range scenarios {
		data = append(data, []byte(fmt.Sprintf("sc:%s", s.Name))...)
		for _, d := range s.Disruptions {
			data = append(data, []byte(fmt.Sprintf(":%s->%s", d.From, d.To))...)
		}
		data = append(data, ';')
	}

	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:8])
}

// BuildPlanKey строит ключ кэша для результата плана
func BuildPlanKey(graphHash, scenarioHash string) string {
	return fmt.Sprintf("plan:%s:%s", graphHash, scenarioHash)
}

// QuickHash быстрый хеш для произвольных данных
func QuickHash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
