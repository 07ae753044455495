package config

import (
	"fmt"
	"strings"

	"evacuation/pkg/domain"
)

// BuildParams возвращает параметры модели времени из конфигурации
func (b BuildingConfig) BuildParams() domain.BuildParams {
	return domain.BuildParams{
		WalkingSpeed: b.WalkingSpeed,
		StairPenalty: b.StairPenalty,
	}
}

// ToGraph строит доменный граф из конфигурации здания.
// Пустой список узлов означает встроенное пилотное здание.
func (b BuildingConfig) ToGraph() (*domain.Graph, error) {
	if len(b.Nodes) == 0 {
		g, err := domain.BuildGraph(
			b.Name,
			domain.DefaultBuildingNodes(),
			domain.DefaultBuildingCorridors(),
			b.BuildParams(),
		)
		if err != nil {
			return nil, err
		}
		return g, nil
	}

	nodes := make([]domain.NodeSpec, 0, len(b.Nodes))
	for _, n := range b.Nodes {
		role, err := parseRole(n.Role)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, domain.NodeSpec{ID: n.ID, Role: role, Name: n.Name})
	}

	corridors := make([]domain.CorridorSpec, 0, len(b.Corridors))
	for _, c := range b.Corridors {
		kind, err := parseKind(c.Kind)
		if err != nil {
			return nil, err
		}
		corridors = append(corridors, domain.CorridorSpec{
			From:     c.From,
			To:       c.To,
			Capacity: c.Capacity,
			Length:   c.Length,
			Kind:     kind,
		})
	}

	return domain.BuildGraph(b.Name, nodes, corridors, b.BuildParams())
}

// ToScenarios преобразует сценарии конфигурации в доменные.
// Пустой список означает встроенные сценарии пилотного отчёта.
func ToScenarios(configs []ScenarioConfig) []domain.Scenario {
	if len(configs) == 0 {
		return domain.DefaultScenarios()
	}

	scenarios := make([]domain.Scenario, 0, len(configs))
	for _, sc := range configs {
		s := domain.Scenario{Name: sc.Name}
		for _, d := range sc.Disruptions {
			s.Disruptions = append(s.Disruptions, domain.Disruption{From: d.From, To: d.To})
		}
		scenarios = append(scenarios, s)
	}
	return scenarios
}

func parseRole(s string) (domain.NodeRole, error) {
	switch strings.ToLower(s) {
	case "entrance":
		return domain.RoleEntrance, nil
	case "room":
		return domain.RoleRoom, nil
	case "junction", "":
		return domain.RoleJunction, nil
	case "stairwell":
		return domain.RoleStairwell, nil
	case "exit":
		return domain.RoleExit, nil
	default:
		return domain.RoleUnspecified, fmt.Errorf("unknown node role %q", s)
	}
}

func parseKind(s string) (domain.CorridorKind, error) {
	switch strings.ToLower(s) {
	case "corridor", "":
		return domain.KindCorridor, nil
	case "ramp":
		return domain.KindRamp, nil
	case "stairs":
		return domain.KindStairs, nil
	default:
		return domain.KindUnspecified, fmt.Errorf("unknown corridor kind %q", s)
	}
}
