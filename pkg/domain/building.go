package domain

// DefaultBuildingName имя здания из пилотного отчёта
const DefaultBuildingName = "office-2f"

// DefaultBuildingNodes возвращает узлы пилотного двухэтажного здания
func DefaultBuildingNodes() []NodeSpec {
	return []NodeSpec{
		{ID: "N", Role: RoleEntrance, Name: "Main entrance"},
		{ID: "A", Role: RoleJunction, Name: "Lobby"},
		{ID: "B", Role: RoleRoom, Name: "West wing"},
		{ID: "C", Role: RoleRoom, Name: "East wing"},
		{ID: "S1", Role: RoleStairwell, Name: "West stairwell"},
		{ID: "S2", Role: RoleStairwell, Name: "East stairwell"},
		{ID: "D", Role: RoleJunction, Name: "Ground floor hall"},
		{ID: "S", Role: RoleExit, Name: "Emergency exit"},
	}
}

// DefaultBuildingCorridors возвращает коридоры пилотного здания.
// Пропускная способность в чел/мин, длина в метрах.
func DefaultBuildingCorridors() []CorridorSpec {
	return []CorridorSpec{
		{From: "N", To: "A", Capacity: 120, Length: 12, Kind: KindCorridor},
		{From: "A", To: "B", Capacity: 60, Length: 12, Kind: KindCorridor},
		{From: "A", To: "C", Capacity: 60, Length: 12, Kind: KindCorridor},
		{From: "B", To: "S1", Capacity: 40, Length: 12, Kind: KindCorridor},
		{From: "C", To: "S2", Capacity: 40, Length: 12, Kind: KindCorridor},
		{From: "S1", To: "D", Capacity: 40, Length: 10, Kind: KindStairs},
		{From: "S2", To: "D", Capacity: 40, Length: 10, Kind: KindStairs},
		{From: "D", To: "S", Capacity: 120, Length: 12, Kind: KindCorridor},
		{From: "B", To: "C", Capacity: 20, Length: 8, Kind: KindCorridor},
		{From: "C", To: "B", Capacity: 20, Length: 8, Kind: KindCorridor},
		{From: "S1", To: "S2", Capacity: 15, Length: 6, Kind: KindCorridor},
		{From: "S2", To: "S1", Capacity: 15, Length: 6, Kind: KindCorridor},
	}
}

// DefaultBuilding строит граф пилотного здания с параметрами по умолчанию
func DefaultBuilding() (*Graph, error) {
	return BuildGraph(
		DefaultBuildingName,
		DefaultBuildingNodes(),
		DefaultBuildingCorridors(),
		DefaultBuildParams(),
	)
}

// DefaultScenarios возвращает сценарии пилотного отчёта: базовый
// и закрытие коридора A->B
func DefaultScenarios() []Scenario {
	return []Scenario{
		{Name: BaselineScenario},
		{Name: "corridor-A-B-closed", Disruptions: []Disruption{{From: "A", To: "B"}}},
	}
}
