package domain

import (
	"fmt"
	"sort"

	"evacuation/pkg/apperror"
)

// NodeRole роль узла в графе здания
type NodeRole int

const (
	RoleUnspecified NodeRole = iota
	RoleEntrance
	RoleRoom
	RoleJunction
	RoleStairwell
	RoleExit
)

// String возвращает строковое представление роли узла
func (r NodeRole) String() string {
	switch r {
	case RoleEntrance:
		return "entrance"
	case RoleRoom:
		return "room"
	case RoleJunction:
		return "junction"
	case RoleStairwell:
		return "stairwell"
	case RoleExit:
		return "exit"
	default:
		return "unspecified"
	}
}

// IsInterior проверяет, является ли узел внутренним (не вход и не выход)
func (r NodeRole) IsInterior() bool {
	return r != RoleEntrance && r != RoleExit
}

// CorridorKind тип коридора. Лифты исключены правилами эвакуации.
type CorridorKind int

const (
	KindUnspecified CorridorKind = iota
	KindCorridor
	KindRamp
	KindStairs
)

// String возвращает строковое представление типа коридора
func (k CorridorKind) String() string {
	switch k {
	case KindCorridor:
		return "corridor"
	case KindRamp:
		return "ramp"
	case KindStairs:
		return "stairs"
	default:
		return "unspecified"
	}
}

// CorridorKey уникальный ключ направленного коридора
type CorridorKey struct {
	From string
	To   string
}

// String возвращает строковое представление ключа
func (k CorridorKey) String() string {
	return fmt.Sprintf("%s->%s", k.From, k.To)
}

// NodeSpec спецификация узла для построения графа
type NodeSpec struct {
	ID   string
	Role NodeRole
	Name string
}

// CorridorSpec спецификация коридора для построения графа
type CorridorSpec struct {
	From     string
	To       string
	Capacity float64 // чел/мин
	Length   float64 // метры
	Kind     CorridorKind
}

// BuildParams параметры модели времени прохода.
// Явные поля вместо глобальных констант: графы с разными
// скоростями могут существовать одновременно.
type BuildParams struct {
	WalkingSpeed float64 // v, м/с
	StairPenalty float64 // γ, добавка для лестниц
}

// DefaultBuildParams возвращает параметры по умолчанию
func DefaultBuildParams() BuildParams {
	return BuildParams{
		WalkingSpeed: DefaultWalkingSpeed,
		StairPenalty: DefaultStairPenalty,
	}
}

// Node узел графа здания
type Node struct {
	ID   string
	Role NodeRole
	Name string
}

// Corridor направленный коридор с предвычисленным временем прохода
type Corridor struct {
	From       string
	To         string
	Capacity   float64
	Length     float64
	Kind       CorridorKind
	TravelTime float64 // Length/v + γ для лестниц, вычисляется при построении
}

// Key возвращает ключ коридора
func (c *Corridor) Key() CorridorKey {
	return CorridorKey{From: c.From, To: c.To}
}

// Graph неизменяемый граф здания. После построения никогда не
// мутируется: варианты топологии создаются через WithCorridorDisabled.
type Graph struct {
	name      string
	nodes     map[string]*Node
	corridors map[CorridorKey]*Corridor
	order     []CorridorKey // порядок добавления, для детерминизма
	sourceID  string
	sinkID    string
	params    BuildParams

	outgoing map[string][]string
	incoming map[string][]string
}

// Name возвращает имя графа (сценария)
func (g *Graph) Name() string { return g.name }

// SourceID возвращает эффективный источник (вход или супер-источник)
func (g *Graph) SourceID() string { return g.sourceID }

// SinkID возвращает эффективный сток (выход или супер-сток)
func (g *Graph) SinkID() string { return g.sinkID }

// Params возвращает параметры модели времени
func (g *Graph) Params() BuildParams { return g.params }

// Node возвращает узел по ID
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Corridor возвращает коридор по направленной паре узлов
func (g *Graph) Corridor(from, to string) (*Corridor, bool) {
	c, ok := g.corridors[CorridorKey{From: from, To: to}]
	return c, ok
}

// Nodes возвращает узлы в отсортированном порядке
func (g *Graph) Nodes() []*Node {
	ids := make([]string, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	result := make([]*Node, len(ids))
	for i, id := range ids {
		result[i] = g.nodes[id]
	}
	return result
}

// Corridors возвращает коридоры в порядке добавления
func (g *Graph) Corridors() []*Corridor {
	result := make([]*Corridor, len(g.order))
	for i, key := range g.order {
		result[i] = g.corridors[key]
	}
	return result
}

// Outgoing возвращает исходящих соседей узла
func (g *Graph) Outgoing(id string) []string { return g.outgoing[id] }

// Incoming возвращает входящих соседей узла
func (g *Graph) Incoming(id string) []string { return g.incoming[id] }

// NodeCount возвращает количество узлов
func (g *Graph) NodeCount() int { return len(g.nodes) }

// CorridorCount возвращает количество коридоров
func (g *Graph) CorridorCount() int { return len(g.corridors) }

// WithName возвращает копию графа с другим именем
func (g *Graph) WithName(name string) *Graph {
	clone := g.clone()
	clone.name = name
	return clone
}

// WithCorridorDisabled возвращает новый граф, в котором пропускная
// способность названного коридора равна нулю. Исходный граф не
// изменяется; коридор сохраняется, чтобы нулевой поток по нему
// попадал в итоговое распределение.
func (g *Graph) WithCorridorDisabled(from, to string) (*Graph, error) {
	key := CorridorKey{From: from, To: to}
	if _, ok := g.corridors[key]; !ok {
		return nil, apperror.NewUnknownCorridor(key.String())
	}

	clone := g.clone()
	clone.corridors[key].Capacity = 0
	return clone, nil
}

// clone создаёт глубокую копию графа
func (g *Graph) clone() *Graph {
	clone := &Graph{
		name:      g.name,
		nodes:     make(map[string]*Node, len(g.nodes)),
		corridors: make(map[CorridorKey]*Corridor, len(g.corridors)),
		order:     make([]CorridorKey, len(g.order)),
		sourceID:  g.sourceID,
		sinkID:    g.sinkID,
		params:    g.params,
		outgoing:  make(map[string][]string, len(g.outgoing)),
		incoming:  make(map[string][]string, len(g.incoming)),
	}

	for id, n := range g.nodes {
		cn := *n
		clone.nodes[id] = &cn
	}
	for key, c := range g.corridors {
		cc := *c
		clone.corridors[key] = &cc
	}
	copy(clone.order, g.order)
	for id, list := range g.outgoing {
		clone.outgoing[id] = append([]string(nil), list...)
	}
	for id, list := range g.incoming {
		clone.incoming[id] = append([]string(nil), list...)
	}

	return clone
}

// BuildGraph строит неизменяемый граф здания из спецификаций.
// Время прохода каждого коридора вычисляется один раз:
//
//	T = Length/WalkingSpeed + StairPenalty (только для лестниц)
//
// Несколько входов или выходов сворачиваются через виртуальные
// супер-узлы с бесконечной пропускной способностью и нулевой длиной.
// Любая ошибка спецификации — InvalidTopology, без тихой коррекции.
func BuildGraph(name string, nodes []NodeSpec, corridors []CorridorSpec, params BuildParams) (*Graph, error) {
	if !IsPositive(params.WalkingSpeed) {
		return nil, apperror.NewInvalidTopology("walking_speed", fmt.Sprintf("walking speed must be positive, got %g", params.WalkingSpeed))
	}
	if params.StairPenalty < 0 {
		return nil, apperror.NewInvalidTopology("stair_penalty", fmt.Sprintf("stair penalty must be non-negative, got %g", params.StairPenalty))
	}

	g := &Graph{
		name:      name,
		nodes:     make(map[string]*Node, len(nodes)),
		corridors: make(map[CorridorKey]*Corridor, len(corridors)),
		params:    params,
		outgoing:  make(map[string][]string),
		incoming:  make(map[string][]string),
	}

	var entrances, exits []string
	for _, spec := range nodes {
		if spec.ID == "" {
			return nil, apperror.NewInvalidTopology("node.id", "node id must not be empty")
		}
		if IsVirtualNode(spec.ID) {
			return nil, apperror.NewInvalidTopology("node.id", fmt.Sprintf("node id %q uses the reserved virtual prefix", spec.ID))
		}
		if _, exists := g.nodes[spec.ID]; exists {
			return nil, apperror.NewInvalidTopology("node.id", fmt.Sprintf("duplicate node %q", spec.ID))
		}
		g.nodes[spec.ID] = &Node{ID: spec.ID, Role: spec.Role, Name: spec.Name}

		switch spec.Role {
		case RoleEntrance:
			entrances = append(entrances, spec.ID)
		case RoleExit:
			exits = append(exits, spec.ID)
		}
	}

	if len(entrances) == 0 {
		return nil, apperror.NewInvalidTopology("nodes", "graph has no entrance node")
	}
	if len(exits) == 0 {
		return nil, apperror.NewInvalidTopology("nodes", "graph has no exit node")
	}

	for _, spec := range corridors {
		if err := g.addCorridor(spec); err != nil {
			return nil, err
		}
	}

	// Свёртка нескольких входов/выходов через супер-узлы
	sort.Strings(entrances)
	sort.Strings(exits)

	if len(entrances) == 1 {
		g.sourceID = entrances[0]
	} else {
		g.nodes[SuperSourceID] = &Node{ID: SuperSourceID, Role: RoleEntrance}
		g.sourceID = SuperSourceID
		for _, id := range entrances {
			g.nodes[id].Role = RoleJunction
			if err := g.addCorridor(CorridorSpec{From: SuperSourceID, To: id, Capacity: Infinity, Kind: KindCorridor}); err != nil {
				return nil, err
			}
		}
	}

	if len(exits) == 1 {
		g.sinkID = exits[0]
	} else {
		g.nodes[SuperSinkID] = &Node{ID: SuperSinkID, Role: RoleExit}
		g.sinkID = SuperSinkID
		for _, id := range exits {
			g.nodes[id].Role = RoleJunction
			if err := g.addCorridor(CorridorSpec{From: id, To: SuperSinkID, Capacity: Infinity, Kind: KindCorridor}); err != nil {
				return nil, err
			}
		}
	}

	if g.sourceID == g.sinkID {
		return nil, apperror.NewInvalidTopology("nodes", "source and sink are the same node")
	}

	return g, nil
}

// addCorridor валидирует и добавляет коридор
func (g *Graph) addCorridor(spec CorridorSpec) error {
	key := CorridorKey{From: spec.From, To: spec.To}

	if _, ok := g.nodes[spec.From]; !ok {
		return apperror.NewUnknownNode(key.String(), spec.From)
	}
	if _, ok := g.nodes[spec.To]; !ok {
		return apperror.NewUnknownNode(key.String(), spec.To)
	}
	if spec.From == spec.To {
		return apperror.NewInvalidTopology("corridor", fmt.Sprintf("self-loop at node %q", spec.From))
	}
	if spec.Capacity < 0 {
		return apperror.NewNegativeCapacity(key.String(), spec.Capacity)
	}
	if spec.Length < 0 {
		return apperror.NewInvalidTopology("corridor.length", fmt.Sprintf("corridor %s has negative length %g", key, spec.Length))
	}
	if _, exists := g.corridors[key]; exists {
		return apperror.NewInvalidTopology("corridor", fmt.Sprintf("duplicate corridor %s", key))
	}

	travelTime := 0.0
	if spec.Length > 0 {
		travelTime = spec.Length / g.params.WalkingSpeed
	}
	if spec.Kind == KindStairs {
		travelTime += g.params.StairPenalty
	}

	g.corridors[key] = &Corridor{
		From:       spec.From,
		To:         spec.To,
		Capacity:   spec.Capacity,
		Length:     spec.Length,
		Kind:       spec.Kind,
		TravelTime: travelTime,
	}
	g.order = append(g.order, key)
	g.outgoing[spec.From] = append(g.outgoing[spec.From], spec.To)
	g.incoming[spec.To] = append(g.incoming[spec.To], spec.From)

	return nil
}
