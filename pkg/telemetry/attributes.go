package telemetry

import (
	"go.opentelemetry.io/otel/attribute"
)

// Стандартные ключи атрибутов
const (
	// Граф здания
	AttrGraphNodes     = "graph.nodes"
	AttrGraphCorridors = "graph.corridors"
	AttrGraphSource    = "graph.source"
	AttrGraphSink      = "graph.sink"

	// Сценарий
	AttrScenario    = "scenario.name"
	AttrDisruptions = "scenario.disruptions"

	// Решатель
	AttrStage      = "solver.stage"
	AttrMaxFlow    = "solver.max_flow"
	AttrTimeCost   = "solver.time_cost"
	AttrIterations = "solver.iterations"
)

// GraphAttributes возвращает атрибуты графа
func GraphAttributes(nodes, corridors int, source, sink string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int(AttrGraphNodes, nodes),
		attribute.Int(AttrGraphCorridors, corridors),
		attribute.String(AttrGraphSource, source),
		attribute.String(AttrGraphSink, sink),
	}
}

// ScenarioAttributes возвращает атрибуты сценария
func ScenarioAttributes(name string, disruptions int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(AttrScenario, name),
		attribute.Int(AttrDisruptions, disruptions),
	}
}

// SolverAttributes возвращает атрибуты решения
func SolverAttributes(stage string, maxFlow, timeCost float64) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(AttrStage, stage),
		attribute.Float64(AttrMaxFlow, maxFlow),
		attribute.Float64(AttrTimeCost, timeCost),
	}
}
