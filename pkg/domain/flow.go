package domain

import (
	"fmt"

	"evacuation/pkg/apperror"
)

// FlowAssignment распределение потока по коридорам графа.
// Всегда полное: коридоры с нулевым потоком присутствуют явно.
type FlowAssignment map[CorridorKey]float64

// NewZeroAssignment создаёт полное нулевое распределение для графа
func NewZeroAssignment(g *Graph) FlowAssignment {
	fa := make(FlowAssignment, g.CorridorCount())
	for _, c := range g.Corridors() {
		fa[c.Key()] = 0
	}
	return fa
}

// Value возвращает суммарный поток, выходящий из источника
// за вычетом входящего в него (обычно нуль для DAG)
func (fa FlowAssignment) Value(g *Graph) float64 {
	source := g.SourceID()
	total := 0.0
	for _, to := range g.Outgoing(source) {
		total += fa[CorridorKey{From: source, To: to}]
	}
	for _, from := range g.Incoming(source) {
		total -= fa[CorridorKey{From: from, To: source}]
	}
	return total
}

// TotalTimeCost возвращает суммарную временную стоимость Σ f(e)·T(e)
func (fa FlowAssignment) TotalTimeCost(g *Graph) float64 {
	total := 0.0
	for _, c := range g.Corridors() {
		total += fa[c.Key()] * c.TravelTime
	}
	return total
}

// CheckConservation проверяет баланс потока во всех внутренних узлах:
// входящий поток равен исходящему с точностью Epsilon
func (fa FlowAssignment) CheckConservation(g *Graph) error {
	for _, n := range g.Nodes() {
		if n.ID == g.SourceID() || n.ID == g.SinkID() {
			continue
		}

		in := 0.0
		for _, from := range g.Incoming(n.ID) {
			in += fa[CorridorKey{From: from, To: n.ID}]
		}
		out := 0.0
		for _, to := range g.Outgoing(n.ID) {
			out += fa[CorridorKey{From: n.ID, To: to}]
		}

		if !FloatEquals(in, out) {
			return apperror.New(apperror.CodeConservationViolation,
				fmt.Sprintf("node %q: inflow %g != outflow %g", n.ID, in, out))
		}
	}
	return nil
}

// CheckCapacity проверяет, что поток каждого коридора неотрицателен
// и не превышает его пропускную способность
func (fa FlowAssignment) CheckCapacity(g *Graph) error {
	for _, c := range g.Corridors() {
		f := fa[c.Key()]
		if f < -Epsilon {
			return apperror.New(apperror.CodeNegativeFlow,
				fmt.Sprintf("corridor %s carries negative flow %g", c.Key(), f))
		}
		if f > c.Capacity+Epsilon {
			return apperror.New(apperror.CodeCapacityOverflow,
				fmt.Sprintf("corridor %s carries %g over capacity %g", c.Key(), f, c.Capacity))
		}
	}
	return nil
}

// Clone создаёт независимую копию распределения
func (fa FlowAssignment) Clone() FlowAssignment {
	clone := make(FlowAssignment, len(fa))
	for key, f := range fa {
		clone[key] = f
	}
	return clone
}
