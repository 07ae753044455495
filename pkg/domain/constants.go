package domain

import (
	"math"
	"strings"
)

// Математические константы
const (
	Epsilon  = 1e-9
	Infinity = math.MaxFloat64
)

// Параметры модели времени прохода по умолчанию (из отчёта по зданию)
const (
	DefaultWalkingSpeed = 1.2 // м/с
	DefaultStairPenalty = 6.0 // штраф за лестницу, сек
)

// Виртуальные узлы для свёртки нескольких входов/выходов
const (
	VirtualPrefix = "__virtual__"
	SuperSourceID = VirtualPrefix + "source"
	SuperSinkID   = VirtualPrefix + "sink"
)

// IsVirtualNode проверяет, является ли узел виртуальным
func IsVirtualNode(id string) bool {
	return strings.HasPrefix(id, VirtualPrefix)
}

// FloatEquals сравнивает два float64 с учётом Epsilon
func FloatEquals(a, b float64) bool {
	return math.Abs(a-b) < Epsilon
}

// IsZero проверяет, равно ли значение нулю
func IsZero(v float64) bool {
	return math.Abs(v) < Epsilon
}

// IsPositive проверяет, положительно ли значение
func IsPositive(v float64) bool {
	return v > Epsilon
}
