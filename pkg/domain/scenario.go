package domain

// BaselineScenario имя базового сценария без нарушений
const BaselineScenario = "baseline"

// Disruption закрытие одного направленного коридора
type Disruption struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Key возвращает ключ закрываемого коридора
func (d Disruption) Key() CorridorKey {
	return CorridorKey{From: d.From, To: d.To}
}

// Scenario именованный вариант топологии: базовый граф
// с набором закрытых коридоров
type Scenario struct {
	Name        string       `json:"name"`
	Disruptions []Disruption `json:"disruptions,omitempty"`
}

// Apply строит граф сценария из базового. Базовый граф не
// изменяется; каждый вызов возвращает независимую копию.
func (s Scenario) Apply(base *Graph) (*Graph, error) {
	g := base.WithName(s.Name)
	for _, d := range s.Disruptions {
		var err error
		g, err = g.WithCorridorDisabled(d.From, d.To)
		if err != nil {
			return nil, err
		}
	}
	return g, nil
}

// CorridorFlow поток по одному коридору в результате сценария
type CorridorFlow struct {
	From       string  `json:"from"`
	To         string  `json:"to"`
	Flow       float64 `json:"flow"`
	Capacity   float64 `json:"capacity"`
	TravelTime float64 `json:"travel_time"`
}

// ScenarioResult результат прогона одного сценария
type ScenarioResult struct {
	Scenario      Scenario       `json:"scenario"`
	FlowValue     float64        `json:"flow_value"`
	TotalTimeCost float64        `json:"total_time_cost"`
	Assignment    FlowAssignment `json:"-"`
	Flows         []CorridorFlow `json:"flows"`
	Warnings      []string       `json:"warnings,omitempty"`
}

// PlanResult результат полного плана: базовый сценарий плюс нарушения
type PlanResult struct {
	RunID    string           `json:"run_id"`
	Building string           `json:"building"`
	Results  []ScenarioResult `json:"results"`
}

// Baseline возвращает результат базового сценария (первый по контракту)
func (p *PlanResult) Baseline() *ScenarioResult {
	for i := range p.Results {
		if p.Results[i].Scenario.Name == BaselineScenario {
			return &p.Results[i]
		}
	}
	if len(p.Results) > 0 {
		return &p.Results[0]
	}
	return nil
}

// CollectFlows формирует упорядоченную таблицу потоков по коридорам
// графа, включая строки с нулевым потоком
func CollectFlows(g *Graph, fa FlowAssignment) []CorridorFlow {
	flows := make([]CorridorFlow, 0, g.CorridorCount())
	for _, c := range g.Corridors() {
		if IsVirtualNode(c.From) || IsVirtualNode(c.To) {
			continue
		}
		flows = append(flows, CorridorFlow{
			From:       c.From,
			To:         c.To,
			Flow:       fa[c.Key()],
			Capacity:   c.Capacity,
			TravelTime: c.TravelTime,
		})
	}
	return flows
}
