package models

import (
	"encoding/json"
	"time"
)

// Direction of travel on the line. "lisboa" runs south to north and
// terminates at Roma-Areeiro; "margem" is the return leg.
type Direction string

const (
	DirectionLisboa Direction = "lisboa"
	DirectionMargem Direction = "margem"
)

// DayType classifies an operational day for schedule selection.
type DayType string

const (
	DayEveryday DayType = "everyday"
	DayWeekday  DayType = "weekday"
	DayWeekend  DayType = "weekend"
)

// Trip is one scheduled service instance, immutable after loading.
// Times holds the scheduled time-of-day ("HH:MM" or "HH:MM:SS") per
// station slug; stations the trip skips are simply absent.
type Trip struct {
	ID        string
	Direction Direction
	Service   int // 0 = short turn, runs Coina<->Roma-Areeiro only
	Occupancy int
	Days      DayType
	Times     map[string]string
}

// RunsOn reports whether the trip operates on the given day type.
func (t *Trip) RunsOn(day DayType) bool {
	return t.Days == "" || t.Days == DayEveryday || t.Days == day
}

// Time returns the scheduled time for a station slug, or "" if the
// trip does not call there.
func (t *Trip) Time(slug string) string {
	return t.Times[slug]
}

// PassageNode is one station-level fact from the upstream feed. Field
// tags follow the operator's JSON vocabulary.
type PassageNode struct {
	StationName string `json:"NomeEstacao"`
	Passed      bool   `json:"ComboioPassou"`
	Programmed  string `json:"HoraProgramada"`
	NodeID      int64  `json:"NodeID"`
	Remarks     string `json:"Observacoes"`
}

// LiveDetails is the upstream live-passage payload for one trip.
type LiveDetails struct {
	Status      string        `json:"SituacaoComboio"`
	Duration    string        `json:"DuracaoViagem"`
	Operator    string        `json:"Operador"`
	Origin      string        `json:"Origem"`
	Destination string        `json:"Destino"`
	Nodes       []PassageNode `json:"NodesPassagemComboio"`
}

// StationPassage is the per-station record published for a trip.
// HoraProgramada carries the public (departure-oriented) time; the
// arrival-oriented time used for delay math is kept alongside.
type StationPassage struct {
	Passed            bool   `json:"ComboioPassou"`
	Programmed        string `json:"HoraProgramada"`
	ProgrammedArrival string `json:"HoraChegadaProgramada"`
	Actual            string `json:"HoraReal"`
	Delay             int    `json:"AtrasoReal"`
	Predicted         string `json:"HoraPrevista"`
	StationID         int64  `json:"EstacaoID"`
	StationName       string `json:"NomeEstacao"`
	Remarks           string `json:"Observacoes"`
}

// TrainOutput is the published per-train record. Rebuilt from scratch
// every cycle and replaced wholesale in the snapshot, never mutated.
type TrainOutput struct {
	ID              string           `json:"id-comboio"`
	DestinationTime string           `json:"DataHoraDestino"`
	OriginTime      string           `json:"DataHoraOrigem"`
	Destination     string           `json:"Destino"`
	Duration        string           `json:"DuracaoViagem"`
	Operator        string           `json:"Operador"`
	Origin          string           `json:"Origem"`
	ServiceType     string           `json:"TipoServico"`
	Live            bool             `json:"Live"`
	Occupancy       int              `json:"Ocupacao"`
	Passages        []StationPassage `json:"NodesPassagemComboio"`
	Delay           int              `json:"AtrasoCalculado"`
	Status          string           `json:"SituacaoComboio"`
}

// Snapshot is the externally visible state: every tracked train plus
// the pre-fetched statuses of trains not yet in their active window.
type Snapshot struct {
	Trains       map[string]TrainOutput
	FutureTrains map[string]string
}

// MarshalJSON flattens the snapshot into the wire shape consumed by
// the web app: train ids as top-level keys plus a "futureTrains" map.
func (s Snapshot) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(s.Trains)+1)
	for id, t := range s.Trains {
		out[id] = t
	}
	future := s.FutureTrains
	if future == nil {
		future = map[string]string{}
	}
	out["futureTrains"] = future
	return json.Marshal(out)
}

// Health is the lightweight status payload served at the root route.
type Health struct {
	Status       string    `json:"status"`
	Message      string    `json:"message"`
	Version      string    `json:"version"`
	Timestamp    time.Time `json:"timestamp"`
	DayType      DayType   `json:"day_type"`
	LastCycle    time.Time `json:"last_cycle"`
	ActiveTrains int       `json:"active_trains"`
}
