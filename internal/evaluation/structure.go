package evaluation

import "fmt"

type InstrumentType string

const (
	// InstrumentManual values are read from the theoretical exam grades.
	InstrumentManual InstrumentType = "manual"
	// InstrumentCalculated values are derived from service evaluations.
	InstrumentCalculated InstrumentType = "calculated"
)

type Instrument struct {
	Key    string         `json:"key"`
	Label  string         `json:"label"`
	Type   InstrumentType `json:"type"`
	Weight float64        `json:"weight"`
}

type Period struct {
	Instruments []Instrument `json:"instruments"`
}

// Structure describes which instruments make up each trimester grade of the
// main module and the recovery period.
type Structure struct {
	Trimesters map[int]Period `json:"trimestres"`
	Recovery   Period         `json:"recuperacion"`
}

// ServicesKey is the calculated instrument key for a trimester, e.g. "servicios1".
func ServicesKey(trimester int) string {
	return fmt.Sprintf("servicios%d", trimester)
}

// DefaultStructure is the academic evaluation structure of the main module.
func DefaultStructure() Structure {
	return Structure{
		Trimesters: map[int]Period{
			1: {Instruments: []Instrument{
				{Key: "exTeorico1", Label: "Examen teórico 1ª evaluación", Type: InstrumentManual, Weight: 0.3},
				{Key: "exPractico1", Label: "Examen práctico 1ª evaluación", Type: InstrumentManual, Weight: 0.3},
				{Key: ServicesKey(1), Label: "Servicios 1ª evaluación", Type: InstrumentCalculated, Weight: 0.4},
			}},
			2: {Instruments: []Instrument{
				{Key: "exTeorico2", Label: "Examen teórico 2ª evaluación", Type: InstrumentManual, Weight: 0.3},
				{Key: "exPractico2", Label: "Examen práctico 2ª evaluación", Type: InstrumentManual, Weight: 0.3},
				{Key: ServicesKey(2), Label: "Servicios 2ª evaluación", Type: InstrumentCalculated, Weight: 0.4},
			}},
		},
		Recovery: Period{Instruments: []Instrument{
			{Key: "exTeoricoRec", Label: "Examen teórico recuperación", Type: InstrumentManual, Weight: 0.5},
			{Key: "exPracticoRec", Label: "Examen práctico recuperación", Type: InstrumentManual, Weight: 0.5},
		}},
	}
}

// ManualKeys lists every manual instrument key in the structure.
func (s Structure) ManualKeys() map[string]bool {
	keys := make(map[string]bool)
	add := func(p Period) {
		for _, in := range p.Instruments {
			if in.Type == InstrumentManual {
				keys[in.Key] = true
			}
		}
	}
	for _, p := range s.Trimesters {
		add(p)
	}
	add(s.Recovery)
	return keys
}
