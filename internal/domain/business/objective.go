// internal/domain/business/objective.go
package business

import (
	"strings"
)

// Objective is the single primary marketing goal that drives template
// selection. The zero value is ObjectiveUnknown, which every consumer
// must treat as "use the default branch".
type Objective uint8

const (
	ObjectiveUnknown Objective = iota
	ObjectiveCapture
	ObjectiveFrequency
	ObjectiveRaiseTicket
	ObjectiveReviews
	ObjectiveVirality
	ObjectiveLoyalty
	ObjectiveOffPeak
	ObjectiveLaunch
	ObjectiveRotateProducts
	ObjectiveReduceDependency

	// ObjectiveCount sizes every objective-indexed table.
	ObjectiveCount
)

// canonical wire values
var objectiveNames = [...]string{
	ObjectiveUnknown:          "",
	ObjectiveCapture:          "capture-new-customers",
	ObjectiveFrequency:        "increase-frequency",
	ObjectiveRaiseTicket:      "raise-average-ticket",
	ObjectiveReviews:          "get-reviews",
	ObjectiveVirality:         "virality",
	ObjectiveLoyalty:          "loyalty",
	ObjectiveOffPeak:          "fill-off-peak-hours",
	ObjectiveLaunch:           "product-launch",
	ObjectiveRotateProducts:   "rotate-products",
	ObjectiveReduceDependency: "reduce-dependency",
}

// short labels used in generated narrative copy
var objectiveLabels = [...]string{
	ObjectiveUnknown:          "captacion",
	ObjectiveCapture:          "captacion",
	ObjectiveFrequency:        "frecuencia",
	ObjectiveRaiseTicket:      "ticket_medio",
	ObjectiveReviews:          "resenas",
	ObjectiveVirality:         "viralidad",
	ObjectiveLoyalty:          "fidelizacion",
	ObjectiveOffPeak:          "horas_valle",
	ObjectiveLaunch:           "lanzamiento",
	ObjectiveRotateProducts:   "rotar_productos",
	ObjectiveReduceDependency: "bajar_dependencia",
}

var (
	_ [len(objectiveNames) - int(ObjectiveCount)]struct{}
	_ [int(ObjectiveCount) - len(objectiveNames)]struct{}
	_ [len(objectiveLabels) - int(ObjectiveCount)]struct{}
	_ [int(ObjectiveCount) - len(objectiveLabels)]struct{}
)

// objectiveAliases maps every accepted spelling, including both
// generations of the stored Spanish keys, to its objective.
var objectiveAliases = map[string]Objective{
	"captacion":             ObjectiveCapture,
	"captacion_nuevos":      ObjectiveCapture,
	"frecuencia":            ObjectiveFrequency,
	"aumentar_recurrencia":  ObjectiveFrequency,
	"ticket_medio":          ObjectiveRaiseTicket,
	"subir_ticket":          ObjectiveRaiseTicket,
	"resenas":               ObjectiveReviews,
	"conseguir_resenas":     ObjectiveReviews,
	"viralidad":             ObjectiveVirality,
	"viralidad_rrss":        ObjectiveVirality,
	"fidelizacion":          ObjectiveLoyalty,
	"fidelizacion_vip":      ObjectiveLoyalty,
	"horas_valle":           ObjectiveOffPeak,
	"llenar_horas_valle":    ObjectiveOffPeak,
	"lanzamiento":           ObjectiveLaunch,
	"lanzamiento_productos": ObjectiveLaunch,
	"rotar_productos":       ObjectiveRotateProducts,
	"bajar_dependencia":     ObjectiveReduceDependency,
}

func init() {
	for i := ObjectiveCapture; i < ObjectiveCount; i++ {
		objectiveAliases[objectiveNames[i]] = i
	}
}

// ParseObjective never fails: unrecognised input yields ObjectiveUnknown.
func ParseObjective(s string) Objective {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.ReplaceAll(key, "ñ", "n")
	if o, ok := objectiveAliases[key]; ok {
		return o
	}
	return ObjectiveUnknown
}

func (o Objective) String() string {
	if o >= ObjectiveCount {
		return ""
	}
	return objectiveNames[o]
}

// Label is the short Spanish key shown in generated copy.
func (o Objective) Label() string {
	if o >= ObjectiveCount {
		return objectiveLabels[ObjectiveUnknown]
	}
	return objectiveLabels[o]
}

func (o Objective) Known() bool {
	return o > ObjectiveUnknown && o < ObjectiveCount
}

func (o Objective) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

func (o *Objective) UnmarshalText(text []byte) error {
	*o = ParseObjective(string(text))
	return nil
}
