package evaluation

import "github.com/godilite/cocina-grades/internal/repository/models"

type Criterion struct {
	ID       string  `json:"id"`
	Label    string  `json:"label"`
	MaxLevel float64 `json:"maxLevel"`
}

// RubricSection contributes Weight (a fraction of 1) of the exam final score.
type RubricSection struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Weight   float64     `json:"weight"`
	Criteria []Criterion `json:"criteria"`
}

type Rubric struct {
	Sections []RubricSection `json:"sections"`
}

// FindCriterion returns the criterion with the given id in any section.
func (r Rubric) FindCriterion(id string) (Criterion, bool) {
	for _, sec := range r.Sections {
		for _, c := range sec.Criteria {
			if c.ID == id {
				return c, true
			}
		}
	}
	return Criterion{}, false
}

var firstTermRubric = Rubric{Sections: []RubricSection{
	{ID: "ra1", Name: "Organización y mise en place", Weight: 0.3, Criteria: []Criterion{
		{ID: "ra1_planificacion", Label: "Planifica la secuencia de trabajo", MaxLevel: 4},
		{ID: "ra1_mise", Label: "Prepara y ordena el género", MaxLevel: 4},
	}},
	{ID: "ra2", Name: "Técnicas de preelaboración", Weight: 0.4, Criteria: []Criterion{
		{ID: "ra2_cortes", Label: "Ejecuta cortes básicos", MaxLevel: 4},
		{ID: "ra2_limpieza", Label: "Limpia y racionaliza el género", MaxLevel: 4},
		{ID: "ra2_conservacion", Label: "Aplica métodos de conservación", MaxLevel: 4},
	}},
	{ID: "ra3", Name: "Higiene y seguridad", Weight: 0.3, Criteria: []Criterion{
		{ID: "ra3_higiene", Label: "Cumple normas higiénico-sanitarias", MaxLevel: 4},
	}},
}}

var secondTermRubric = Rubric{Sections: []RubricSection{
	{ID: "ra4", Name: "Técnicas de cocción", Weight: 0.5, Criteria: []Criterion{
		{ID: "ra4_coccion", Label: "Aplica la técnica de cocción adecuada", MaxLevel: 4},
		{ID: "ra4_punto", Label: "Controla puntos y temperaturas", MaxLevel: 4},
	}},
	{ID: "ra5", Name: "Fondos y salsas", Weight: 0.3, Criteria: []Criterion{
		{ID: "ra5_fondos", Label: "Elabora fondos básicos", MaxLevel: 4},
		{ID: "ra5_salsas", Label: "Elabora salsas derivadas", MaxLevel: 4},
	}},
	{ID: "ra6", Name: "Presentación", Weight: 0.2, Criteria: []Criterion{
		{ID: "ra6_emplatado", Label: "Emplata y decora", MaxLevel: 4},
	}},
}}

// RubricFor selects the rubric of an exam type. T1 and REC share a rubric.
func RubricFor(examType models.ExamType) (Rubric, bool) {
	switch examType {
	case models.ExamT1, models.ExamRec:
		return firstTermRubric, true
	case models.ExamT2:
		return secondTermRubric, true
	default:
		return Rubric{}, false
	}
}
