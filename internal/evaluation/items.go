package evaluation

import "github.com/godilite/cocina-grades/internal/repository/models"

// GroupItems is the fixed rubric applied to a partida (practice group) per service.
var GroupItems = []models.EvaluationItem{
	{ID: "organizacion", Label: "Organización de la partida", Points: 2},
	{ID: "higiene", Label: "Higiene y seguridad", Points: 2},
	{ID: "coordinacion", Label: "Coordinación y trabajo en equipo", Points: 2},
	{ID: "tecnica", Label: "Técnica culinaria", Points: 2},
	{ID: "resultado", Label: "Resultado final del plato", Points: 2},
}

// IndividualItems is the fixed rubric applied to each attending student per service.
var IndividualItems = []models.EvaluationItem{
	{ID: "puntualidad", Label: "Puntualidad", Points: 1},
	{ID: "uniforme", Label: "Uniforme completo", Points: 1},
	{ID: "actitud", Label: "Actitud e interés", Points: 2},
	{ID: "tecnica", Label: "Aplicación de técnicas", Points: 3},
	{ID: "limpieza", Label: "Limpieza del puesto", Points: 1},
	{ID: "iniciativa", Label: "Iniciativa y autonomía", Points: 2},
}

// MaxPoints sums the declared maxima of items.
func MaxPoints(items []models.EvaluationItem) float64 {
	var total float64
	for _, it := range items {
		total += it.Points
	}
	return total
}

// FindItem returns the item with the given id.
func FindItem(items []models.EvaluationItem, id string) (models.EvaluationItem, bool) {
	for _, it := range items {
		if it.ID == id {
			return it, true
		}
	}
	return models.EvaluationItem{}, false
}
