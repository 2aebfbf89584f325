// Package evaluation computes service scores, exam scores and trimester
// averages from snapshots of stored records. Nothing here reads or writes
// storage, and missing data never produces an error: absence is reported
// through ok flags or skipped, never turned into a zero score.
package evaluation

import (
	"math"

	"github.com/godilite/cocina-grades/internal/repository/models"
)

const (
	// servicesScale halves the combined group+individual score so the
	// servicios instrument lands on the 0-10 scale of the other instruments.
	servicesScale = 2.0

	// SummaryMaxScore is the nominal maximum of the summary table average
	// (group maximum + individual maximum, not halved).
	SummaryMaxScore = 20.0
)

// GroupAssignments maps a student NRE to its current practice group.
type GroupAssignments map[string]string

// ServiceScore is a student's score for one attended service.
type ServiceScore struct {
	Group      float64 `json:"group"`
	Individual float64 `json:"individual"`
}

// Combined is individual + group.
func (s ServiceScore) Combined() float64 {
	return s.Individual + s.Group
}

// ItemTotal sums the recorded item scores.
func ItemTotal(scores []models.ItemScore) float64 {
	var total float64
	for _, s := range scores {
		total += s.Score
	}
	return total
}

func combine(ind *models.IndividualEvaluation, grp *models.GroupEvaluation) (ServiceScore, bool) {
	if ind == nil || ind.Attendance != models.AttendancePresent {
		return ServiceScore{}, false
	}
	score := ServiceScore{Individual: ItemTotal(ind.Scores)}
	if grp != nil {
		score.Group = ItemTotal(grp.Scores)
	}
	return score, true
}

// ComputeServiceScore returns the student's score for a service. ok is false
// when the student has no individual record for it or was absent.
func ComputeServiceScore(
	nre string,
	service models.Service,
	groups []models.GroupEvaluation,
	individuals []models.IndividualEvaluation,
	assignments GroupAssignments,
) (ServiceScore, bool) {
	var ind *models.IndividualEvaluation
	for i := range individuals {
		if individuals[i].ServiceID == service.ID && individuals[i].NRE == nre {
			ind = &individuals[i]
			break
		}
	}

	var grp *models.GroupEvaluation
	if groupID, ok := assignments[nre]; ok {
		for i := range groups {
			if groups[i].ServiceID == service.ID && groups[i].GroupID == groupID {
				grp = &groups[i]
				break
			}
		}
	}

	return combine(ind, grp)
}

// TrimesterServicesValue is the "servicios" instrument of a trimester: the
// mean combined score over attended services, halved. ok is false when the
// student attended no service in that trimester.
func TrimesterServicesValue(
	nre string,
	trimester int,
	services []models.Service,
	groups []models.GroupEvaluation,
	individuals []models.IndividualEvaluation,
	assignments GroupAssignments,
) (float64, bool) {
	var sum float64
	var attended int
	for _, svc := range services {
		if svc.Trimester != trimester {
			continue
		}
		score, ok := ComputeServiceScore(nre, svc, groups, individuals, assignments)
		if !ok {
			continue
		}
		sum += score.Combined()
		attended++
	}
	if attended == 0 {
		return 0, false
	}
	return sum / float64(attended) / servicesScale, true
}

// SummaryAverage is the mean combined score over every attended service in
// any trimester, on the SummaryMaxScore scale.
func SummaryAverage(
	nre string,
	services []models.Service,
	groups []models.GroupEvaluation,
	individuals []models.IndividualEvaluation,
	assignments GroupAssignments,
) (float64, int) {
	var sum float64
	var attended int
	for _, svc := range services {
		score, ok := ComputeServiceScore(nre, svc, groups, individuals, assignments)
		if !ok {
			continue
		}
		sum += score.Combined()
		attended++
	}
	if attended == 0 {
		return 0, 0
	}
	return sum / float64(attended), attended
}

// PracticalExamFinalScore weighs the average criterion score of each rubric
// section. Unrecorded criteria count as 0; sections without criteria add 0.
func PracticalExamFinalScore(exam models.PracticalExam, rubric Rubric) float64 {
	recorded := make(map[string]float64, len(exam.Criteria))
	for _, c := range exam.Criteria {
		recorded[c.CriterionID] = c.Score
	}

	var total float64
	for _, sec := range rubric.Sections {
		if len(sec.Criteria) == 0 {
			continue
		}
		var raSum float64
		for _, c := range sec.Criteria {
			raSum += recorded[c.ID]
		}
		total += raSum / float64(len(sec.Criteria)) * sec.Weight
	}
	return total
}

// TrimesterAverage weighs the defined instrument values. Instruments without
// a value are left out of both sums, so a single graded instrument yields its
// own value. Returns 0 when no instrument has a value.
func TrimesterAverage(instruments []Instrument, manual, calculated map[string]float64) float64 {
	var weightedSum, totalWeight float64
	for _, in := range instruments {
		source := calculated
		if in.Type == InstrumentManual {
			source = manual
		}
		value, ok := source[in.Key]
		if !ok || math.IsNaN(value) || math.IsInf(value, 0) {
			continue
		}
		weightedSum += value * in.Weight
		totalWeight += in.Weight
	}
	if totalWeight <= 0 {
		return 0
	}
	return weightedSum / totalWeight
}

// SecondaryModuleFinalGrade averages the defined trimester grades. T3 only
// counts when trimesterCount is 3. The recovery grade is stored but never
// folded into this average.
func SecondaryModuleFinalGrade(grades models.ModuleGrades, trimesterCount int) (float64, bool) {
	terms := []*float64{grades.T1, grades.T2}
	if trimesterCount == 3 {
		terms = append(terms, grades.T3)
	}

	var sum float64
	var count int
	for _, g := range terms {
		if g == nil {
			continue
		}
		sum += *g
		count++
	}
	if count == 0 {
		return 0, false
	}
	return sum / float64(count), true
}
