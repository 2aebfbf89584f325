package evaluation

import (
	"sort"

	"github.com/godilite/cocina-grades/internal/repository/models"
)

// Snapshot is an immutable view of every record the engine aggregates.
type Snapshot struct {
	Students              []models.Student
	Services              []models.Service
	GroupEvaluations      []models.GroupEvaluation
	IndividualEvaluations []models.IndividualEvaluation
	Assignments           GroupAssignments
	PracticalExams        []models.PracticalExam
	// TheoreticalGrades maps NRE to instrument key to grade.
	TheoreticalGrades map[string]map[string]float64
	// CourseGrades maps NRE to secondary module key to grades.
	CourseGrades   map[string]map[string]models.ModuleGrades
	Structure      Structure
	TrimesterCount int
}

// StudentReport gathers every derived number shown for one student.
type StudentReport struct {
	NRE              string                      `json:"nre"`
	ServiceScores    map[string]ServiceScore     `json:"serviceScores"`
	Calculated       map[string]float64          `json:"calculated"`
	Trimesters       map[int]float64             `json:"trimesters"`
	Recovery         float64                     `json:"recovery"`
	SummaryAverage   *float64                    `json:"summaryAverage"`
	AttendedServices int                         `json:"attendedServices"`
	PracticalExams   map[models.ExamType]float64 `json:"practicalExams"`
	ModuleFinals     map[string]*float64         `json:"moduleFinals"`
}

// SummaryRow is one line of the grade overview table.
type SummaryRow struct {
	NRE              string   `json:"nre"`
	Name             string   `json:"name"`
	Surname          string   `json:"surname"`
	Group            string   `json:"group"`
	AttendedServices int      `json:"attendedServices"`
	Average          *float64 `json:"average"`
	MaxScore         float64  `json:"maxScore"`
}

type snapshotIndex struct {
	individual map[string]*models.IndividualEvaluation
	group      map[string]*models.GroupEvaluation
}

func (s Snapshot) index() snapshotIndex {
	idx := snapshotIndex{
		individual: make(map[string]*models.IndividualEvaluation, len(s.IndividualEvaluations)),
		group:      make(map[string]*models.GroupEvaluation, len(s.GroupEvaluations)),
	}
	for i := range s.IndividualEvaluations {
		ev := &s.IndividualEvaluations[i]
		idx.individual[models.IndividualEvaluationID(ev.ServiceID, ev.NRE)] = ev
	}
	for i := range s.GroupEvaluations {
		ev := &s.GroupEvaluations[i]
		idx.group[models.GroupEvaluationID(ev.ServiceID, ev.GroupID)] = ev
	}
	return idx
}

func (s Snapshot) serviceScore(idx snapshotIndex, nre string, svc models.Service) (ServiceScore, bool) {
	ind := idx.individual[models.IndividualEvaluationID(svc.ID, nre)]
	var grp *models.GroupEvaluation
	if groupID, ok := s.Assignments[nre]; ok {
		grp = idx.group[models.GroupEvaluationID(svc.ID, groupID)]
	}
	return combine(ind, grp)
}

// CalculatedGrades returns the calculated instruments (servicios1..3) that
// have data for the student.
func (s Snapshot) CalculatedGrades(nre string) map[string]float64 {
	return s.calculated(s.index(), nre)
}

func (s Snapshot) calculated(idx snapshotIndex, nre string) map[string]float64 {
	sums := make(map[int]float64)
	counts := make(map[int]int)
	for _, svc := range s.Services {
		score, ok := s.serviceScore(idx, nre, svc)
		if !ok {
			continue
		}
		sums[svc.Trimester] += score.Combined()
		counts[svc.Trimester]++
	}

	out := make(map[string]float64, len(counts))
	for t, n := range counts {
		out[ServicesKey(t)] = sums[t] / float64(n) / servicesScale
	}
	return out
}

// Report computes the full report of one student.
func (s Snapshot) Report(nre string) StudentReport {
	idx := s.index()
	return s.report(idx, nre)
}

func (s Snapshot) report(idx snapshotIndex, nre string) StudentReport {
	rep := StudentReport{
		NRE:            nre,
		ServiceScores:  make(map[string]ServiceScore),
		Trimesters:     make(map[int]float64, len(s.Structure.Trimesters)),
		PracticalExams: make(map[models.ExamType]float64),
		ModuleFinals:   make(map[string]*float64),
	}

	var sum float64
	for _, svc := range s.Services {
		score, ok := s.serviceScore(idx, nre, svc)
		if !ok {
			continue
		}
		rep.ServiceScores[svc.ID] = score
		sum += score.Combined()
		rep.AttendedServices++
	}
	if rep.AttendedServices > 0 {
		avg := sum / float64(rep.AttendedServices)
		rep.SummaryAverage = &avg
	}

	rep.Calculated = s.calculated(idx, nre)
	manual := s.TheoreticalGrades[nre]
	for t, period := range s.Structure.Trimesters {
		rep.Trimesters[t] = TrimesterAverage(period.Instruments, manual, rep.Calculated)
	}
	rep.Recovery = TrimesterAverage(s.Structure.Recovery.Instruments, manual, rep.Calculated)

	for _, exam := range s.PracticalExams {
		if exam.NRE == nre {
			rep.PracticalExams[exam.ExamType] = exam.FinalScore
		}
	}

	for key, grades := range s.CourseGrades[nre] {
		if final, ok := SecondaryModuleFinalGrade(grades, s.TrimesterCount); ok {
			rep.ModuleFinals[key] = &final
		} else {
			rep.ModuleFinals[key] = nil
		}
	}

	return rep
}

// Summary builds the overview table for active students, sorted by surname
// then name. Records of removed students are ignored.
func (s Snapshot) Summary() []SummaryRow {
	idx := s.index()
	rows := make([]SummaryRow, 0, len(s.Students))
	for _, st := range s.Students {
		if !st.Active {
			continue
		}
		row := SummaryRow{
			NRE:      st.NRE,
			Name:     st.Name,
			Surname:  st.Surname,
			Group:    s.Assignments[st.NRE],
			MaxScore: SummaryMaxScore,
		}
		var sum float64
		for _, svc := range s.Services {
			score, ok := s.serviceScore(idx, st.NRE, svc)
			if !ok {
				continue
			}
			sum += score.Combined()
			row.AttendedServices++
		}
		if row.AttendedServices > 0 {
			avg := sum / float64(row.AttendedServices)
			row.Average = &avg
		}
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Surname != rows[j].Surname {
			return rows[i].Surname < rows[j].Surname
		}
		return rows[i].Name < rows[j].Name
	})
	return rows
}
