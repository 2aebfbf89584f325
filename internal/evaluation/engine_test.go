package evaluation

import (
	"testing"

	"github.com/godilite/cocina-grades/internal/repository/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f(v float64) *float64 { return &v }

func scores(pairs ...any) []models.ItemScore {
	out := make([]models.ItemScore, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, models.ItemScore{ItemID: pairs[i].(string), Score: pairs[i+1].(float64)})
	}
	return out
}

// firstTrimesterFixture: student 1001 attends A and B, is absent from C.
func firstTrimesterFixture() ([]models.Service, []models.GroupEvaluation, []models.IndividualEvaluation, GroupAssignments) {
	services := []models.Service{
		{ID: "A", Name: "Servicio A", Trimester: 1},
		{ID: "B", Name: "Servicio B", Trimester: 1},
		{ID: "C", Name: "Servicio C", Trimester: 1},
	}
	groups := []models.GroupEvaluation{
		{ServiceID: "A", GroupID: "P1", Scores: scores("organizacion", 2.0, "higiene", 2.0)},
		{ServiceID: "B", GroupID: "P1", Scores: scores("tecnica", 2.0, "resultado", 1.0)},
		{ServiceID: "C", GroupID: "P1", Scores: scores("tecnica", 2.0)},
	}
	individuals := []models.IndividualEvaluation{
		{ServiceID: "A", NRE: "1001", Attendance: models.AttendancePresent, Scores: scores("tecnica", 3.0, "actitud", 2.0)},
		{ServiceID: "B", NRE: "1001", Attendance: models.AttendancePresent, Scores: scores("tecnica", 3.0, "actitud", 2.0, "puntualidad", 1.0)},
		{ServiceID: "C", NRE: "1001", Attendance: models.AttendanceAbsent},
	}
	return services, groups, individuals, GroupAssignments{"1001": "P1"}
}

func TestItemTotal(t *testing.T) {
	assert.Equal(t, 0.0, ItemTotal(nil))
	assert.Equal(t, 5.5, ItemTotal(scores("a", 2.0, "b", 3.5)))
}

func TestComputeServiceScore(t *testing.T) {
	services, groups, individuals, assignments := firstTrimesterFixture()

	t.Run("present student combines individual and group", func(t *testing.T) {
		score, ok := ComputeServiceScore("1001", services[0], groups, individuals, assignments)
		require.True(t, ok)
		assert.Equal(t, 5.0, score.Individual)
		assert.Equal(t, 4.0, score.Group)
		assert.Equal(t, 9.0, score.Combined())
	})

	t.Run("absent student is excluded", func(t *testing.T) {
		_, ok := ComputeServiceScore("1001", services[2], groups, individuals, assignments)
		assert.False(t, ok)
	})

	t.Run("missing individual record is excluded", func(t *testing.T) {
		_, ok := ComputeServiceScore("2002", services[0], groups, individuals, GroupAssignments{"2002": "P1"})
		assert.False(t, ok)
	})

	t.Run("no group evaluation counts group as zero", func(t *testing.T) {
		score, ok := ComputeServiceScore("1001", services[0], nil, individuals, assignments)
		require.True(t, ok)
		assert.Equal(t, 0.0, score.Group)
		assert.Equal(t, 5.0, score.Combined())
	})

	t.Run("unassigned student gets no group score", func(t *testing.T) {
		score, ok := ComputeServiceScore("1001", services[0], groups, individuals, GroupAssignments{})
		require.True(t, ok)
		assert.Equal(t, 0.0, score.Group)
	})
}

func TestTrimesterServicesValue(t *testing.T) {
	services, groups, individuals, assignments := firstTrimesterFixture()

	t.Run("two of three attended", func(t *testing.T) {
		v, ok := TrimesterServicesValue("1001", 1, services, groups, individuals, assignments)
		require.True(t, ok)
		assert.InDelta(t, 4.5, v, 1e-9) // ((9+9)/2)/2
	})

	t.Run("no attended services is no data, not zero", func(t *testing.T) {
		_, ok := TrimesterServicesValue("1001", 2, services, groups, individuals, assignments)
		assert.False(t, ok)

		_, ok = TrimesterServicesValue("9999", 1, services, groups, individuals, assignments)
		assert.False(t, ok)
	})

	t.Run("absence does not lower the denominator", func(t *testing.T) {
		withZero := append([]models.IndividualEvaluation{}, individuals...)
		withZero[2] = models.IndividualEvaluation{ServiceID: "C", NRE: "1001", Attendance: models.AttendancePresent}
		v, ok := TrimesterServicesValue("1001", 1, services, groups, withZero, assignments)
		require.True(t, ok)
		// C now attended with individual 0 + group 2: (9+9+2)/3/2
		assert.InDelta(t, 20.0/3.0/2.0, v, 1e-9)
	})
}

func TestSummaryAverage(t *testing.T) {
	services, groups, individuals, assignments := firstTrimesterFixture()
	services = append(services, models.Service{ID: "D", Trimester: 2})
	individuals = append(individuals, models.IndividualEvaluation{
		ServiceID: "D", NRE: "1001", Attendance: models.AttendancePresent, Scores: scores("tecnica", 3.0),
	})

	avg, n := SummaryAverage("1001", services, groups, individuals, assignments)
	assert.Equal(t, 3, n)
	assert.InDelta(t, (9.0+9.0+3.0)/3.0, avg, 1e-9)

	_, n = SummaryAverage("nobody", services, groups, individuals, assignments)
	assert.Equal(t, 0, n)
}

func TestPracticalExamFinalScore(t *testing.T) {
	rubric := Rubric{Sections: []RubricSection{
		{ID: "s1", Weight: 0.6, Criteria: []Criterion{{ID: "c1", MaxLevel: 4}, {ID: "c2", MaxLevel: 4}}},
		{ID: "s2", Weight: 0.4, Criteria: []Criterion{{ID: "c3", MaxLevel: 4}}},
	}}
	exam := models.PracticalExam{NRE: "1001", ExamType: models.ExamT1, Criteria: []models.CriterionScore{
		{CriterionID: "c1", Score: 2},
		{CriterionID: "c2", Score: 3},
		{CriterionID: "c3", Score: 1},
	}}

	t.Run("weighted section averages", func(t *testing.T) {
		assert.InDelta(t, 1.9, PracticalExamFinalScore(exam, rubric), 1e-9)
	})

	t.Run("criterion order does not matter", func(t *testing.T) {
		reordered := exam
		reordered.Criteria = []models.CriterionScore{exam.Criteria[2], exam.Criteria[0], exam.Criteria[1]}
		assert.InDelta(t, PracticalExamFinalScore(exam, rubric), PracticalExamFinalScore(reordered, rubric), 1e-12)
	})

	t.Run("idempotent", func(t *testing.T) {
		first := PracticalExamFinalScore(exam, rubric)
		assert.Equal(t, first, PracticalExamFinalScore(exam, rubric))
	})

	t.Run("unrecorded criteria count as zero", func(t *testing.T) {
		partial := models.PracticalExam{Criteria: []models.CriterionScore{{CriterionID: "c1", Score: 4}}}
		assert.InDelta(t, 2.0*0.6, PracticalExamFinalScore(partial, rubric), 1e-9)
	})

	t.Run("empty section contributes nothing", func(t *testing.T) {
		r := Rubric{Sections: append(rubric.Sections, RubricSection{ID: "empty", Weight: 0.5})}
		assert.InDelta(t, 1.9, PracticalExamFinalScore(exam, r), 1e-9)
	})
}

func TestRubricFor(t *testing.T) {
	t1, ok := RubricFor(models.ExamT1)
	require.True(t, ok)
	rec, ok := RubricFor(models.ExamRec)
	require.True(t, ok)
	t2, ok := RubricFor(models.ExamT2)
	require.True(t, ok)

	assert.Equal(t, t1, rec)
	assert.NotEqual(t, t1, t2)

	_, ok = RubricFor("T9")
	assert.False(t, ok)

	for _, r := range []Rubric{t1, t2} {
		var weight float64
		for _, s := range r.Sections {
			weight += s.Weight
		}
		assert.InDelta(t, 1.0, weight, 1e-9)
	}
}

func TestTrimesterAverage(t *testing.T) {
	instruments := DefaultStructure().Trimesters[1].Instruments

	t.Run("no values returns zero", func(t *testing.T) {
		assert.Equal(t, 0.0, TrimesterAverage(instruments, nil, nil))
	})

	t.Run("single value returns it unweighted", func(t *testing.T) {
		avg := TrimesterAverage(instruments, map[string]float64{"exTeorico1": 6.5}, nil)
		assert.InDelta(t, 6.5, avg, 1e-9)

		avg = TrimesterAverage(instruments, nil, map[string]float64{"servicios1": 4.5})
		assert.InDelta(t, 4.5, avg, 1e-9)
	})

	t.Run("all values weighted", func(t *testing.T) {
		avg := TrimesterAverage(instruments,
			map[string]float64{"exTeorico1": 5, "exPractico1": 7},
			map[string]float64{"servicios1": 8})
		assert.InDelta(t, 5*0.3+7*0.3+8*0.4, avg, 1e-9)
	})

	t.Run("manual and calculated sources are not mixed", func(t *testing.T) {
		avg := TrimesterAverage(instruments, map[string]float64{"servicios1": 10}, nil)
		assert.Equal(t, 0.0, avg)
	})

	t.Run("recovery uses the same formula", func(t *testing.T) {
		rec := DefaultStructure().Recovery.Instruments
		avg := TrimesterAverage(rec, map[string]float64{"exTeoricoRec": 4, "exPracticoRec": 6}, nil)
		assert.InDelta(t, 5.0, avg, 1e-9)
	})
}

func TestSecondaryModuleFinalGrade(t *testing.T) {
	t.Run("two trimesters", func(t *testing.T) {
		v, ok := SecondaryModuleFinalGrade(models.ModuleGrades{T1: f(8), T2: f(6)}, 2)
		require.True(t, ok)
		assert.Equal(t, 7.0, v)
	})

	t.Run("no grades", func(t *testing.T) {
		_, ok := SecondaryModuleFinalGrade(models.ModuleGrades{}, 2)
		assert.False(t, ok)
	})

	t.Run("recovery grade is ignored", func(t *testing.T) {
		v, ok := SecondaryModuleFinalGrade(models.ModuleGrades{T1: f(8), T2: f(6), Rec: f(10)}, 2)
		require.True(t, ok)
		assert.Equal(t, 7.0, v)

		_, ok = SecondaryModuleFinalGrade(models.ModuleGrades{Rec: f(10)}, 2)
		assert.False(t, ok)
	})

	t.Run("third trimester only counts with three trimesters", func(t *testing.T) {
		g := models.ModuleGrades{T1: f(8), T2: f(6), T3: f(10)}
		v, _ := SecondaryModuleFinalGrade(g, 2)
		assert.Equal(t, 7.0, v)
		v, _ = SecondaryModuleFinalGrade(g, 3)
		assert.Equal(t, 8.0, v)
	})

	t.Run("partial grades average what is defined", func(t *testing.T) {
		v, ok := SecondaryModuleFinalGrade(models.ModuleGrades{T2: f(5)}, 3)
		require.True(t, ok)
		assert.Equal(t, 5.0, v)
	})
}

func TestItems(t *testing.T) {
	assert.Equal(t, 10.0, MaxPoints(GroupItems))
	assert.Equal(t, 10.0, MaxPoints(IndividualItems))
	assert.Equal(t, SummaryMaxScore, MaxPoints(GroupItems)+MaxPoints(IndividualItems))

	item, ok := FindItem(IndividualItems, "tecnica")
	require.True(t, ok)
	assert.Equal(t, 3.0, item.Points)

	_, ok = FindItem(GroupItems, "missing")
	assert.False(t, ok)
}
