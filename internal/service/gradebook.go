package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/godilite/cocina-grades/internal/evaluation"
	"github.com/godilite/cocina-grades/internal/repository/models"
)

const (
	minGrade = 0.0
	maxGrade = 10.0
)

// Module grade periods accepted by SetModuleGrade.
const (
	PeriodT1  = "t1"
	PeriodT2  = "t2"
	PeriodT3  = "t3"
	PeriodRec = "rec"
)

// GradebookService records evaluations and derives grades through the
// evaluation engine. Inputs are validated here so the engine can assume
// in-range values.
type GradebookService struct {
	store     DocumentStore
	logger    *zap.Logger
	structure evaluation.Structure
}

// NewGradebookService creates a new GradebookService instance.
func NewGradebookService(store DocumentStore, logger *zap.Logger) *GradebookService {
	if store == nil {
		panic("store must not be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GradebookService{
		store:     store,
		logger:    logger.Named("gradebook"),
		structure: evaluation.DefaultStructure(),
	}
}

// Structure returns the academic evaluation structure in use.
func (s *GradebookService) Structure() evaluation.Structure {
	return s.structure
}

// Revision returns the store revision; derived reports are stable for a given revision.
func (s *GradebookService) Revision(ctx context.Context) (int64, error) {
	dbCtx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	rev, err := s.store.Revision(dbCtx)
	if err != nil {
		return 0, storageErr(err)
	}
	return rev, nil
}

// Epoch identifies the underlying database; together with Revision it names
// one state of the gradebook.
func (s *GradebookService) Epoch(ctx context.Context) (string, error) {
	dbCtx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	epoch, err := s.store.Epoch(dbCtx)
	if err != nil {
		return "", storageErr(err)
	}
	return epoch, nil
}

func checkItemScores(items []models.EvaluationItem, scores []models.ItemScore) error {
	seen := make(map[string]bool, len(scores))
	for _, sc := range scores {
		item, ok := evaluation.FindItem(items, sc.ItemID)
		if !ok {
			return invalidf("unknown evaluation item %q", sc.ItemID)
		}
		if seen[sc.ItemID] {
			return invalidf("item %q scored twice", sc.ItemID)
		}
		seen[sc.ItemID] = true
		if sc.Score < 0 || sc.Score > item.Points {
			return invalidf("item %q score %.2f outside [0, %.2f]", sc.ItemID, sc.Score, item.Points)
		}
	}
	return nil
}

func (s *GradebookService) requireService(ctx context.Context, id string) error {
	var svc models.Service
	if err := getDoc(ctx, s.store, models.CollectionServices, id, &svc); err != nil {
		if errors.Is(err, ErrNotFound) {
			return invalidf("unknown service %s", id)
		}
		return err
	}
	return nil
}

func (s *GradebookService) requireActiveStudent(ctx context.Context, nre string) error {
	var st models.Student
	if err := getDoc(ctx, s.store, models.CollectionStudents, nre, &st); err != nil {
		if errors.Is(err, ErrNotFound) {
			return fmt.Errorf("student %s: %w", nre, ErrNotFound)
		}
		return err
	}
	if !st.Active {
		return invalidf("student %s has been removed", nre)
	}
	return nil
}

// RecordGroupEvaluation stores the evaluation of a practice group for a service.
func (s *GradebookService) RecordGroupEvaluation(ctx context.Context, ev models.GroupEvaluation) error {
	if err := validateStruct(ev); err != nil {
		return err
	}
	if err := checkItemScores(evaluation.GroupItems, ev.Scores); err != nil {
		return err
	}
	if err := s.requireService(ctx, ev.ServiceID); err != nil {
		return err
	}

	id := models.GroupEvaluationID(ev.ServiceID, ev.GroupID)
	if err := putDoc(ctx, s.store, models.CollectionGroupEvaluations, id, ev); err != nil {
		return err
	}
	s.logger.Info("group evaluation recorded",
		zap.String("service", ev.ServiceID),
		zap.String("group", ev.GroupID),
		zap.Float64("total", evaluation.ItemTotal(ev.Scores)))
	return nil
}

// RecordIndividualEvaluation stores a student's attendance and scores for a
// service. Scores sent with an absence are dropped.
func (s *GradebookService) RecordIndividualEvaluation(ctx context.Context, ev models.IndividualEvaluation) error {
	if ev.Attendance == "" {
		ev.Attendance = models.AttendancePresent
	}
	if err := validateStruct(ev); err != nil {
		return err
	}
	if ev.Attendance == models.AttendanceAbsent {
		ev.Scores = nil
	}
	if err := checkItemScores(evaluation.IndividualItems, ev.Scores); err != nil {
		return err
	}
	if err := s.requireService(ctx, ev.ServiceID); err != nil {
		return err
	}
	if err := s.requireActiveStudent(ctx, ev.NRE); err != nil {
		return err
	}

	id := models.IndividualEvaluationID(ev.ServiceID, ev.NRE)
	if err := putDoc(ctx, s.store, models.CollectionIndividualEvaluations, id, ev); err != nil {
		return err
	}
	s.logger.Info("individual evaluation recorded",
		zap.String("service", ev.ServiceID),
		zap.String("nre", ev.NRE),
		zap.String("attendance", string(ev.Attendance)))
	return nil
}

// checkCriterionScore accepts whole levels in 0..MaxLevel of a criterion
// that belongs to the rubric.
func checkCriterionScore(rubric evaluation.Rubric, examType models.ExamType, score models.CriterionScore) error {
	if err := validateStruct(score); err != nil {
		return err
	}
	criterion, ok := rubric.FindCriterion(score.CriterionID)
	if !ok {
		return invalidf("criterion %q is not part of the %s rubric", score.CriterionID, examType)
	}
	if score.Score > criterion.MaxLevel || score.Score != math.Trunc(score.Score) {
		return invalidf("criterion %q level %v outside 0..%v", score.CriterionID, score.Score, criterion.MaxLevel)
	}
	return nil
}

// SetPracticalExamScore records one criterion level and immediately
// recomputes and persists the exam's final score.
func (s *GradebookService) SetPracticalExamScore(
	ctx context.Context,
	nre string,
	examType models.ExamType,
	score models.CriterionScore,
) (models.PracticalExam, error) {
	rubric, ok := evaluation.RubricFor(examType)
	if !ok {
		return models.PracticalExam{}, invalidf("unknown exam type %q", examType)
	}
	if err := checkCriterionScore(rubric, examType, score); err != nil {
		return models.PracticalExam{}, err
	}
	if err := s.requireActiveStudent(ctx, nre); err != nil {
		return models.PracticalExam{}, err
	}

	id := models.PracticalExamID(nre, examType)
	exam := models.PracticalExam{NRE: nre, ExamType: examType}
	if err := getDoc(ctx, s.store, models.CollectionPracticalExams, id, &exam); err != nil && !errors.Is(err, ErrNotFound) {
		return models.PracticalExam{}, err
	}

	replaced := false
	for i := range exam.Criteria {
		if exam.Criteria[i].CriterionID == score.CriterionID {
			exam.Criteria[i] = score
			replaced = true
			break
		}
	}
	if !replaced {
		exam.Criteria = append(exam.Criteria, score)
	}
	exam.FinalScore = evaluation.PracticalExamFinalScore(exam, rubric)

	if err := putDoc(ctx, s.store, models.CollectionPracticalExams, id, exam); err != nil {
		return models.PracticalExam{}, err
	}
	s.logger.Info("practical exam updated",
		zap.String("nre", nre),
		zap.String("exam", string(examType)),
		zap.Float64("final_score", exam.FinalScore))
	return exam, nil
}

// PracticalExam returns the stored exam, or an empty one when nothing was graded.
func (s *GradebookService) PracticalExam(ctx context.Context, nre string, examType models.ExamType) (models.PracticalExam, error) {
	if _, ok := evaluation.RubricFor(examType); !ok {
		return models.PracticalExam{}, invalidf("unknown exam type %q", examType)
	}
	exam := models.PracticalExam{NRE: nre, ExamType: examType}
	err := getDoc(ctx, s.store, models.CollectionPracticalExams, models.PracticalExamID(nre, examType), &exam)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return models.PracticalExam{}, err
	}
	return exam, nil
}

func checkGrade(v float64) error {
	if math.IsNaN(v) || v < minGrade || v > maxGrade {
		return invalidf("grade %v outside [%v, %v]", v, minGrade, maxGrade)
	}
	return nil
}

// SetTheoreticalGrade stores a manual instrument grade. A nil grade clears
// it. Grades outside [0,10] are rejected, never clamped.
func (s *GradebookService) SetTheoreticalGrade(ctx context.Context, nre, key string, grade *float64) error {
	if !s.structure.ManualKeys()[key] {
		return invalidf("unknown manual instrument %q", key)
	}
	if grade != nil {
		if err := checkGrade(*grade); err != nil {
			return err
		}
	}
	if err := s.requireActiveStudent(ctx, nre); err != nil {
		return err
	}

	doc := models.TheoreticalExamGrades{NRE: nre}
	if err := getDoc(ctx, s.store, models.CollectionTheoreticalGrades, nre, &doc); err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	if doc.Grades == nil {
		doc.Grades = make(map[string]float64)
	}
	if grade == nil {
		delete(doc.Grades, key)
	} else {
		doc.Grades[key] = *grade
	}

	if err := putDoc(ctx, s.store, models.CollectionTheoreticalGrades, nre, doc); err != nil {
		return err
	}
	s.logger.Info("theoretical grade set", zap.String("nre", nre), zap.String("key", key), zap.Bool("cleared", grade == nil))
	return nil
}

// SetModuleGrade stores one period grade of a secondary module. A nil grade clears it.
func (s *GradebookService) SetModuleGrade(ctx context.Context, nre, moduleKey, period string, grade *float64) error {
	if grade != nil {
		if err := checkGrade(*grade); err != nil {
			return err
		}
	}
	settings, err := loadSettings(ctx, s.store)
	if err != nil {
		return err
	}
	if len(settings.ModuleKeys) > 0 && !contains(settings.ModuleKeys, moduleKey) {
		return invalidf("unknown module %q", moduleKey)
	}
	if period == PeriodT3 && settings.TrimesterCount < 3 {
		return invalidf("the course has %d trimesters", settings.TrimesterCount)
	}
	if err := s.requireActiveStudent(ctx, nre); err != nil {
		return err
	}

	doc := models.CourseGrades{NRE: nre}
	if err := getDoc(ctx, s.store, models.CollectionCourseGrades, nre, &doc); err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	if doc.Modules == nil {
		doc.Modules = make(map[string]models.ModuleGrades)
	}
	mg := doc.Modules[moduleKey]
	switch period {
	case PeriodT1:
		mg.T1 = grade
	case PeriodT2:
		mg.T2 = grade
	case PeriodT3:
		mg.T3 = grade
	case PeriodRec:
		mg.Rec = grade
	default:
		return invalidf("unknown period %q", period)
	}
	doc.Modules[moduleKey] = mg

	return putDoc(ctx, s.store, models.CollectionCourseGrades, nre, doc)
}

func contains(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

// Snapshot loads every collection the engine aggregates.
func (s *GradebookService) Snapshot(ctx context.Context) (evaluation.Snapshot, error) {
	snap := evaluation.Snapshot{
		Structure:         s.structure,
		Assignments:       make(evaluation.GroupAssignments),
		TheoreticalGrades: make(map[string]map[string]float64),
		CourseGrades:      make(map[string]map[string]models.ModuleGrades),
	}

	var err error
	if snap.Students, err = listDocs[models.Student](ctx, s.store, s.logger, models.CollectionStudents); err != nil {
		return evaluation.Snapshot{}, err
	}
	if snap.Services, err = listDocs[models.Service](ctx, s.store, s.logger, models.CollectionServices); err != nil {
		return evaluation.Snapshot{}, err
	}
	if snap.GroupEvaluations, err = listDocs[models.GroupEvaluation](ctx, s.store, s.logger, models.CollectionGroupEvaluations); err != nil {
		return evaluation.Snapshot{}, err
	}
	if snap.IndividualEvaluations, err = listDocs[models.IndividualEvaluation](ctx, s.store, s.logger, models.CollectionIndividualEvaluations); err != nil {
		return evaluation.Snapshot{}, err
	}
	if snap.PracticalExams, err = listDocs[models.PracticalExam](ctx, s.store, s.logger, models.CollectionPracticalExams); err != nil {
		return evaluation.Snapshot{}, err
	}

	assignments, err := listDocs[models.StudentGroupAssignment](ctx, s.store, s.logger, models.CollectionStudentGroups)
	if err != nil {
		return evaluation.Snapshot{}, err
	}
	for _, a := range assignments {
		snap.Assignments[a.NRE] = a.Group
	}

	theoretical, err := listDocs[models.TheoreticalExamGrades](ctx, s.store, s.logger, models.CollectionTheoreticalGrades)
	if err != nil {
		return evaluation.Snapshot{}, err
	}
	for _, g := range theoretical {
		snap.TheoreticalGrades[g.NRE] = g.Grades
	}

	course, err := listDocs[models.CourseGrades](ctx, s.store, s.logger, models.CollectionCourseGrades)
	if err != nil {
		return evaluation.Snapshot{}, err
	}
	for _, g := range course {
		snap.CourseGrades[g.NRE] = g.Modules
	}

	settings, err := loadSettings(ctx, s.store)
	if err != nil {
		return evaluation.Snapshot{}, err
	}
	snap.TrimesterCount = settings.TrimesterCount

	return snap, nil
}

// StudentReport derives every grade of one active student. Removed
// students are reported as not found.
func (s *GradebookService) StudentReport(ctx context.Context, nre string) (evaluation.StudentReport, error) {
	var st models.Student
	if err := getDoc(ctx, s.store, models.CollectionStudents, nre, &st); err != nil {
		return evaluation.StudentReport{}, fmt.Errorf("student %s: %w", nre, err)
	}
	if !st.Active {
		return evaluation.StudentReport{}, fmt.Errorf("student %s has been removed: %w", nre, ErrNotFound)
	}

	snap, err := s.Snapshot(ctx)
	if err != nil {
		return evaluation.StudentReport{}, err
	}
	report := snap.Report(nre)

	s.logger.Debug("student report computed",
		zap.String("nre", nre),
		zap.Int("attended_services", report.AttendedServices))
	return report, nil
}

// SummaryTable returns the overview of every active student.
func (s *GradebookService) SummaryTable(ctx context.Context) ([]evaluation.SummaryRow, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	rows := snap.Summary()
	s.logger.Debug("summary table computed", zap.Int("rows", len(rows)))
	return rows, nil
}
