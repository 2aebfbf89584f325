package service

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/godilite/cocina-grades/internal/evaluation"
	"github.com/godilite/cocina-grades/internal/repository"
	"github.com/godilite/cocina-grades/internal/repository/models"
)

// BackupVersion is the format version written by Export.
const BackupVersion = 1

// Backup is the full dump of the document store.
type Backup struct {
	Version     int                                   `json:"version"`
	ExportedAt  time.Time                             `json:"exportedAt"`
	Collections map[string]map[string]json.RawMessage `json:"collections"`
}

// ImportResult counts what ImportStudentsCSV did with each row.
type ImportResult struct {
	Imported int      `json:"imported"`
	Updated  int      `json:"updated"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
}

// BackupService dumps and restores the store and moves rosters and grades
// in and out as CSV.
type BackupService struct {
	store     DocumentStore
	roster    *RosterService
	gradebook *GradebookService
	logger    *zap.Logger
	now       func() time.Time
}

// NewBackupService creates a new BackupService instance.
func NewBackupService(store DocumentStore, roster *RosterService, gradebook *GradebookService, logger *zap.Logger) *BackupService {
	if store == nil || roster == nil || gradebook == nil {
		panic("store, roster and gradebook must not be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BackupService{
		store:     store,
		roster:    roster,
		gradebook: gradebook,
		logger:    logger.Named("backup"),
		now:       time.Now,
	}
}

// Export returns every document of every collection.
func (s *BackupService) Export(ctx context.Context) (Backup, error) {
	b := Backup{
		Version:     BackupVersion,
		ExportedAt:  s.now().UTC(),
		Collections: make(map[string]map[string]json.RawMessage, len(models.AllCollections)),
	}
	for _, c := range models.AllCollections {
		dbCtx, cancel := context.WithTimeout(ctx, storeTimeout)
		docs, err := s.store.List(dbCtx, c)
		cancel()
		if err != nil {
			return Backup{}, storageErr(err)
		}
		m := make(map[string]json.RawMessage, len(docs))
		for _, d := range docs {
			m[d.ID] = d.Body
		}
		b.Collections[c] = m
	}
	s.logger.Info("backup exported", zap.Int("collections", len(b.Collections)))
	return b, nil
}

// Restore replaces the collections present in the backup. Collections the
// backup does not mention are left untouched. Every document goes through
// the same checks as the corresponding write operation; a single invalid
// document rejects the whole restore.
func (s *BackupService) Restore(ctx context.Context, b Backup) error {
	if b.Version != BackupVersion {
		return invalidf("unsupported backup version %d", b.Version)
	}
	known := make(map[string]bool, len(models.AllCollections))
	for _, c := range models.AllCollections {
		known[c] = true
	}

	replace := make(map[string][]repository.Document, len(b.Collections))
	total := 0
	for name, docs := range b.Collections {
		if !known[name] {
			return invalidf("unknown collection %q", name)
		}
		list := make([]repository.Document, 0, len(docs))
		for id, body := range docs {
			if id == "" {
				return invalidf("empty document id in %s", name)
			}
			checked, err := s.checkDocument(name, id, body)
			if err != nil {
				return fmt.Errorf("document %s/%s: %w", name, id, err)
			}
			list = append(list, repository.Document{ID: id, Body: checked})
		}
		sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
		replace[name] = list
		total += len(list)
	}

	dbCtx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()
	if err := s.store.ReplaceCollections(dbCtx, replace); err != nil {
		return storageErr(err)
	}
	s.logger.Info("backup restored", zap.Int("collections", len(replace)), zap.Int("documents", total))
	return nil
}

// restoreDoc decodes body into T, runs check on it and re-encodes the
// checked value.
func restoreDoc[T any](body json.RawMessage, check func(*T) error) (json.RawMessage, error) {
	var v T
	if err := json.Unmarshal(body, &v); err != nil {
		return nil, invalidf("malformed document: %v", err)
	}
	if err := check(&v); err != nil {
		return nil, err
	}
	out, err := json.Marshal(v)
	if err != nil {
		return nil, invalidf("encode document: %v", err)
	}
	return out, nil
}

func matchID(id, want string) error {
	if id != want {
		return invalidf("document id %q does not match %q", id, want)
	}
	return nil
}

func checkModuleGrades(mg models.ModuleGrades) error {
	for _, g := range []*float64{mg.T1, mg.T2, mg.T3, mg.Rec} {
		if g == nil {
			continue
		}
		if err := checkGrade(*g); err != nil {
			return err
		}
	}
	return nil
}

// checkDocument validates one backup document of collection and returns
// its canonical encoding.
func (s *BackupService) checkDocument(collection, id string, body json.RawMessage) (json.RawMessage, error) {
	switch collection {
	case models.CollectionStudents:
		return restoreDoc(body, func(st *models.Student) error {
			if err := validateStruct(st); err != nil {
				return err
			}
			return matchID(id, st.NRE)
		})

	case models.CollectionServices:
		return restoreDoc(body, func(svc *models.Service) error {
			if err := validateStruct(svc); err != nil {
				return err
			}
			return matchID(id, svc.ID)
		})

	case models.CollectionGroupEvaluations:
		return restoreDoc(body, func(ev *models.GroupEvaluation) error {
			if err := validateStruct(ev); err != nil {
				return err
			}
			if err := checkItemScores(evaluation.GroupItems, ev.Scores); err != nil {
				return err
			}
			return matchID(id, models.GroupEvaluationID(ev.ServiceID, ev.GroupID))
		})

	case models.CollectionIndividualEvaluations:
		return restoreDoc(body, func(ev *models.IndividualEvaluation) error {
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
			return matchID(id, models.IndividualEvaluationID(ev.ServiceID, ev.NRE))
		})

	case models.CollectionStudentGroups:
		return restoreDoc(body, func(a *models.StudentGroupAssignment) error {
			if err := validateStruct(a); err != nil {
				return err
			}
			return matchID(id, a.NRE)
		})

	case models.CollectionPracticalExams:
		return restoreDoc(body, func(exam *models.PracticalExam) error {
			rubric, ok := evaluation.RubricFor(exam.ExamType)
			if !ok {
				return invalidf("unknown exam type %q", exam.ExamType)
			}
			seen := make(map[string]bool, len(exam.Criteria))
			for _, c := range exam.Criteria {
				if err := checkCriterionScore(rubric, exam.ExamType, c); err != nil {
					return err
				}
				if seen[c.CriterionID] {
					return invalidf("criterion %q scored twice", c.CriterionID)
				}
				seen[c.CriterionID] = true
			}
			exam.FinalScore = evaluation.PracticalExamFinalScore(*exam, rubric)
			return matchID(id, models.PracticalExamID(exam.NRE, exam.ExamType))
		})

	case models.CollectionTheoreticalGrades:
		manual := s.gradebook.Structure().ManualKeys()
		return restoreDoc(body, func(doc *models.TheoreticalExamGrades) error {
			for key, g := range doc.Grades {
				if !manual[key] {
					return invalidf("unknown manual instrument %q", key)
				}
				if err := checkGrade(g); err != nil {
					return err
				}
			}
			return matchID(id, doc.NRE)
		})

	case models.CollectionCourseGrades:
		return restoreDoc(body, func(doc *models.CourseGrades) error {
			for key, mg := range doc.Modules {
				if err := checkModuleGrades(mg); err != nil {
					return fmt.Errorf("module %s: %w", key, err)
				}
			}
			return matchID(id, doc.NRE)
		})

	case models.CollectionProducts:
		return restoreDoc(body, func(p *models.Product) error {
			if err := validateStruct(p); err != nil {
				return err
			}
			return matchID(id, p.ID)
		})

	case models.CollectionRecipes:
		return restoreDoc(body, func(r *models.Recipe) error {
			if err := validateStruct(r); err != nil {
				return err
			}
			return matchID(id, r.ID)
		})

	case models.CollectionMenus:
		return restoreDoc(body, func(m *models.Menu) error {
			if err := validateStruct(m); err != nil {
				return err
			}
			return matchID(id, m.ID)
		})

	case models.CollectionOrders:
		return restoreDoc(body, func(o *models.Order) error {
			if o.Pax < 1 {
				return invalidf("order pax %d must be at least 1", o.Pax)
			}
			return matchID(id, o.ID)
		})

	case models.CollectionSettings:
		return restoreDoc(body, func(st *models.AppSettings) error {
			if st.TrimesterCount == 0 {
				st.TrimesterCount = defaultTrimesterCount
			}
			if err := validateStruct(st); err != nil {
				return err
			}
			return matchID(id, models.SettingsDocumentID)
		})
	}
	return nil, invalidf("unknown collection %q", collection)
}

var studentHeaderAliases = map[string]string{
	"nre":       "nre",
	"nombre":    "name",
	"name":      "name",
	"apellidos": "surname",
	"apellido":  "surname",
	"surname":   "surname",
	"grupo":     "group",
	"group":     "group",
}

// ImportStudentsCSV reads a roster with a header row. Both ',' and ';'
// delimited files are accepted. Existing students are updated, removed ones
// reactivated, and invalid rows skipped. An empty group cell keeps the
// student's current group.
func (s *BackupService) ImportStudentsCSV(ctx context.Context, r io.Reader) (ImportResult, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return ImportResult{}, fmt.Errorf("read csv: %w", err)
	}
	reader := csv.NewReader(strings.NewReader(string(data)))
	reader.Comma = detectDelimiter(data)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return ImportResult{}, invalidf("missing header row: %v", err)
	}
	columns := make(map[string]int)
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if field, ok := studentHeaderAliases[key]; ok {
			columns[field] = i
		}
	}
	if _, ok := columns["nre"]; !ok {
		return ImportResult{}, invalidf("header has no nre column")
	}
	if _, ok := columns["name"]; !ok {
		return ImportResult{}, invalidf("header has no name column")
	}

	field := func(rec []string, name string) string {
		i, ok := columns[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	var res ImportResult
	line := 1
	for {
		rec, err := reader.Read()
		line++
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			res.Skipped++
			res.Errors = append(res.Errors, fmt.Sprintf("line %d: %v", line, err))
			continue
		}
		st := models.Student{
			NRE:     field(rec, "nre"),
			Name:    field(rec, "name"),
			Surname: field(rec, "surname"),
			Group:   field(rec, "group"),
		}
		if st.NRE == "" && st.Name == "" {
			continue
		}

		existing, err := s.roster.GetStudent(ctx, st.NRE)
		switch {
		case err == nil && existing.Active:
			if st.Group == "" {
				st.Group = existing.Group
			}
			_, err = s.roster.UpdateStudent(ctx, st)
			if err == nil {
				res.Updated++
			}
		case err == nil || errors.Is(err, ErrNotFound):
			_, err = s.roster.AddStudent(ctx, st)
			if err == nil {
				res.Imported++
			}
		}
		if err != nil {
			if errors.Is(err, ErrStorageFailure) {
				return res, err
			}
			res.Skipped++
			res.Errors = append(res.Errors, fmt.Sprintf("line %d: %v", line, err))
			continue
		}
	}

	s.logger.Info("students imported",
		zap.Int("imported", res.Imported),
		zap.Int("updated", res.Updated),
		zap.Int("skipped", res.Skipped))
	return res, nil
}

func detectDelimiter(data []byte) rune {
	first := string(data)
	if i := strings.IndexByte(first, '\n'); i >= 0 {
		first = first[:i]
	}
	if strings.Count(first, ";") > strings.Count(first, ",") {
		return ';'
	}
	return ','
}

func formatGrade(v float64, ok bool) string {
	if !ok {
		return ""
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// ExportGradesCSV writes one ';' delimited row per active student with the
// summary average and the trimester averages.
func (s *BackupService) ExportGradesCSV(ctx context.Context, w io.Writer) error {
	snap, err := s.gradebook.Snapshot(ctx)
	if err != nil {
		return err
	}
	rows := snap.Summary()

	trimesters := make([]int, 0, len(snap.Structure.Trimesters))
	for t := range snap.Structure.Trimesters {
		trimesters = append(trimesters, t)
	}
	sort.Ints(trimesters)

	cw := csv.NewWriter(w)
	cw.Comma = ';'

	header := []string{"nre", "apellidos", "nombre", "grupo", "servicios", "media"}
	for _, t := range trimesters {
		header = append(header, fmt.Sprintf("trimestre%d", t))
	}
	header = append(header, "recuperacion")
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}

	for _, row := range rows {
		report := snap.Report(row.NRE)
		avg, hasAvg := 0.0, row.Average != nil
		if hasAvg {
			avg = *row.Average
		}
		rec := []string{
			row.NRE,
			row.Surname,
			row.Name,
			row.Group,
			strconv.Itoa(row.AttendedServices),
			formatGrade(avg, hasAvg),
		}
		for _, t := range trimesters {
			rec = append(rec, formatGrade(report.Trimesters[t], true))
		}
		rec = append(rec, formatGrade(report.Recovery, true))
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write csv: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	s.logger.Info("grades exported", zap.Int("rows", len(rows)))
	return nil
}
