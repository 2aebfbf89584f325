package models

import "time"

type Attendance string

const (
	AttendancePresent Attendance = "present"
	AttendanceAbsent  Attendance = "absent"
)

type ExamType string

const (
	ExamT1  ExamType = "T1"
	ExamT2  ExamType = "T2"
	ExamRec ExamType = "REC"
)

// Student is identified by its registration number (NRE). Removal is soft:
// evaluation records of inactive students stay in the store but are ignored.
// Group is filled from the student's StudentGroupAssignment and is never
// stored on the student document.
type Student struct {
	NRE       string     `json:"nre" validate:"required"`
	Name      string     `json:"name" validate:"required"`
	Surname   string     `json:"surname"`
	Group     string     `json:"-"`
	Active    bool       `json:"active"`
	RemovedAt *time.Time `json:"removedAt,omitempty"`
}

// Service is a scheduled practice session. Trimester is fixed at creation.
type Service struct {
	ID        string            `json:"id"`
	Name      string            `json:"name" validate:"required"`
	Date      time.Time         `json:"date"`
	Trimester int               `json:"trimestre" validate:"min=1,max=3"`
	Roles     map[string]string `json:"roles,omitempty"`
}

type EvaluationItem struct {
	ID     string  `json:"id"`
	Label  string  `json:"label"`
	Points float64 `json:"points"`
}

type ItemScore struct {
	ItemID string  `json:"itemId" validate:"required"`
	Score  float64 `json:"score" validate:"min=0"`
}

type GroupEvaluation struct {
	ServiceID   string      `json:"serviceId" validate:"required"`
	GroupID     string      `json:"groupId" validate:"required"`
	Scores      []ItemScore `json:"scores" validate:"dive"`
	Observation string      `json:"observation,omitempty"`
}

type IndividualEvaluation struct {
	ServiceID   string      `json:"serviceId" validate:"required"`
	NRE         string      `json:"nre" validate:"required"`
	Attendance  Attendance  `json:"attendance" validate:"oneof=present absent"`
	Scores      []ItemScore `json:"scores,omitempty" validate:"dive"`
	Observation string      `json:"observation,omitempty"`
}

// StudentGroupAssignment is global, not per service: regrouping a student
// changes which group evaluation applies to every past service.
type StudentGroupAssignment struct {
	NRE   string `json:"nre" validate:"required"`
	Group string `json:"group" validate:"required"`
}

type CriterionScore struct {
	CriterionID string  `json:"criterionId" validate:"required"`
	Score       float64 `json:"score" validate:"min=0"`
	Notes       string  `json:"notes,omitempty"`
}

// PracticalExam caches FinalScore; it is rewritten whenever a criterion changes.
type PracticalExam struct {
	NRE        string           `json:"nre"`
	ExamType   ExamType         `json:"examType"`
	Criteria   []CriterionScore `json:"criteria"`
	FinalScore float64          `json:"finalScore"`
}

type TheoreticalExamGrades struct {
	NRE    string             `json:"nre"`
	Grades map[string]float64 `json:"grades"`
}

type ModuleGrades struct {
	T1  *float64 `json:"t1,omitempty"`
	T2  *float64 `json:"t2,omitempty"`
	T3  *float64 `json:"t3,omitempty"`
	Rec *float64 `json:"rec,omitempty"`
}

type CourseGrades struct {
	NRE     string                  `json:"nre"`
	Modules map[string]ModuleGrades `json:"modules"`
}

type AppSettings struct {
	TeacherName    string   `json:"teacherName"`
	SchoolYear     string   `json:"schoolYear"`
	ModuleKeys     []string `json:"moduleKeys"`
	TrimesterCount int      `json:"trimesterCount" validate:"oneof=2 3"`
}
