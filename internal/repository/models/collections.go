package models

// Collection names of the document store.
const (
	CollectionStudents              = "students"
	CollectionServices              = "services"
	CollectionGroupEvaluations      = "group_evaluations"
	CollectionIndividualEvaluations = "individual_evaluations"
	CollectionStudentGroups         = "student_groups"
	CollectionPracticalExams        = "practical_exams"
	CollectionTheoreticalGrades     = "theoretical_grades"
	CollectionCourseGrades          = "course_grades"
	CollectionProducts              = "products"
	CollectionRecipes               = "recipes"
	CollectionMenus                 = "menus"
	CollectionOrders                = "orders"
	CollectionSettings              = "settings"
)

// AllCollections lists every collection in backup order.
var AllCollections = []string{
	CollectionStudents,
	CollectionServices,
	CollectionGroupEvaluations,
	CollectionIndividualEvaluations,
	CollectionStudentGroups,
	CollectionPracticalExams,
	CollectionTheoreticalGrades,
	CollectionCourseGrades,
	CollectionProducts,
	CollectionRecipes,
	CollectionMenus,
	CollectionOrders,
	CollectionSettings,
}

// SettingsDocumentID is the id of the single settings document.
const SettingsDocumentID = "app"

func GroupEvaluationID(serviceID, groupID string) string {
	return serviceID + ":" + groupID
}

func IndividualEvaluationID(serviceID, nre string) string {
	return serviceID + ":" + nre
}

func PracticalExamID(nre string, examType ExamType) string {
	return nre + ":" + string(examType)
}
