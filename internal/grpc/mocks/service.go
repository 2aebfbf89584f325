package mocks

import (
	"context"
	"errors"
	"io"

	"github.com/godilite/cocina-grades/internal/evaluation"
	"github.com/godilite/cocina-grades/internal/repository/models"
	"github.com/godilite/cocina-grades/internal/service"
)

var errNotImplemented = errors.New("mock function not implemented")

// MockGradebookService is a mock implementation of the GradebookService
// interface for testing the handler layer. It uses function-based mocking.
type MockGradebookService struct {
	RecordGroupEvaluationFunc      func(ctx context.Context, ev models.GroupEvaluation) error
	RecordIndividualEvaluationFunc func(ctx context.Context, ev models.IndividualEvaluation) error
	SetPracticalExamScoreFunc      func(ctx context.Context, nre string, examType models.ExamType, score models.CriterionScore) (models.PracticalExam, error)
	SetTheoreticalGradeFunc        func(ctx context.Context, nre, key string, grade *float64) error
	SetModuleGradeFunc             func(ctx context.Context, nre, moduleKey, period string, grade *float64) error
	StudentReportFunc              func(ctx context.Context, nre string) (evaluation.StudentReport, error)
	SummaryTableFunc               func(ctx context.Context) ([]evaluation.SummaryRow, error)
	RevisionFunc                   func(ctx context.Context) (int64, error)
	EpochFunc                      func(ctx context.Context) (string, error)
}

func (m *MockGradebookService) RecordGroupEvaluation(ctx context.Context, ev models.GroupEvaluation) error {
	if m.RecordGroupEvaluationFunc != nil {
		return m.RecordGroupEvaluationFunc(ctx, ev)
	}
	return errNotImplemented
}

func (m *MockGradebookService) RecordIndividualEvaluation(ctx context.Context, ev models.IndividualEvaluation) error {
	if m.RecordIndividualEvaluationFunc != nil {
		return m.RecordIndividualEvaluationFunc(ctx, ev)
	}
	return errNotImplemented
}

func (m *MockGradebookService) SetPracticalExamScore(ctx context.Context, nre string, examType models.ExamType, score models.CriterionScore) (models.PracticalExam, error) {
	if m.SetPracticalExamScoreFunc != nil {
		return m.SetPracticalExamScoreFunc(ctx, nre, examType, score)
	}
	return models.PracticalExam{}, errNotImplemented
}

func (m *MockGradebookService) SetTheoreticalGrade(ctx context.Context, nre, key string, grade *float64) error {
	if m.SetTheoreticalGradeFunc != nil {
		return m.SetTheoreticalGradeFunc(ctx, nre, key, grade)
	}
	return errNotImplemented
}

func (m *MockGradebookService) SetModuleGrade(ctx context.Context, nre, moduleKey, period string, grade *float64) error {
	if m.SetModuleGradeFunc != nil {
		return m.SetModuleGradeFunc(ctx, nre, moduleKey, period, grade)
	}
	return errNotImplemented
}

func (m *MockGradebookService) StudentReport(ctx context.Context, nre string) (evaluation.StudentReport, error) {
	if m.StudentReportFunc != nil {
		return m.StudentReportFunc(ctx, nre)
	}
	return evaluation.StudentReport{}, errNotImplemented
}

func (m *MockGradebookService) SummaryTable(ctx context.Context) ([]evaluation.SummaryRow, error) {
	if m.SummaryTableFunc != nil {
		return m.SummaryTableFunc(ctx)
	}
	return nil, errNotImplemented
}

// Revision returns 1 unless overridden.
func (m *MockGradebookService) Revision(ctx context.Context) (int64, error) {
	if m.RevisionFunc != nil {
		return m.RevisionFunc(ctx)
	}
	return 1, nil
}

// Epoch returns "e1" unless overridden.
func (m *MockGradebookService) Epoch(ctx context.Context) (string, error) {
	if m.EpochFunc != nil {
		return m.EpochFunc(ctx)
	}
	return "e1", nil
}

// MockRosterService is a mock implementation of the RosterService interface.
type MockRosterService struct {
	AddStudentFunc       func(ctx context.Context, st models.Student) (models.Student, error)
	UpdateStudentFunc    func(ctx context.Context, st models.Student) (models.Student, error)
	RemoveStudentFunc    func(ctx context.Context, nre string) error
	ListStudentsFunc     func(ctx context.Context, includeRemoved bool) ([]models.Student, error)
	AssignGroupFunc      func(ctx context.Context, nre, group string) error
	CreateServiceFunc    func(ctx context.Context, svc models.Service) (models.Service, error)
	UpdateServiceFunc    func(ctx context.Context, svc models.Service) (models.Service, error)
	RemoveServiceFunc    func(ctx context.Context, id string) error
	ListServicesFunc     func(ctx context.Context, trimester int) ([]models.Service, error)
	PlanRolesFunc        func(ctx context.Context, serviceID string, roles map[string]string) (models.Service, error)
	SettingsFunc         func(ctx context.Context) (models.AppSettings, error)
	SaveSettingsFunc     func(ctx context.Context, settings models.AppSettings) (models.AppSettings, error)
}

func (m *MockRosterService) AddStudent(ctx context.Context, st models.Student) (models.Student, error) {
	if m.AddStudentFunc != nil {
		return m.AddStudentFunc(ctx, st)
	}
	return models.Student{}, errNotImplemented
}

func (m *MockRosterService) UpdateStudent(ctx context.Context, st models.Student) (models.Student, error) {
	if m.UpdateStudentFunc != nil {
		return m.UpdateStudentFunc(ctx, st)
	}
	return models.Student{}, errNotImplemented
}

func (m *MockRosterService) RemoveStudent(ctx context.Context, nre string) error {
	if m.RemoveStudentFunc != nil {
		return m.RemoveStudentFunc(ctx, nre)
	}
	return errNotImplemented
}

func (m *MockRosterService) ListStudents(ctx context.Context, includeRemoved bool) ([]models.Student, error) {
	if m.ListStudentsFunc != nil {
		return m.ListStudentsFunc(ctx, includeRemoved)
	}
	return nil, errNotImplemented
}

func (m *MockRosterService) AssignGroup(ctx context.Context, nre, group string) error {
	if m.AssignGroupFunc != nil {
		return m.AssignGroupFunc(ctx, nre, group)
	}
	return errNotImplemented
}

func (m *MockRosterService) CreateService(ctx context.Context, svc models.Service) (models.Service, error) {
	if m.CreateServiceFunc != nil {
		return m.CreateServiceFunc(ctx, svc)
	}
	return models.Service{}, errNotImplemented
}

func (m *MockRosterService) UpdateService(ctx context.Context, svc models.Service) (models.Service, error) {
	if m.UpdateServiceFunc != nil {
		return m.UpdateServiceFunc(ctx, svc)
	}
	return models.Service{}, errNotImplemented
}

func (m *MockRosterService) RemoveService(ctx context.Context, id string) error {
	if m.RemoveServiceFunc != nil {
		return m.RemoveServiceFunc(ctx, id)
	}
	return errNotImplemented
}

func (m *MockRosterService) ListServices(ctx context.Context, trimester int) ([]models.Service, error) {
	if m.ListServicesFunc != nil {
		return m.ListServicesFunc(ctx, trimester)
	}
	return nil, errNotImplemented
}

func (m *MockRosterService) PlanRoles(ctx context.Context, serviceID string, roles map[string]string) (models.Service, error) {
	if m.PlanRolesFunc != nil {
		return m.PlanRolesFunc(ctx, serviceID, roles)
	}
	return models.Service{}, errNotImplemented
}

func (m *MockRosterService) Settings(ctx context.Context) (models.AppSettings, error) {
	if m.SettingsFunc != nil {
		return m.SettingsFunc(ctx)
	}
	return models.AppSettings{}, errNotImplemented
}

func (m *MockRosterService) SaveSettings(ctx context.Context, settings models.AppSettings) (models.AppSettings, error) {
	if m.SaveSettingsFunc != nil {
		return m.SaveSettingsFunc(ctx, settings)
	}
	return models.AppSettings{}, errNotImplemented
}

// MockCatalogService is a mock implementation of the CatalogService interface.
type MockCatalogService struct {
	PutProductFunc      func(ctx context.Context, p models.Product) (models.Product, error)
	ListProductsFunc    func(ctx context.Context) ([]models.Product, error)
	RemoveProductFunc   func(ctx context.Context, id string) error
	PutRecipeFunc       func(ctx context.Context, r models.Recipe) (models.Recipe, error)
	ListRecipesFunc     func(ctx context.Context) ([]models.Recipe, error)
	RemoveRecipeFunc    func(ctx context.Context, id string) error
	RecipeCostFunc      func(ctx context.Context, id string) (service.RecipeCost, error)
	RecipeAllergensFunc func(ctx context.Context, id string) ([]string, error)
	PutMenuFunc         func(ctx context.Context, m models.Menu) (models.Menu, error)
	ListMenusFunc       func(ctx context.Context) ([]models.Menu, error)
	ScaleMenuFunc       func(ctx context.Context, menuID string, pax int) ([]models.OrderLine, error)
	CreateOrderFunc     func(ctx context.Context, menuID string, pax int) (models.Order, error)
	ListOrdersFunc      func(ctx context.Context) ([]models.Order, error)
}

func (m *MockCatalogService) PutProduct(ctx context.Context, p models.Product) (models.Product, error) {
	if m.PutProductFunc != nil {
		return m.PutProductFunc(ctx, p)
	}
	return models.Product{}, errNotImplemented
}

func (m *MockCatalogService) ListProducts(ctx context.Context) ([]models.Product, error) {
	if m.ListProductsFunc != nil {
		return m.ListProductsFunc(ctx)
	}
	return nil, errNotImplemented
}

func (m *MockCatalogService) RemoveProduct(ctx context.Context, id string) error {
	if m.RemoveProductFunc != nil {
		return m.RemoveProductFunc(ctx, id)
	}
	return errNotImplemented
}

func (m *MockCatalogService) PutRecipe(ctx context.Context, r models.Recipe) (models.Recipe, error) {
	if m.PutRecipeFunc != nil {
		return m.PutRecipeFunc(ctx, r)
	}
	return models.Recipe{}, errNotImplemented
}

func (m *MockCatalogService) ListRecipes(ctx context.Context) ([]models.Recipe, error) {
	if m.ListRecipesFunc != nil {
		return m.ListRecipesFunc(ctx)
	}
	return nil, errNotImplemented
}

func (m *MockCatalogService) RemoveRecipe(ctx context.Context, id string) error {
	if m.RemoveRecipeFunc != nil {
		return m.RemoveRecipeFunc(ctx, id)
	}
	return errNotImplemented
}

func (m *MockCatalogService) RecipeCost(ctx context.Context, id string) (service.RecipeCost, error) {
	if m.RecipeCostFunc != nil {
		return m.RecipeCostFunc(ctx, id)
	}
	return service.RecipeCost{}, errNotImplemented
}

func (m *MockCatalogService) RecipeAllergens(ctx context.Context, id string) ([]string, error) {
	if m.RecipeAllergensFunc != nil {
		return m.RecipeAllergensFunc(ctx, id)
	}
	return nil, errNotImplemented
}

func (m *MockCatalogService) PutMenu(ctx context.Context, menu models.Menu) (models.Menu, error) {
	if m.PutMenuFunc != nil {
		return m.PutMenuFunc(ctx, menu)
	}
	return models.Menu{}, errNotImplemented
}

func (m *MockCatalogService) ListMenus(ctx context.Context) ([]models.Menu, error) {
	if m.ListMenusFunc != nil {
		return m.ListMenusFunc(ctx)
	}
	return nil, errNotImplemented
}

func (m *MockCatalogService) ScaleMenu(ctx context.Context, menuID string, pax int) ([]models.OrderLine, error) {
	if m.ScaleMenuFunc != nil {
		return m.ScaleMenuFunc(ctx, menuID, pax)
	}
	return nil, errNotImplemented
}

func (m *MockCatalogService) CreateOrder(ctx context.Context, menuID string, pax int) (models.Order, error) {
	if m.CreateOrderFunc != nil {
		return m.CreateOrderFunc(ctx, menuID, pax)
	}
	return models.Order{}, errNotImplemented
}

func (m *MockCatalogService) ListOrders(ctx context.Context) ([]models.Order, error) {
	if m.ListOrdersFunc != nil {
		return m.ListOrdersFunc(ctx)
	}
	return nil, errNotImplemented
}

// MockBackupService is a mock implementation of the BackupService interface.
type MockBackupService struct {
	ExportFunc            func(ctx context.Context) (service.Backup, error)
	RestoreFunc           func(ctx context.Context, b service.Backup) error
	ImportStudentsCSVFunc func(ctx context.Context, r io.Reader) (service.ImportResult, error)
	ExportGradesCSVFunc   func(ctx context.Context, w io.Writer) error
}

func (m *MockBackupService) Export(ctx context.Context) (service.Backup, error) {
	if m.ExportFunc != nil {
		return m.ExportFunc(ctx)
	}
	return service.Backup{}, errNotImplemented
}

func (m *MockBackupService) Restore(ctx context.Context, b service.Backup) error {
	if m.RestoreFunc != nil {
		return m.RestoreFunc(ctx, b)
	}
	return errNotImplemented
}

func (m *MockBackupService) ImportStudentsCSV(ctx context.Context, r io.Reader) (service.ImportResult, error) {
	if m.ImportStudentsCSVFunc != nil {
		return m.ImportStudentsCSVFunc(ctx, r)
	}
	return service.ImportResult{}, errNotImplemented
}

func (m *MockBackupService) ExportGradesCSV(ctx context.Context, w io.Writer) error {
	if m.ExportGradesCSVFunc != nil {
		return m.ExportGradesCSVFunc(ctx, w)
	}
	return errNotImplemented
}
