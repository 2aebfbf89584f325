package grpc

import (
	"context"
	"io"
	"time"

	"github.com/godilite/cocina-grades/internal/evaluation"
	"github.com/godilite/cocina-grades/internal/repository/models"
	"github.com/godilite/cocina-grades/internal/service"
)

// Cacher defines the interface for cache operations.
type Cacher interface {
	Close() error
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
}

type GradebookService interface {
	RecordGroupEvaluation(ctx context.Context, ev models.GroupEvaluation) error
	RecordIndividualEvaluation(ctx context.Context, ev models.IndividualEvaluation) error
	SetPracticalExamScore(ctx context.Context, nre string, examType models.ExamType, score models.CriterionScore) (models.PracticalExam, error)
	SetTheoreticalGrade(ctx context.Context, nre, key string, grade *float64) error
	SetModuleGrade(ctx context.Context, nre, moduleKey, period string, grade *float64) error
	StudentReport(ctx context.Context, nre string) (evaluation.StudentReport, error)
	SummaryTable(ctx context.Context) ([]evaluation.SummaryRow, error)
	Revision(ctx context.Context) (int64, error)
	Epoch(ctx context.Context) (string, error)
}

type RosterService interface {
	AddStudent(ctx context.Context, st models.Student) (models.Student, error)
	UpdateStudent(ctx context.Context, st models.Student) (models.Student, error)
	RemoveStudent(ctx context.Context, nre string) error
	ListStudents(ctx context.Context, includeRemoved bool) ([]models.Student, error)
	AssignGroup(ctx context.Context, nre, group string) error
	CreateService(ctx context.Context, svc models.Service) (models.Service, error)
	UpdateService(ctx context.Context, svc models.Service) (models.Service, error)
	RemoveService(ctx context.Context, id string) error
	ListServices(ctx context.Context, trimester int) ([]models.Service, error)
	PlanRoles(ctx context.Context, serviceID string, roles map[string]string) (models.Service, error)
	Settings(ctx context.Context) (models.AppSettings, error)
	SaveSettings(ctx context.Context, settings models.AppSettings) (models.AppSettings, error)
}

type CatalogService interface {
	PutProduct(ctx context.Context, p models.Product) (models.Product, error)
	ListProducts(ctx context.Context) ([]models.Product, error)
	RemoveProduct(ctx context.Context, id string) error
	PutRecipe(ctx context.Context, r models.Recipe) (models.Recipe, error)
	ListRecipes(ctx context.Context) ([]models.Recipe, error)
	RemoveRecipe(ctx context.Context, id string) error
	RecipeCost(ctx context.Context, id string) (service.RecipeCost, error)
	RecipeAllergens(ctx context.Context, id string) ([]string, error)
	PutMenu(ctx context.Context, m models.Menu) (models.Menu, error)
	ListMenus(ctx context.Context) ([]models.Menu, error)
	ScaleMenu(ctx context.Context, menuID string, pax int) ([]models.OrderLine, error)
	CreateOrder(ctx context.Context, menuID string, pax int) (models.Order, error)
	ListOrders(ctx context.Context) ([]models.Order, error)
}

type BackupService interface {
	Export(ctx context.Context) (service.Backup, error)
	Restore(ctx context.Context, b service.Backup) error
	ImportStudentsCSV(ctx context.Context, r io.Reader) (service.ImportResult, error)
	ExportGradesCSV(ctx context.Context, w io.Writer) error
}
