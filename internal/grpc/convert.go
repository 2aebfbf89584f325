package grpc

import (
	"time"

	"google.golang.org/protobuf/types/known/timestamppb"

	pb "github.com/godilite/cocina-grades/api/v1"
	"github.com/godilite/cocina-grades/internal/evaluation"
	"github.com/godilite/cocina-grades/internal/repository/models"
)

// timeToProto leaves zero times unset on the wire.
func timeToProto(t time.Time) *timestamppb.Timestamp {
	if t.IsZero() {
		return nil
	}
	return timestamppb.New(t)
}

func timeFromProto(ts *timestamppb.Timestamp) time.Time {
	if ts == nil {
		return time.Time{}
	}
	return ts.AsTime()
}

func itemScoresFromProto(in []*pb.ItemScore) []models.ItemScore {
	out := make([]models.ItemScore, 0, len(in))
	for _, s := range in {
		if s == nil {
			continue
		}
		out = append(out, models.ItemScore{ItemID: s.ItemId, Score: s.Score})
	}
	return out
}

func practicalExamToProto(exam models.PracticalExam) *pb.PracticalExam {
	criteria := make([]*pb.CriterionScore, len(exam.Criteria))
	for i, c := range exam.Criteria {
		criteria[i] = &pb.CriterionScore{CriterionId: c.CriterionID, Score: c.Score, Notes: c.Notes}
	}
	return &pb.PracticalExam{
		Nre:        exam.NRE,
		ExamType:   string(exam.ExamType),
		Criteria:   criteria,
		FinalScore: exam.FinalScore,
	}
}

func studentReportToProto(r evaluation.StudentReport) *pb.StudentReport {
	out := &pb.StudentReport{
		Nre:              r.NRE,
		ServiceScores:    make(map[string]*pb.ServiceScore, len(r.ServiceScores)),
		Calculated:       r.Calculated,
		Trimesters:       make(map[int32]float64, len(r.Trimesters)),
		Recovery:         r.Recovery,
		SummaryAverage:   r.SummaryAverage,
		AttendedServices: int32(r.AttendedServices),
		PracticalExams:   make(map[string]float64, len(r.PracticalExams)),
		ModuleFinals:     r.ModuleFinals,
	}
	for id, s := range r.ServiceScores {
		out.ServiceScores[id] = &pb.ServiceScore{Group: s.Group, Individual: s.Individual, Combined: s.Combined()}
	}
	for t, v := range r.Trimesters {
		out.Trimesters[int32(t)] = v
	}
	for exam, v := range r.PracticalExams {
		out.PracticalExams[string(exam)] = v
	}
	return out
}

func summaryRowsToProto(rows []evaluation.SummaryRow) []*pb.SummaryRow {
	out := make([]*pb.SummaryRow, len(rows))
	for i, r := range rows {
		out[i] = &pb.SummaryRow{
			Nre:              r.NRE,
			Name:             r.Name,
			Surname:          r.Surname,
			Group:            r.Group,
			AttendedServices: int32(r.AttendedServices),
			Average:          r.Average,
			MaxScore:         r.MaxScore,
		}
	}
	return out
}

func studentFromProto(s *pb.Student) models.Student {
	return models.Student{NRE: s.Nre, Name: s.Name, Surname: s.Surname, Group: s.Group}
}

func studentToProto(s models.Student) *pb.Student {
	out := &pb.Student{
		Nre:     s.NRE,
		Name:    s.Name,
		Surname: s.Surname,
		Group:   s.Group,
		Active:  s.Active,
	}
	if s.RemovedAt != nil {
		out.RemovedAt = timestamppb.New(*s.RemovedAt)
	}
	return out
}

func serviceFromProto(s *pb.Service) models.Service {
	return models.Service{
		ID:        s.Id,
		Name:      s.Name,
		Date:      timeFromProto(s.Date),
		Trimester: int(s.Trimester),
		Roles:     s.Roles,
	}
}

func serviceToProto(s models.Service) *pb.Service {
	return &pb.Service{
		Id:        s.ID,
		Name:      s.Name,
		Date:      timeToProto(s.Date),
		Trimester: int32(s.Trimester),
		Roles:     s.Roles,
	}
}

func settingsToProto(s models.AppSettings) *pb.Settings {
	return &pb.Settings{
		TeacherName:    s.TeacherName,
		SchoolYear:     s.SchoolYear,
		ModuleKeys:     s.ModuleKeys,
		TrimesterCount: int32(s.TrimesterCount),
	}
}

func productFromProto(p *pb.Product) models.Product {
	return models.Product{
		ID:           p.Id,
		Name:         p.Name,
		Unit:         p.Unit,
		Category:     p.Category,
		PricePerUnit: p.PricePerUnit,
		Allergens:    p.Allergens,
	}
}

func productToProto(p models.Product) *pb.Product {
	return &pb.Product{
		Id:           p.ID,
		Name:         p.Name,
		Unit:         p.Unit,
		Category:     p.Category,
		PricePerUnit: p.PricePerUnit,
		Allergens:    p.Allergens,
	}
}

func recipeFromProto(r *pb.Recipe) models.Recipe {
	ingredients := make([]models.Ingredient, 0, len(r.Ingredients))
	for _, ing := range r.Ingredients {
		if ing == nil {
			continue
		}
		ingredients = append(ingredients, models.Ingredient{ProductID: ing.ProductId, Quantity: ing.Quantity})
	}
	return models.Recipe{
		ID:          r.Id,
		Name:        r.Name,
		Servings:    int(r.Servings),
		Ingredients: ingredients,
		Steps:       r.Steps,
	}
}

func recipeToProto(r models.Recipe) *pb.Recipe {
	ingredients := make([]*pb.Ingredient, len(r.Ingredients))
	for i, ing := range r.Ingredients {
		ingredients[i] = &pb.Ingredient{ProductId: ing.ProductID, Quantity: ing.Quantity}
	}
	return &pb.Recipe{
		Id:          r.ID,
		Name:        r.Name,
		Servings:    int32(r.Servings),
		Ingredients: ingredients,
		Steps:       r.Steps,
	}
}

func menuFromProto(m *pb.Menu) models.Menu {
	return models.Menu{ID: m.Id, Name: m.Name, Pax: int(m.Pax), RecipeIDs: m.RecipeIds}
}

func menuToProto(m models.Menu) *pb.Menu {
	return &pb.Menu{Id: m.ID, Name: m.Name, Pax: int32(m.Pax), RecipeIds: m.RecipeIDs}
}

func orderLinesToProto(lines []models.OrderLine) []*pb.OrderLine {
	out := make([]*pb.OrderLine, len(lines))
	for i, l := range lines {
		out[i] = &pb.OrderLine{
			ProductId: l.ProductID,
			Name:      l.Name,
			Unit:      l.Unit,
			Quantity:  l.Quantity,
			Cost:      l.Cost,
		}
	}
	return out
}

func orderToProto(o models.Order) *pb.Order {
	return &pb.Order{
		Id:        o.ID,
		MenuId:    o.MenuID,
		Pax:       int32(o.Pax),
		CreatedAt: timeToProto(o.CreatedAt),
		Lines:     orderLinesToProto(o.Lines),
		Total:     o.Total,
	}
}
