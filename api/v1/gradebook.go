package v1

import (
	"context"

	"google.golang.org/grpc"
)

const GradebookServiceName = "cocina.v1.Gradebook"

type ItemScore struct {
	ItemId string  `json:"itemId"`
	Score  float64 `json:"score"`
}

type GroupEvaluation struct {
	ServiceId   string       `json:"serviceId"`
	GroupId     string       `json:"groupId"`
	Scores      []*ItemScore `json:"scores"`
	Observation string       `json:"observation,omitempty"`
}

type IndividualEvaluation struct {
	ServiceId   string       `json:"serviceId"`
	Nre         string       `json:"nre"`
	Attendance  string       `json:"attendance"`
	Scores      []*ItemScore `json:"scores,omitempty"`
	Observation string       `json:"observation,omitempty"`
}

type SetPracticalExamScoreRequest struct {
	Nre         string  `json:"nre"`
	ExamType    string  `json:"examType"`
	CriterionId string  `json:"criterionId"`
	Score       float64 `json:"score"`
	Notes       string  `json:"notes,omitempty"`
}

type CriterionScore struct {
	CriterionId string  `json:"criterionId"`
	Score       float64 `json:"score"`
	Notes       string  `json:"notes,omitempty"`
}

type PracticalExam struct {
	Nre        string            `json:"nre"`
	ExamType   string            `json:"examType"`
	Criteria   []*CriterionScore `json:"criteria"`
	FinalScore float64           `json:"finalScore"`
}

// SetTheoreticalGradeRequest clears the grade when Grade is null.
type SetTheoreticalGradeRequest struct {
	Nre   string   `json:"nre"`
	Key   string   `json:"key"`
	Grade *float64 `json:"grade"`
}

// SetModuleGradeRequest clears the grade when Grade is null. Period is one
// of t1, t2, t3 or rec.
type SetModuleGradeRequest struct {
	Nre    string   `json:"nre"`
	Module string   `json:"module"`
	Period string   `json:"period"`
	Grade  *float64 `json:"grade"`
}

type ServiceScore struct {
	Group      float64 `json:"group"`
	Individual float64 `json:"individual"`
	Combined   float64 `json:"combined"`
}

type StudentReport struct {
	Nre              string                   `json:"nre"`
	ServiceScores    map[string]*ServiceScore `json:"serviceScores"`
	Calculated       map[string]float64       `json:"calculated"`
	Trimesters       map[int32]float64        `json:"trimesters"`
	Recovery         float64                  `json:"recovery"`
	SummaryAverage   *float64                 `json:"summaryAverage"`
	AttendedServices int32                    `json:"attendedServices"`
	PracticalExams   map[string]float64       `json:"practicalExams"`
	ModuleFinals     map[string]*float64      `json:"moduleFinals"`
}

type SummaryRow struct {
	Nre              string   `json:"nre"`
	Name             string   `json:"name"`
	Surname          string   `json:"surname"`
	Group            string   `json:"group"`
	AttendedServices int32    `json:"attendedServices"`
	Average          *float64 `json:"average"`
	MaxScore         float64  `json:"maxScore"`
}

type SummaryTableResponse struct {
	Rows []*SummaryRow `json:"rows"`
}

type RevisionResponse struct {
	Revision int64 `json:"revision"`
}

// GradebookServer is the server API for the cocina.v1.Gradebook service.
type GradebookServer interface {
	RecordGroupEvaluation(context.Context, *GroupEvaluation) (*Empty, error)
	RecordIndividualEvaluation(context.Context, *IndividualEvaluation) (*Empty, error)
	SetPracticalExamScore(context.Context, *SetPracticalExamScoreRequest) (*PracticalExam, error)
	SetTheoreticalGrade(context.Context, *SetTheoreticalGradeRequest) (*Empty, error)
	SetModuleGrade(context.Context, *SetModuleGradeRequest) (*Empty, error)
	GetStudentReport(context.Context, *StudentRequest) (*StudentReport, error)
	GetSummaryTable(context.Context, *Empty) (*SummaryTableResponse, error)
	GetRevision(context.Context, *Empty) (*RevisionResponse, error)
}

var Gradebook_ServiceDesc = grpc.ServiceDesc{
	ServiceName: GradebookServiceName,
	HandlerType: (*GradebookServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(GradebookServiceName, "RecordGroupEvaluation", GradebookServer.RecordGroupEvaluation),
		unary(GradebookServiceName, "RecordIndividualEvaluation", GradebookServer.RecordIndividualEvaluation),
		unary(GradebookServiceName, "SetPracticalExamScore", GradebookServer.SetPracticalExamScore),
		unary(GradebookServiceName, "SetTheoreticalGrade", GradebookServer.SetTheoreticalGrade),
		unary(GradebookServiceName, "SetModuleGrade", GradebookServer.SetModuleGrade),
		unary(GradebookServiceName, "GetStudentReport", GradebookServer.GetStudentReport),
		unary(GradebookServiceName, "GetSummaryTable", GradebookServer.GetSummaryTable),
		unary(GradebookServiceName, "GetRevision", GradebookServer.GetRevision),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "cocina/v1/gradebook",
}

func RegisterGradebookServer(s grpc.ServiceRegistrar, srv GradebookServer) {
	s.RegisterService(&Gradebook_ServiceDesc, srv)
}

// GradebookClient is the client API for the cocina.v1.Gradebook service.
type GradebookClient struct {
	cc grpc.ClientConnInterface
}

func NewGradebookClient(cc grpc.ClientConnInterface) *GradebookClient {
	return &GradebookClient{cc: cc}
}

func gradebookMethod(name string) string { return "/" + GradebookServiceName + "/" + name }

func (c *GradebookClient) RecordGroupEvaluation(ctx context.Context, in *GroupEvaluation, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, gradebookMethod("RecordGroupEvaluation"), in, opts)
}

func (c *GradebookClient) RecordIndividualEvaluation(ctx context.Context, in *IndividualEvaluation, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, gradebookMethod("RecordIndividualEvaluation"), in, opts)
}

func (c *GradebookClient) SetPracticalExamScore(ctx context.Context, in *SetPracticalExamScoreRequest, opts ...grpc.CallOption) (*PracticalExam, error) {
	return invoke[PracticalExam](ctx, c.cc, gradebookMethod("SetPracticalExamScore"), in, opts)
}

func (c *GradebookClient) SetTheoreticalGrade(ctx context.Context, in *SetTheoreticalGradeRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, gradebookMethod("SetTheoreticalGrade"), in, opts)
}

func (c *GradebookClient) SetModuleGrade(ctx context.Context, in *SetModuleGradeRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, gradebookMethod("SetModuleGrade"), in, opts)
}

func (c *GradebookClient) GetStudentReport(ctx context.Context, in *StudentRequest, opts ...grpc.CallOption) (*StudentReport, error) {
	return invoke[StudentReport](ctx, c.cc, gradebookMethod("GetStudentReport"), in, opts)
}

func (c *GradebookClient) GetSummaryTable(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*SummaryTableResponse, error) {
	return invoke[SummaryTableResponse](ctx, c.cc, gradebookMethod("GetSummaryTable"), in, opts)
}

func (c *GradebookClient) GetRevision(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*RevisionResponse, error) {
	return invoke[RevisionResponse](ctx, c.cc, gradebookMethod("GetRevision"), in, opts)
}
