package v1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/timestamppb"
)

const RosterServiceName = "cocina.v1.Roster"

type Student struct {
	Nre       string                 `json:"nre"`
	Name      string                 `json:"name"`
	Surname   string                 `json:"surname"`
	Group     string                 `json:"group"`
	Active    bool                   `json:"active"`
	RemovedAt *timestamppb.Timestamp `json:"removedAt,omitempty"`
}

type ListStudentsRequest struct {
	IncludeRemoved bool `json:"includeRemoved"`
}

type ListStudentsResponse struct {
	Students []*Student `json:"students"`
}

// AssignGroupRequest clears the assignment when Group is empty.
type AssignGroupRequest struct {
	Nre   string `json:"nre"`
	Group string `json:"group"`
}

type Service struct {
	Id        string                 `json:"id"`
	Name      string                 `json:"name"`
	Date      *timestamppb.Timestamp `json:"date,omitempty"`
	Trimester int32                  `json:"trimester"`
	Roles     map[string]string      `json:"roles,omitempty"`
}

// ListServicesRequest lists every trimester when Trimester is 0.
type ListServicesRequest struct {
	Trimester int32 `json:"trimester"`
}

type ListServicesResponse struct {
	Services []*Service `json:"services"`
}

type PlanRolesRequest struct {
	ServiceId string            `json:"serviceId"`
	Roles     map[string]string `json:"roles"`
}

type Settings struct {
	TeacherName    string   `json:"teacherName"`
	SchoolYear     string   `json:"schoolYear"`
	ModuleKeys     []string `json:"moduleKeys"`
	TrimesterCount int32    `json:"trimesterCount"`
}

// RosterServer is the server API for the cocina.v1.Roster service.
type RosterServer interface {
	AddStudent(context.Context, *Student) (*Student, error)
	UpdateStudent(context.Context, *Student) (*Student, error)
	RemoveStudent(context.Context, *StudentRequest) (*Empty, error)
	ListStudents(context.Context, *ListStudentsRequest) (*ListStudentsResponse, error)
	AssignGroup(context.Context, *AssignGroupRequest) (*Empty, error)
	CreateService(context.Context, *Service) (*Service, error)
	UpdateService(context.Context, *Service) (*Service, error)
	RemoveService(context.Context, *IDRequest) (*Empty, error)
	ListServices(context.Context, *ListServicesRequest) (*ListServicesResponse, error)
	PlanRoles(context.Context, *PlanRolesRequest) (*Service, error)
	GetSettings(context.Context, *Empty) (*Settings, error)
	SaveSettings(context.Context, *Settings) (*Settings, error)
}

var Roster_ServiceDesc = grpc.ServiceDesc{
	ServiceName: RosterServiceName,
	HandlerType: (*RosterServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(RosterServiceName, "AddStudent", RosterServer.AddStudent),
		unary(RosterServiceName, "UpdateStudent", RosterServer.UpdateStudent),
		unary(RosterServiceName, "RemoveStudent", RosterServer.RemoveStudent),
		unary(RosterServiceName, "ListStudents", RosterServer.ListStudents),
		unary(RosterServiceName, "AssignGroup", RosterServer.AssignGroup),
		unary(RosterServiceName, "CreateService", RosterServer.CreateService),
		unary(RosterServiceName, "UpdateService", RosterServer.UpdateService),
		unary(RosterServiceName, "RemoveService", RosterServer.RemoveService),
		unary(RosterServiceName, "ListServices", RosterServer.ListServices),
		unary(RosterServiceName, "PlanRoles", RosterServer.PlanRoles),
		unary(RosterServiceName, "GetSettings", RosterServer.GetSettings),
		unary(RosterServiceName, "SaveSettings", RosterServer.SaveSettings),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "cocina/v1/roster",
}

func RegisterRosterServer(s grpc.ServiceRegistrar, srv RosterServer) {
	s.RegisterService(&Roster_ServiceDesc, srv)
}

// RosterClient is the client API for the cocina.v1.Roster service.
type RosterClient struct {
	cc grpc.ClientConnInterface
}

func NewRosterClient(cc grpc.ClientConnInterface) *RosterClient {
	return &RosterClient{cc: cc}
}

func rosterMethod(name string) string { return "/" + RosterServiceName + "/" + name }

func (c *RosterClient) AddStudent(ctx context.Context, in *Student, opts ...grpc.CallOption) (*Student, error) {
	return invoke[Student](ctx, c.cc, rosterMethod("AddStudent"), in, opts)
}

func (c *RosterClient) UpdateStudent(ctx context.Context, in *Student, opts ...grpc.CallOption) (*Student, error) {
	return invoke[Student](ctx, c.cc, rosterMethod("UpdateStudent"), in, opts)
}

func (c *RosterClient) RemoveStudent(ctx context.Context, in *StudentRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, rosterMethod("RemoveStudent"), in, opts)
}

func (c *RosterClient) ListStudents(ctx context.Context, in *ListStudentsRequest, opts ...grpc.CallOption) (*ListStudentsResponse, error) {
	return invoke[ListStudentsResponse](ctx, c.cc, rosterMethod("ListStudents"), in, opts)
}

func (c *RosterClient) AssignGroup(ctx context.Context, in *AssignGroupRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, rosterMethod("AssignGroup"), in, opts)
}

func (c *RosterClient) CreateService(ctx context.Context, in *Service, opts ...grpc.CallOption) (*Service, error) {
	return invoke[Service](ctx, c.cc, rosterMethod("CreateService"), in, opts)
}

func (c *RosterClient) UpdateService(ctx context.Context, in *Service, opts ...grpc.CallOption) (*Service, error) {
	return invoke[Service](ctx, c.cc, rosterMethod("UpdateService"), in, opts)
}

func (c *RosterClient) RemoveService(ctx context.Context, in *IDRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, rosterMethod("RemoveService"), in, opts)
}

func (c *RosterClient) ListServices(ctx context.Context, in *ListServicesRequest, opts ...grpc.CallOption) (*ListServicesResponse, error) {
	return invoke[ListServicesResponse](ctx, c.cc, rosterMethod("ListServices"), in, opts)
}

func (c *RosterClient) PlanRoles(ctx context.Context, in *PlanRolesRequest, opts ...grpc.CallOption) (*Service, error) {
	return invoke[Service](ctx, c.cc, rosterMethod("PlanRoles"), in, opts)
}

func (c *RosterClient) GetSettings(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*Settings, error) {
	return invoke[Settings](ctx, c.cc, rosterMethod("GetSettings"), in, opts)
}

func (c *RosterClient) SaveSettings(ctx context.Context, in *Settings, opts ...grpc.CallOption) (*Settings, error) {
	return invoke[Settings](ctx, c.cc, rosterMethod("SaveSettings"), in, opts)
}
