package grpc

import (
	"context"

	"go.uber.org/zap"

	pb "github.com/godilite/cocina-grades/api/v1"
	"github.com/godilite/cocina-grades/internal/repository/models"
)

type RosterHandlers struct {
	roster RosterService
	logger *zap.Logger
}

// NewRosterHandlers initializes the cocina.v1.Roster handlers.
func NewRosterHandlers(roster RosterService, logger *zap.Logger) *RosterHandlers {
	if roster == nil {
		panic("nil RosterService provided to NewRosterHandlers")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RosterHandlers{roster: roster, logger: logger.Named("grpc-roster")}
}

func (h *RosterHandlers) AddStudent(ctx context.Context, req *pb.Student) (*pb.Student, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultGRPCTimeout)
	defer cancel()

	st, err := h.roster.AddStudent(ctx, studentFromProto(req))
	if err != nil {
		return nil, handleError(ctx, h.logger, "AddStudent", err)
	}
	return studentToProto(st), nil
}

func (h *RosterHandlers) UpdateStudent(ctx context.Context, req *pb.Student) (*pb.Student, error) {
	if err := requireField("nre", req.Nre); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultGRPCTimeout)
	defer cancel()

	st, err := h.roster.UpdateStudent(ctx, studentFromProto(req))
	if err != nil {
		return nil, handleError(ctx, h.logger, "UpdateStudent", err)
	}
	return studentToProto(st), nil
}

func (h *RosterHandlers) RemoveStudent(ctx context.Context, req *pb.StudentRequest) (*pb.Empty, error) {
	if err := requireField("nre", req.Nre); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultGRPCTimeout)
	defer cancel()

	if err := h.roster.RemoveStudent(ctx, req.Nre); err != nil {
		return nil, handleError(ctx, h.logger, "RemoveStudent", err)
	}
	return &pb.Empty{}, nil
}

func (h *RosterHandlers) ListStudents(ctx context.Context, req *pb.ListStudentsRequest) (*pb.ListStudentsResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultGRPCTimeout)
	defer cancel()

	students, err := h.roster.ListStudents(ctx, req.IncludeRemoved)
	if err != nil {
		return nil, handleError(ctx, h.logger, "ListStudents", err)
	}

	out := make([]*pb.Student, len(students))
	for i, st := range students {
		out[i] = studentToProto(st)
	}
	return &pb.ListStudentsResponse{Students: out}, nil
}

func (h *RosterHandlers) AssignGroup(ctx context.Context, req *pb.AssignGroupRequest) (*pb.Empty, error) {
	if err := requireField("nre", req.Nre); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultGRPCTimeout)
	defer cancel()

	if err := h.roster.AssignGroup(ctx, req.Nre, req.Group); err != nil {
		return nil, handleError(ctx, h.logger, "AssignGroup", err)
	}
	return &pb.Empty{}, nil
}

func (h *RosterHandlers) CreateService(ctx context.Context, req *pb.Service) (*pb.Service, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultGRPCTimeout)
	defer cancel()

	svc, err := h.roster.CreateService(ctx, serviceFromProto(req))
	if err != nil {
		return nil, handleError(ctx, h.logger, "CreateService", err)
	}
	return serviceToProto(svc), nil
}

func (h *RosterHandlers) UpdateService(ctx context.Context, req *pb.Service) (*pb.Service, error) {
	if err := requireField("id", req.Id); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultGRPCTimeout)
	defer cancel()

	svc, err := h.roster.UpdateService(ctx, serviceFromProto(req))
	if err != nil {
		return nil, handleError(ctx, h.logger, "UpdateService", err)
	}
	return serviceToProto(svc), nil
}

func (h *RosterHandlers) RemoveService(ctx context.Context, req *pb.IDRequest) (*pb.Empty, error) {
	if err := requireField("id", req.Id); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultGRPCTimeout)
	defer cancel()

	if err := h.roster.RemoveService(ctx, req.Id); err != nil {
		return nil, handleError(ctx, h.logger, "RemoveService", err)
	}
	return &pb.Empty{}, nil
}

func (h *RosterHandlers) ListServices(ctx context.Context, req *pb.ListServicesRequest) (*pb.ListServicesResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultGRPCTimeout)
	defer cancel()

	services, err := h.roster.ListServices(ctx, int(req.Trimester))
	if err != nil {
		return nil, handleError(ctx, h.logger, "ListServices", err)
	}

	out := make([]*pb.Service, len(services))
	for i, svc := range services {
		out[i] = serviceToProto(svc)
	}
	return &pb.ListServicesResponse{Services: out}, nil
}

func (h *RosterHandlers) PlanRoles(ctx context.Context, req *pb.PlanRolesRequest) (*pb.Service, error) {
	if err := requireField("serviceId", req.ServiceId); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultGRPCTimeout)
	defer cancel()

	svc, err := h.roster.PlanRoles(ctx, req.ServiceId, req.Roles)
	if err != nil {
		return nil, handleError(ctx, h.logger, "PlanRoles", err)
	}
	return serviceToProto(svc), nil
}

func (h *RosterHandlers) GetSettings(ctx context.Context, _ *pb.Empty) (*pb.Settings, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultGRPCTimeout)
	defer cancel()

	settings, err := h.roster.Settings(ctx)
	if err != nil {
		return nil, handleError(ctx, h.logger, "GetSettings", err)
	}
	return settingsToProto(settings), nil
}

func (h *RosterHandlers) SaveSettings(ctx context.Context, req *pb.Settings) (*pb.Settings, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultGRPCTimeout)
	defer cancel()

	settings, err := h.roster.SaveSettings(ctx, models.AppSettings{
		TeacherName:    req.TeacherName,
		SchoolYear:     req.SchoolYear,
		ModuleKeys:     req.ModuleKeys,
		TrimesterCount: int(req.TrimesterCount),
	})
	if err != nil {
		return nil, handleError(ctx, h.logger, "SaveSettings", err)
	}
	return settingsToProto(settings), nil
}
