package grpc

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	pb "github.com/godilite/cocina-grades/api/v1"
	"github.com/godilite/cocina-grades/internal/evaluation"
	"github.com/godilite/cocina-grades/internal/repository/models"
)

type CacheKeyType string

const (
	cacheKeyStudentReport CacheKeyType = "grpc:student_report"
	cacheKeySummaryTable  CacheKeyType = "grpc:summary_table"
)

// revisionKey scopes a cache entry to one revision of one database. Any
// write bumps the revision, so entries of older revisions are simply never
// read again; the epoch keeps a fresh database from reusing old revisions.
func revisionKey(prefix CacheKeyType, epoch string, revision int64, parts ...string) string {
	key := fmt.Sprintf("%s:%s:r%d", prefix, epoch, revision)
	for _, p := range parts {
		key += ":" + p
	}
	return key
}

type GradebookHandlers struct {
	gradebook GradebookService
	reports   *reportCache
	logger    *zap.Logger
}

// NewGradebookHandlers initializes the cocina.v1.Gradebook handlers.
func NewGradebookHandlers(gradebook GradebookService, cache Cacher, logger *zap.Logger, ttl time.Duration) *GradebookHandlers {
	if gradebook == nil {
		panic("nil GradebookService provided to NewGradebookHandlers")
	}
	if cache == nil {
		panic("nil Cacher provided to NewGradebookHandlers")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = defaultCacheDuration
	}
	logger = logger.Named("grpc-gradebook")
	return &GradebookHandlers{
		gradebook: gradebook,
		reports:   newReportCache(cache, ttl, logger),
		logger:    logger,
	}
}

func (h *GradebookHandlers) RecordGroupEvaluation(ctx context.Context, req *pb.GroupEvaluation) (*pb.Empty, error) {
	if err := requireField("serviceId", req.ServiceId); err != nil {
		return nil, err
	}
	if err := requireField("groupId", req.GroupId); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultGRPCTimeout)
	defer cancel()

	err := h.gradebook.RecordGroupEvaluation(ctx, models.GroupEvaluation{
		ServiceID:   req.ServiceId,
		GroupID:     req.GroupId,
		Scores:      itemScoresFromProto(req.Scores),
		Observation: req.Observation,
	})
	if err != nil {
		return nil, handleError(ctx, h.logger, "RecordGroupEvaluation", err)
	}
	return &pb.Empty{}, nil
}

func (h *GradebookHandlers) RecordIndividualEvaluation(ctx context.Context, req *pb.IndividualEvaluation) (*pb.Empty, error) {
	if err := requireField("serviceId", req.ServiceId); err != nil {
		return nil, err
	}
	if err := requireField("nre", req.Nre); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultGRPCTimeout)
	defer cancel()

	err := h.gradebook.RecordIndividualEvaluation(ctx, models.IndividualEvaluation{
		ServiceID:   req.ServiceId,
		NRE:         req.Nre,
		Attendance:  models.Attendance(req.Attendance),
		Scores:      itemScoresFromProto(req.Scores),
		Observation: req.Observation,
	})
	if err != nil {
		return nil, handleError(ctx, h.logger, "RecordIndividualEvaluation", err)
	}
	return &pb.Empty{}, nil
}

func (h *GradebookHandlers) SetPracticalExamScore(ctx context.Context, req *pb.SetPracticalExamScoreRequest) (*pb.PracticalExam, error) {
	if err := requireField("nre", req.Nre); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultGRPCTimeout)
	defer cancel()

	exam, err := h.gradebook.SetPracticalExamScore(ctx, req.Nre, models.ExamType(req.ExamType), models.CriterionScore{
		CriterionID: req.CriterionId,
		Score:       req.Score,
		Notes:       req.Notes,
	})
	if err != nil {
		return nil, handleError(ctx, h.logger, "SetPracticalExamScore", err)
	}
	return practicalExamToProto(exam), nil
}

func (h *GradebookHandlers) SetTheoreticalGrade(ctx context.Context, req *pb.SetTheoreticalGradeRequest) (*pb.Empty, error) {
	if err := requireField("nre", req.Nre); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultGRPCTimeout)
	defer cancel()

	if err := h.gradebook.SetTheoreticalGrade(ctx, req.Nre, req.Key, req.Grade); err != nil {
		return nil, handleError(ctx, h.logger, "SetTheoreticalGrade", err)
	}
	return &pb.Empty{}, nil
}

func (h *GradebookHandlers) SetModuleGrade(ctx context.Context, req *pb.SetModuleGradeRequest) (*pb.Empty, error) {
	if err := requireField("nre", req.Nre); err != nil {
		return nil, err
	}
	if err := requireField("module", req.Module); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultGRPCTimeout)
	defer cancel()

	if err := h.gradebook.SetModuleGrade(ctx, req.Nre, req.Module, req.Period, req.Grade); err != nil {
		return nil, handleError(ctx, h.logger, "SetModuleGrade", err)
	}
	return &pb.Empty{}, nil
}

func (h *GradebookHandlers) storeVersion(ctx context.Context) (string, int64, error) {
	epoch, err := h.gradebook.Epoch(ctx)
	if err != nil {
		return "", 0, err
	}
	rev, err := h.gradebook.Revision(ctx)
	if err != nil {
		return "", 0, err
	}
	return epoch, rev, nil
}

func (h *GradebookHandlers) GetStudentReport(ctx context.Context, req *pb.StudentRequest) (*pb.StudentReport, error) {
	if err := requireField("nre", req.Nre); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultGRPCTimeout)
	defer cancel()

	epoch, rev, err := h.storeVersion(ctx)
	if err != nil {
		return nil, handleError(ctx, h.logger, "GetStudentReport", err)
	}

	cacheKey := revisionKey(cacheKeyStudentReport, epoch, rev, req.Nre)
	report, err := cachedReport(ctx, h.reports, cacheKey, func(fetchCtx context.Context) (evaluation.StudentReport, error) {
		return h.gradebook.StudentReport(fetchCtx, req.Nre)
	})
	if err != nil {
		return nil, handleError(ctx, h.logger, "GetStudentReport", err)
	}

	return studentReportToProto(report), nil
}

func (h *GradebookHandlers) GetSummaryTable(ctx context.Context, _ *pb.Empty) (*pb.SummaryTableResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultGRPCTimeout)
	defer cancel()

	epoch, rev, err := h.storeVersion(ctx)
	if err != nil {
		return nil, handleError(ctx, h.logger, "GetSummaryTable", err)
	}

	cacheKey := revisionKey(cacheKeySummaryTable, epoch, rev)
	rows, err := cachedReport(ctx, h.reports, cacheKey, func(fetchCtx context.Context) ([]evaluation.SummaryRow, error) {
		return h.gradebook.SummaryTable(fetchCtx)
	})
	if err != nil {
		return nil, handleError(ctx, h.logger, "GetSummaryTable", err)
	}

	return &pb.SummaryTableResponse{Rows: summaryRowsToProto(rows)}, nil
}

func (h *GradebookHandlers) GetRevision(ctx context.Context, _ *pb.Empty) (*pb.RevisionResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultGRPCTimeout)
	defer cancel()

	rev, err := h.gradebook.Revision(ctx)
	if err != nil {
		return nil, handleError(ctx, h.logger, "GetRevision", err)
	}
	return &pb.RevisionResponse{Revision: rev}, nil
}
