package grpc

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	pb "github.com/godilite/cocina-grades/api/v1"
	"github.com/godilite/cocina-grades/internal/service"
)

type BackupHandlers struct {
	backup BackupService
	logger *zap.Logger
}

// NewBackupHandlers initializes the cocina.v1.Backup handlers.
func NewBackupHandlers(backup BackupService, logger *zap.Logger) *BackupHandlers {
	if backup == nil {
		panic("nil BackupService provided to NewBackupHandlers")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BackupHandlers{backup: backup, logger: logger.Named("grpc-backup")}
}

func (h *BackupHandlers) Export(ctx context.Context, _ *pb.Empty) (*pb.BackupDocument, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultGRPCTimeout)
	defer cancel()

	b, err := h.backup.Export(ctx)
	if err != nil {
		return nil, handleError(ctx, h.logger, "Export", err)
	}
	raw, err := json.Marshal(b)
	if err != nil {
		return nil, handleError(ctx, h.logger, "Export", err)
	}
	return &pb.BackupDocument{Backup: raw}, nil
}

func (h *BackupHandlers) Restore(ctx context.Context, req *pb.BackupDocument) (*pb.Empty, error) {
	if len(req.Backup) == 0 {
		return nil, status.Error(codes.InvalidArgument, "backup is required")
	}
	var b service.Backup
	if err := json.Unmarshal(req.Backup, &b); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "malformed backup: %v", err)
	}

	ctx, cancel := context.WithTimeout(ctx, defaultGRPCTimeout)
	defer cancel()

	if err := h.backup.Restore(ctx, b); err != nil {
		return nil, handleError(ctx, h.logger, "Restore", err)
	}
	return &pb.Empty{}, nil
}

func (h *BackupHandlers) ImportStudentsCSV(ctx context.Context, req *pb.CSVFile) (*pb.ImportResult, error) {
	if strings.TrimSpace(req.Content) == "" {
		return nil, status.Error(codes.InvalidArgument, "content is required")
	}

	ctx, cancel := context.WithTimeout(ctx, defaultGRPCTimeout)
	defer cancel()

	res, err := h.backup.ImportStudentsCSV(ctx, strings.NewReader(req.Content))
	if err != nil {
		return nil, handleError(ctx, h.logger, "ImportStudentsCSV", err)
	}
	return &pb.ImportResult{
		Imported: int32(res.Imported),
		Updated:  int32(res.Updated),
		Skipped:  int32(res.Skipped),
		Errors:   res.Errors,
	}, nil
}

func (h *BackupHandlers) ExportGradesCSV(ctx context.Context, _ *pb.Empty) (*pb.CSVFile, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultGRPCTimeout)
	defer cancel()

	var buf bytes.Buffer
	if err := h.backup.ExportGradesCSV(ctx, &buf); err != nil {
		return nil, handleError(ctx, h.logger, "ExportGradesCSV", err)
	}
	return &pb.CSVFile{Content: buf.String()}, nil
}
