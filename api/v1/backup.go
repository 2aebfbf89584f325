package v1

import (
	"context"
	"encoding/json"

	"google.golang.org/grpc"
)

const BackupServiceName = "cocina.v1.Backup"

// BackupDocument carries a full backup as its JSON document.
type BackupDocument struct {
	Backup json.RawMessage `json:"backup"`
}

type CSVFile struct {
	Content string `json:"content"`
}

type ImportResult struct {
	Imported int32    `json:"imported"`
	Updated  int32    `json:"updated"`
	Skipped  int32    `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
}

// BackupServer is the server API for the cocina.v1.Backup service.
type BackupServer interface {
	Export(context.Context, *Empty) (*BackupDocument, error)
	Restore(context.Context, *BackupDocument) (*Empty, error)
	ImportStudentsCSV(context.Context, *CSVFile) (*ImportResult, error)
	ExportGradesCSV(context.Context, *Empty) (*CSVFile, error)
}

var Backup_ServiceDesc = grpc.ServiceDesc{
	ServiceName: BackupServiceName,
	HandlerType: (*BackupServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(BackupServiceName, "Export", BackupServer.Export),
		unary(BackupServiceName, "Restore", BackupServer.Restore),
		unary(BackupServiceName, "ImportStudentsCSV", BackupServer.ImportStudentsCSV),
		unary(BackupServiceName, "ExportGradesCSV", BackupServer.ExportGradesCSV),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "cocina/v1/backup",
}

func RegisterBackupServer(s grpc.ServiceRegistrar, srv BackupServer) {
	s.RegisterService(&Backup_ServiceDesc, srv)
}

// BackupClient is the client API for the cocina.v1.Backup service.
type BackupClient struct {
	cc grpc.ClientConnInterface
}

func NewBackupClient(cc grpc.ClientConnInterface) *BackupClient {
	return &BackupClient{cc: cc}
}

func backupMethod(name string) string { return "/" + BackupServiceName + "/" + name }

func (c *BackupClient) Export(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*BackupDocument, error) {
	return invoke[BackupDocument](ctx, c.cc, backupMethod("Export"), in, opts)
}

func (c *BackupClient) Restore(ctx context.Context, in *BackupDocument, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, backupMethod("Restore"), in, opts)
}

func (c *BackupClient) ImportStudentsCSV(ctx context.Context, in *CSVFile, opts ...grpc.CallOption) (*ImportResult, error) {
	return invoke[ImportResult](ctx, c.cc, backupMethod("ImportStudentsCSV"), in, opts)
}

func (c *BackupClient) ExportGradesCSV(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*CSVFile, error) {
	return invoke[CSVFile](ctx, c.cc, backupMethod("ExportGradesCSV"), in, opts)
}
