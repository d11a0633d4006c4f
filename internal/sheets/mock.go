package sheets

import (
	"context"
	"sync"
)

// MockExporter records exports for command tests.
type MockExporter struct {
	ExportFunc  func(ctx context.Context, export Export) (string, error)
	LastExport  *Export
	ExportCalls int
	mu          sync.Mutex
}

var _ Exporter = (*MockExporter)(nil)

// NewMockExporter creates a new mock exporter.
func NewMockExporter() *MockExporter {
	return &MockExporter{}
}

// Export implements Exporter.
func (m *MockExporter) Export(ctx context.Context, export Export) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ExportCalls++
	m.LastExport = &export

	if m.ExportFunc != nil {
		return m.ExportFunc(ctx, export)
	}
	return "mock-spreadsheet", nil
}

// SetExportError configures the mock to fail every export.
func (m *MockExporter) SetExportError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ExportFunc = func(context.Context, Export) (string, error) {
		return "", err
	}
}
