package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"spendscope/domain/costtree"
	"spendscope/internal/errors"
)

func costSheetContent(t *testing.T) []byte {
	t.Helper()
	f := excelize.NewFile()
	rows := [][]interface{}{
		{"Part Number", "P-100"},
		{"Supplier", "Acme Precision"},
		{"Item", "Process", "Type", "Target Cost", "Actual Cost"},
		{"Raw material", "Casting", "Material", 40, 45},
		{"Machining", "CNC", "Labor", 35, 42},
		{"Surface finish", "CNC", "Labor", 25, 33},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestCostVarianceUploadAndTree(t *testing.T) {
	service := NewCostVarianceService(newMemoryCostRepo(), testLogger())

	result, err := service.Upload(context.Background(), costSheetContent(t), "breakdown.xlsx")
	require.NoError(t, err)
	assert.Equal(t, "P-100", result.PartNumber)
	assert.Equal(t, 3, result.ItemCount)
	assert.Equal(t, 100.0, result.TargetPrice)
	assert.Equal(t, 120.0, result.SupplierPrice)

	byProcess, err := service.Tree(context.Background(), result.SessionID, costtree.ViewByProcess)
	require.NoError(t, err)
	require.NotNil(t, byProcess.Tree)
	assert.Equal(t, 100.0, byProcess.Tree.TargetCost)
	assert.Equal(t, 120.0, byProcess.Tree.ActualCost)
	assert.Equal(t, 20.0, byProcess.Tree.Variance)
	assert.Len(t, byProcess.Tree.Children, 2)

	byType, err := service.Tree(context.Background(), result.SessionID, costtree.ViewByType)
	require.NoError(t, err)
	assert.Equal(t, byProcess.Tree.TargetCost, byType.Tree.TargetCost)
	assert.Equal(t, byProcess.Tree.ActualCost, byType.Tree.ActualCost)
}

func TestCostVarianceTreeUnknownSession(t *testing.T) {
	service := NewCostVarianceService(newMemoryCostRepo(), testLogger())

	_, err := service.Tree(context.Background(), "missing", costtree.ViewByProcess)
	require.Error(t, err)
	assert.Equal(t, errors.CodeUnknownSession, errors.GetCode(err))
}

func TestCostVarianceListAndDelete(t *testing.T) {
	service := NewCostVarianceService(newMemoryCostRepo(), testLogger())

	first, err := service.Upload(context.Background(), costSheetContent(t), "a.xlsx")
	require.NoError(t, err)
	second, err := service.Upload(context.Background(), costSheetContent(t), "b.xlsx")
	require.NoError(t, err)

	sessions, err := service.ListSessions(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, second.SessionID, sessions[0].ID)

	deleted, err := service.DeleteSession(context.Background(), first.SessionID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = service.DeleteSession(context.Background(), first.SessionID)
	require.NoError(t, err)
	assert.False(t, deleted)
}
