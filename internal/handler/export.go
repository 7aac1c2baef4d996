package handler

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"stellar-indexer/internal/history"
	"stellar-indexer/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// ExportHandler 导出当前用户的提交历史
type ExportHandler struct {
	Ledger *history.Ledger
}

func NewExportHandler(ledger *history.Ledger) *ExportHandler {
	return &ExportHandler{Ledger: ledger}
}

// ExportCSV 导出历史为 CSV
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "Login first to access this resource")
		return
	}

	records, err := h.Ledger.AllForOwner(user.ID)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Failed to fetch history")
		return
	}

	// 设置响应头
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"history_%s.csv\"",
		time.Now().Format("20060102")))

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	// UTF-8 BOM（让 Excel 正确识别）
	c.Writer.Write([]byte{0xEF, 0xBB, 0xBF})

	writer.Write([]string{"URL", "Status", "Error", "Submitted At", "Updated At"})

	for _, r := range records {
		writer.Write([]string{
			r.URL,
			r.Status,
			r.ErrorMessage,
			r.CreatedAt.Format("2006-01-02 15:04:05"),
			r.UpdatedAt.Format("2006-01-02 15:04:05"),
		})
	}
}

// ExportXLSX 导出历史为 XLSX
func (h *ExportHandler) ExportXLSX(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "Login first to access this resource")
		return
	}

	records, err := h.Ledger.AllForOwner(user.ID)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Failed to fetch history")
		return
	}

	f := excelize.NewFile()
	sheetName := "History"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Failed to create sheet")
		return
	}
	f.SetActiveSheet(index)

	headers := []string{"URL", "Status", "Error", "Submitted At", "Updated At"}
	for i, hd := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, hd)
	}

	for idx, r := range records {
		row := idx + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), r.URL)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), r.Status)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), r.ErrorMessage)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), r.CreatedAt.Format("2006-01-02 15:04:05"))
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), r.UpdatedAt.Format("2006-01-02 15:04:05"))
	}

	// 设置列宽
	f.SetColWidth(sheetName, "A", "A", 50)
	f.SetColWidth(sheetName, "B", "B", 12)
	f.SetColWidth(sheetName, "C", "C", 40)
	f.SetColWidth(sheetName, "D", "E", 20)

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"history_%s.xlsx\"",
		time.Now().Format("20060102")))

	if err := f.Write(c.Writer); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Export failed")
	}
}
