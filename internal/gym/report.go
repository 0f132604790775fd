package gym

import (
	"fmt"
	"net/http"

	"github.com/xuri/excelize/v2"
)

// billingReport отдаёт Excel-файл по последнему прогону биллинга.
// Прогона ещё не было — 404, отчёт без данных не имеет смысла.
func (h *Handler) billingReport(w http.ResponseWriter, _ *http.Request) {
	h.mu.Lock()
	run := h.lastRun
	runAt := h.lastRunAt
	h.mu.Unlock()

	if run == nil {
		h.writeError(w, http.StatusNotFound, "no billing run yet, POST /billing/run first")
		return
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())

	header := fmt.Sprintf("Monthly billing run as of %s", runAt.Format("2006-01-02"))
	_ = f.SetCellValue(sheet, "A1", header)
	_ = f.MergeCell(sheet, "A1", "D1")

	rowIdx := 3
	_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", rowIdx), "Member")
	_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", rowIdx), "Base fee")
	_ = f.SetCellValue(sheet, fmt.Sprintf("C%d", rowIdx), "Penalty")
	_ = f.SetCellValue(sheet, fmt.Sprintf("D%d", rowIdx), "Total")
	rowIdx++

	var totalBase, totalPenalty, totalSum float64
	for _, inv := range run {
		_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", rowIdx), inv.MemberName)
		_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", rowIdx), inv.Base)
		_ = f.SetCellValue(sheet, fmt.Sprintf("C%d", rowIdx), inv.Penalty)
		_ = f.SetCellValue(sheet, fmt.Sprintf("D%d", rowIdx), inv.Total)
		totalBase += inv.Base
		totalPenalty += inv.Penalty
		totalSum += inv.Total
		rowIdx++
	}

	rowIdx++
	_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", rowIdx), "Totals")
	_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", rowIdx), totalBase)
	_ = f.SetCellValue(sheet, fmt.Sprintf("C%d", rowIdx), totalPenalty)
	_ = f.SetCellValue(sheet, fmt.Sprintf("D%d", rowIdx), totalSum)

	filename := fmt.Sprintf("billing_%s.xlsx", runAt.Format("20060102"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := f.Write(w); err != nil {
		h.log.Error("write report failed", "err", err)
	}
}
