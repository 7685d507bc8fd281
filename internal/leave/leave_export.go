package leave

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"time"

	"go-faculty-leave/internal/domain"
	leaveerrors "go-faculty-leave/internal/leave/errors"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

var registerColumns = []struct {
	title string
	width float64
}{
	{"Reference", 18},
	{"Requester", 26},
	{"Type", 8},
	{"From", 14},
	{"To", 14},
	{"Days", 8},
	{"Substitute", 14},
	{"HOD", 12},
	{"Principal", 12},
	{"Final", 12},
}

// Export builds the leave register for [from, to] as an xlsx workbook with
// one sheet per department.
func (s *service) Export(ctx context.Context, actor domain.Actor, from, to string) (*bytes.Buffer, string, error) {
	if err := principalStage.authorize(actor, LeaveRequest{}); err != nil {
		return nil, "", err
	}

	start, err := parseDate(from)
	if err != nil {
		return nil, "", err
	}
	end, err := parseDate(to)
	if err != nil {
		return nil, "", err
	}
	if start.After(end) {
		return nil, "", leaveerrors.ErrInvalidDateRange
	}

	rows, err := s.repo.ListForRegister(ctx, start, end)
	if err != nil {
		s.logger.Error("export leave register query failed", zap.Error(err))
		return nil, "", err
	}

	buf, err := buildRegister(rows)
	if err != nil {
		s.logger.Error("export leave register write failed", zap.Error(err))
		return nil, "", err
	}

	s.logger.Info("export leave register success",
		zap.Uint64("actor_id", actor.ID),
		zap.String("from", from),
		zap.String("to", to),
		zap.Int("rows", len(rows)),
	)
	filename := fmt.Sprintf("leave_register_%s_%s.xlsx", start.Format(time.DateOnly), end.Format(time.DateOnly))
	return buf, filename, nil
}

func buildRegister(rows []LeaveRow) (*bytes.Buffer, error) {
	byDept := make(map[string][]LeaveRow)
	for _, r := range rows {
		byDept[r.DepartmentCode] = append(byDept[r.DepartmentCode], r)
	}
	depts := make([]string, 0, len(byDept))
	for d := range byDept {
		depts = append(depts, d)
	}
	sort.Strings(depts)

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#D9E1F2"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, err
	}

	if len(depts) == 0 {
		if err := writeSheet(f, "Register", nil, headerStyle); err != nil {
			return nil, err
		}
	}
	for _, d := range depts {
		if err := writeSheet(f, d, byDept[d], headerStyle); err != nil {
			return nil, err
		}
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}
	f.SetActiveSheet(0)

	return f.WriteToBuffer()
}

func writeSheet(f *excelize.File, name string, rows []LeaveRow, headerStyle int) error {
	if _, err := f.NewSheet(name); err != nil {
		return err
	}

	for i, col := range registerColumns {
		colName, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(name, colName, colName, col.width); err != nil {
			return err
		}
		if err := f.SetCellValue(name, colName+"1", col.title); err != nil {
			return err
		}
	}
	last, _ := excelize.ColumnNumberToName(len(registerColumns))
	if err := f.SetCellStyle(name, "A1", last+"1", headerStyle); err != nil {
		return err
	}

	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		days, _ := r.TotalDays.Float64()
		values := []any{
			r.Reference,
			r.RequesterName,
			string(r.LeaveType),
			r.StartDate.Format(time.DateOnly) + " " + string(r.StartSession),
			r.EndDate.Format(time.DateOnly) + " " + string(r.EndSession),
			days,
			string(r.SubstituteStatus),
			stageLabel(r.HodStatus.Ptr()),
			stageLabel(r.PrincipalStatus.Ptr()),
			string(r.FinalStatus),
		}
		if err := f.SetSheetRow(name, cell, &values); err != nil {
			return err
		}
	}
	return nil
}

func stageLabel(v *string) string {
	if v == nil {
		return "-"
	}
	return *v
}
