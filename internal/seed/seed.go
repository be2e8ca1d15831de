// Package seed 从其他系统导出的 CSV 文件导入历史预约
package seed

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/odontoagenda/agenda/backend/internal/domain"
	"github.com/odontoagenda/agenda/backend/internal/utils"
)

// 必须存在的列
var RequiredHeaders = []string{"日期", "开始时间", "结束时间", "医生", "患者"}

type Store interface {
	GetAllProfessionals(clinicID int64, onlyActive bool) ([]*domain.Professional, error)
	CreateProfessional(p *domain.Professional) error
	GetAppointmentsBetween(clinicID int64, from, to time.Time, professionalID int64) ([]domain.Appointment, error)
	CreateAppointment(a *domain.Appointment) error
}

type Result struct {
	Imported int
	Skipped  int
}

// ImportAppointments 逐行导入预约，医生不存在时按姓名新建
// 格式错误或与已有预约冲突的行会被跳过并记录日志
func ImportAppointments(s Store, clinic *domain.Clinic, src io.Reader) (Result, error) {
	result := Result{}
	loc := clinic.Location()

	reader := csv.NewReader(src)

	// 读取表头
	headers, err := reader.Read()
	if err != nil {
		return result, fmt.Errorf("读取表头失败: %w", err)
	}
	for i := range headers {
		headers[i] = strings.TrimSpace(headers[i])
	}
	for _, required := range RequiredHeaders {
		if !slices.Contains(headers, required) {
			return result, fmt.Errorf("没有找到 %s 列", required)
		}
	}

	professionals, err := s.GetAllProfessionals(clinic.ID, false)
	if err != nil {
		return result, err
	}
	byName := make(map[string]*domain.Professional, len(professionals))
	for _, p := range professionals {
		byName[p.FullName] = p
	}

	line := 1
	for {
		row, err := reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return result, fmt.Errorf("读取文件失败: %w", err)
		}
		line++

		record := make(map[string]string)
		for i, value := range row {
			if i < len(headers) {
				record[headers[i]] = strings.TrimSpace(value)
			}
		}

		p, ok := byName[record["医生"]]
		if !ok {
			if record["医生"] == "" {
				slog.Warn("跳过没有医生的记录", "line", line)
				result.Skipped++
				continue
			}

			// 表示该医生不在数据库中，需要新建并插入
			p = &domain.Professional{
				ClinicID: clinic.ID,
				FullName: record["医生"],
				IsActive: true,
			}
			if err := s.CreateProfessional(p); err != nil {
				return result, fmt.Errorf("插入医生失败: %w", err)
			}
			byName[p.FullName] = p
		}

		appt, err := parseRecord(record, clinic.ID, p.ID, loc)
		if err != nil {
			slog.Warn("跳过格式错误的记录", "line", line, "error", err)
			result.Skipped++
			continue
		}

		dayStart := time.Date(appt.StartTime.Year(), appt.StartTime.Month(), appt.StartTime.Day(), 0, 0, 0, 0, loc)
		existing, err := s.GetAppointmentsBetween(clinic.ID, dayStart, dayStart.AddDate(0, 0, 1), p.ID)
		if err != nil {
			return result, err
		}
		if appt.Status.OccupiesTime() {
			if err := utils.ValidateNoConflict(appt, existing); err != nil {
				slog.Warn("跳过冲突的记录", "line", line, "error", err)
				result.Skipped++
				continue
			}
		}

		if err := s.CreateAppointment(appt); err != nil {
			// 检查之后才写入，期间其他请求可能已经占用了该时间段
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.ConstraintName == "appointments_no_overlap" {
				slog.Warn("跳过冲突的记录", "line", line, "error", err)
				result.Skipped++
				continue
			}
			return result, fmt.Errorf("插入预约失败: %w", err)
		}
		result.Imported++
	}

	slog.Info("导入预约完成", "imported", result.Imported, "skipped", result.Skipped)
	return result, nil
}

func parseRecord(record map[string]string, clinicID, professionalID int64, loc *time.Location) (*domain.Appointment, error) {
	if record["患者"] == "" {
		return nil, errors.New("患者姓名为空")
	}

	start, err := time.ParseInLocation("2006-01-02 15:04", record["日期"]+" "+record["开始时间"], loc)
	if err != nil {
		return nil, err
	}
	end, err := time.ParseInLocation("2006-01-02 15:04", record["日期"]+" "+record["结束时间"], loc)
	if err != nil {
		return nil, err
	}
	if !end.After(start) {
		return nil, errors.New("结束时间必须晚于开始时间")
	}

	status := domain.StatusScheduled
	if s := record["状态"]; s != "" {
		status = domain.AppointmentStatus(s)
	}

	title := record["项目"]
	if title == "" {
		title = "门诊"
	}

	return &domain.Appointment{
		ClinicID:       clinicID,
		ProfessionalID: professionalID,
		PatientName:    record["患者"],
		PatientPhone:   record["电话"],
		PatientEmail:   record["邮箱"],
		Title:          title,
		StartTime:      start,
		EndTime:        end,
		Status:         status,
	}, nil
}
