package seed

import (
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/odontoagenda/agenda/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	professionals []*domain.Professional
	appointments  []domain.Appointment
	// 写入这些患者的预约时返回数据库的排他约束错误
	overlapPatients map[string]bool
}

func (f *fakeStore) GetAllProfessionals(int64, bool) ([]*domain.Professional, error) {
	return f.professionals, nil
}

func (f *fakeStore) CreateProfessional(p *domain.Professional) error {
	p.ID = int64(len(f.professionals) + 1)
	f.professionals = append(f.professionals, p)
	return nil
}

func (f *fakeStore) GetAppointmentsBetween(clinicID int64, from, to time.Time, professionalID int64) ([]domain.Appointment, error) {
	var result []domain.Appointment
	for _, a := range f.appointments {
		if a.ClinicID == clinicID && a.ProfessionalID == professionalID && !a.StartTime.Before(from) && a.StartTime.Before(to) {
			result = append(result, a)
		}
	}
	return result, nil
}

func (f *fakeStore) CreateAppointment(a *domain.Appointment) error {
	if f.overlapPatients[a.PatientName] {
		return &pgconn.PgError{Code: "23P01", ConstraintName: "appointments_no_overlap"}
	}
	a.ID = int64(len(f.appointments) + 1)
	f.appointments = append(f.appointments, *a)
	return nil
}

func TestImportAppointments(t *testing.T) {
	store := &fakeStore{
		professionals: []*domain.Professional{{ID: 1, ClinicID: 1, FullName: "李医生", IsActive: true}},
	}
	clinic := &domain.Clinic{ID: 1, Timezone: "Asia/Shanghai"}

	csvData := strings.Join([]string{
		"日期,开始时间,结束时间,医生,患者,电话,项目,状态",
		"2025-03-10,09:00,09:30,李医生,王芳,13800000000,洗牙,",
		"2025-03-10,09:15,09:45,李医生,张伟,,补牙,",          // 与上一行冲突
		"2025-03-10,09:15,09:45,李医生,刘洋,,补牙,cancelled", // 已取消的不检查冲突
		"2025-03-10,10:00,10:30,赵医生,陈静,,拔牙,",          // 新医生
		"2025-03-10,11:00,10:30,赵医生,杨洋,,拔牙,",          // 结束早于开始
		"2025-03-10,11:00,11:30,赵医生,,,拔牙,",             // 没有患者
	}, "\n")

	result, err := ImportAppointments(store, clinic, strings.NewReader(csvData))
	require.NoError(t, err)
	assert.Equal(t, Result{Imported: 3, Skipped: 3}, result)

	require.Len(t, store.professionals, 2)
	assert.Equal(t, "赵医生", store.professionals[1].FullName)

	require.Len(t, store.appointments, 3)
	loc := clinic.Location()
	assert.Equal(t, time.Date(2025, 3, 10, 9, 0, 0, 0, loc), store.appointments[0].StartTime)
	assert.Equal(t, "洗牙", store.appointments[0].Title)
	assert.Equal(t, domain.StatusScheduled, store.appointments[0].Status)
	assert.Equal(t, domain.StatusCancelled, store.appointments[1].Status)
	assert.Equal(t, int64(2), store.appointments[2].ProfessionalID)
}

func TestImportAppointmentsMissingHeader(t *testing.T) {
	_, err := ImportAppointments(&fakeStore{}, &domain.Clinic{ID: 1}, strings.NewReader("日期,开始时间,医生,患者\n"))
	assert.Error(t, err)
}

func TestImportAppointmentsSkipsRowsRejectedByDatabase(t *testing.T) {
	store := &fakeStore{
		professionals:   []*domain.Professional{{ID: 1, ClinicID: 1, FullName: "李医生", IsActive: true}},
		overlapPatients: map[string]bool{"张伟": true},
	}
	clinic := &domain.Clinic{ID: 1, Timezone: "Asia/Shanghai"}

	csvData := strings.Join([]string{
		"日期,开始时间,结束时间,医生,患者",
		"2025-03-10,09:00,09:30,李医生,王芳",
		"2025-03-10,10:00,10:30,李医生,张伟",
		"2025-03-10,11:00,11:30,李医生,刘洋",
	}, "\n")

	result, err := ImportAppointments(store, clinic, strings.NewReader(csvData))
	require.NoError(t, err)
	assert.Equal(t, Result{Imported: 2, Skipped: 1}, result)
	require.Len(t, store.appointments, 2)
	assert.Equal(t, "刘洋", store.appointments[1].PatientName)
}

func TestImportAppointmentsStopsOnOtherWriteErrors(t *testing.T) {
	store := &failingStore{fakeStore: fakeStore{
		professionals: []*domain.Professional{{ID: 1, ClinicID: 1, FullName: "李医生", IsActive: true}},
	}}
	clinic := &domain.Clinic{ID: 1, Timezone: "Asia/Shanghai"}

	csvData := "日期,开始时间,结束时间,医生,患者\n2025-03-10,09:00,09:30,李医生,王芳\n"

	_, err := ImportAppointments(store, clinic, strings.NewReader(csvData))
	var pgErr *pgconn.PgError
	require.ErrorAs(t, err, &pgErr)
	assert.Equal(t, "appointments_time_check", pgErr.ConstraintName)
}

type failingStore struct {
	fakeStore
}

func (f *failingStore) CreateAppointment(*domain.Appointment) error {
	return &pgconn.PgError{Code: "23514", ConstraintName: "appointments_time_check"}
}
