package utils

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/mozillazg/go-pinyin"
	"github.com/odontoagenda/agenda/backend/internal/domain"
	"github.com/odontoagenda/agenda/backend/internal/slots"
	"golang.org/x/crypto/bcrypt"
)

var commonSurnames = []string{
	"王", "李", "张", "刘", "陈", "杨", "赵", "黄", "周", "吴",
	"徐", "孙", "胡", "朱", "高", "林", "何", "郭", "马", "罗",
}
var commonNameCharacters = []string{
	"伟", "强", "芳", "敏", "静", "丽", "刚", "杰", "娟", "勇",
	"艳", "涛", "明", "军", "磊", "洋", "勇", "霞", "飞", "玲",
	"超", "华", "平", "辉", "梅", "鑫", "龙", "鹏", "玉", "斌",
	"庆", "建", "丹", "彬", "凤", "旭", "宁", "乐", "成", "欣",
}
var specialities = []string{
	"口腔全科", "口腔正畸", "牙体牙髓", "牙周", "口腔种植", "儿童口腔", "口腔修复",
}
var procedures = []string{
	"初诊检查", "洁牙", "补牙", "根管治疗", "拔牙", "正畸复诊", "牙齿美白",
}

func GenerateRandomChineseName() string {
	surname := commonSurnames[rand.Intn(len(commonSurnames))]
	nameLength := rand.Intn(2) + 1
	name := ""

	for i := 0; i < nameLength; i++ {
		name += commonNameCharacters[rand.Intn(len(commonNameCharacters))]
	}
	return surname + name
}

var roles = []domain.Role{
	domain.RoleAdmin,
	domain.RoleReceptionist,
	domain.RoleDentist,
}

func GenerateRandomRole() domain.Role {
	return roles[rand.Intn(len(roles))]
}

var digits = "0123456789"

func GenerateUsernameFromChineseName(chineseName string) string {
	pinyinArray := pinyin.LazyConvert(chineseName, nil)
	username := ""

	for _, pinyin := range pinyinArray {
		length := rand.Intn(len(pinyin)) + 1
		username += pinyin[:length]
	}

	digitsLength := rand.Intn(3) + 1
	for i := 0; i < digitsLength; i++ {
		username += string(digits[rand.Intn(len(digits))])
	}

	return username
}

func GenerateRandomUser(clinicID int64, password string, emailDomainName string) (*domain.User, error) {
	fullName := GenerateRandomChineseName()
	username := GenerateUsernameFromChineseName(fullName)
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ClinicID:     clinicID,
		Username:     username,
		PasswordHash: string(passwordHash),
		FullName:     fullName,
		Email:        username + "@" + emailDomainName,
		Role:         GenerateRandomRole(),
	}

	return user, nil
}

func GenerateRandomProfessional(clinicID int64, emailDomainName string) *domain.Professional {
	fullName := GenerateRandomChineseName()

	return &domain.Professional{
		ClinicID:   clinicID,
		FullName:   fullName,
		Speciality: specialities[rand.Intn(len(specialities))],
		Email:      GenerateUsernameFromChineseName(fullName) + "@" + emailDomainName,
	}
}

func GenerateRandomOTP() string {
	return fmt.Sprintf("%06d", rand.Intn(1000000))
}

var letters = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*")

func GenerateRandomPassword(length int) string {
	random_password := make([]rune, length)
	for i := range random_password {
		random_password[i] = letters[rand.Intn(len(letters))]
	}
	return string(random_password)
}

func GenerateRandomID(letterLength int, digitLength int) string {
	random_id := make([]rune, letterLength+digitLength)
	for i := range random_id {
		if i < letterLength {
			random_id[i] = letters[rand.Intn(len(letters))]
		} else {
			random_id[i] = rune(digits[rand.Intn(len(digits))])
		}
	}
	return string(random_id)
}

func GenerateRandomPhone() string {
	phone := "1" + string("3578"[rand.Intn(4)])
	for i := 0; i < 9; i++ {
		phone += string(digits[rand.Intn(len(digits))])
	}
	return phone
}

var seedStatuses = []domain.AppointmentStatus{
	domain.StatusScheduled,
	domain.StatusScheduled,
	domain.StatusConfirmed,
	domain.StatusCancelled,
}

// GenerateRandomAppointments 在某位医生某天的空闲时间段里随机挑选 n 个生成预约
// 已有预约通过 existing 传入，挑中的时间段不会互相冲突
func GenerateRandomAppointments(professional *domain.Professional, date time.Time, hours domain.ClinicHours, duration int, existing []domain.Appointment, n int) []*domain.Appointment {
	booked := append([]domain.Appointment{}, existing...) // 复制数组，避免修改原数组
	appointments := make([]*domain.Appointment, 0, n)

	year, month, day := date.Date()
	loc := date.Location()

	for len(appointments) < n {
		candidates := make([]domain.TimeSlot, 0)
		for _, slot := range slots.Generate(date, booked, duration, hours, time.Time{}) {
			if slot.Available {
				candidates = append(candidates, slot)
			}
		}
		if len(candidates) == 0 {
			break
		}

		slot := candidates[rand.Intn(len(candidates))]
		clock, _ := time.Parse("15:04", slot.Start)
		start := time.Date(year, month, day, clock.Hour(), clock.Minute(), 0, 0, loc)

		appt := &domain.Appointment{
			ClinicID:       professional.ClinicID,
			ProfessionalID: professional.ID,
			PatientName:    GenerateRandomChineseName(),
			PatientPhone:   GenerateRandomPhone(),
			Title:          procedures[rand.Intn(len(procedures))],
			StartTime:      start,
			EndTime:        start.Add(time.Duration(duration) * time.Minute),
			Status:         seedStatuses[rand.Intn(len(seedStatuses))],
		}

		// 即使是已取消的预约也当作占用，避免种子数据里出现同一时刻的多条预约
		booked = append(booked, domain.Appointment{StartTime: appt.StartTime, EndTime: appt.EndTime})
		appointments = append(appointments, appt)
	}

	return appointments
}
