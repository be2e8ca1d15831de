package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/odontoagenda/agenda/backend/internal/config"
	"github.com/odontoagenda/agenda/backend/internal/domain"
	"github.com/odontoagenda/agenda/backend/internal/repository"
	"github.com/odontoagenda/agenda/backend/internal/seed"
	"github.com/odontoagenda/agenda/backend/internal/utils"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	var op int
	var n int
	var clinicID int64
	var perDay int
	var file string

	flag.IntVar(&op, "op", 0, "要执行的操作 (1: 插入随机用户, 2: 插入随机医生, 3: 为接下来 n 天插入随机预约, 4: 从 CSV 导入预约)")
	flag.IntVar(&n, "n", 5, "要插入的记录数量，op 为 3 时表示天数")
	flag.Int64Var(&clinicID, "clinic-id", 0, "诊所 ID，默认为初始诊所")
	flag.IntVar(&perDay, "per-day", 4, "op 为 3 时每位医生每天的预约数量")
	flag.StringVar(&file, "file", "./appointments.csv", "op 为 4 时要导入的 CSV 文件")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// 读取配置文件
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法读取配置文件", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 创建数据库连接池
	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("无法创建数据库连接池", "error", err)
		return
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	// sql.Open 只是创建数据库连接池对象，并不会立即连接到数据库，因此需要显式地 ping 一下
	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("无法连接到数据库", "error", err)
		return
	}

	// 创建 repository
	repo := repository.NewRepository(cfg, dbpool)

	// 确定目标诊所
	var clinic *domain.Clinic
	if clinicID > 0 {
		clinic, err = repo.GetClinicByID(clinicID)
	} else {
		clinic, err = repo.GetClinicByName(cfg.InitialAdmin.ClinicName)
	}
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			slog.Error("指定的诊所不存在，请先启动 api 服务创建初始诊所")
		default:
			slog.Error("无法获取诊所", slog.String("error", err.Error()))
		}
		return
	}

	// 执行操作
	switch op {
	case 0:
		slog.Error("未指定操作")
	case 1:
		if n <= 0 {
			slog.Error("请输入合法的用户数量")
		} else {
			cnt := n
			for i := 0; i < n; i++ {
				user, err := utils.GenerateRandomUser(clinic.ID, cfg.Seed.User.Password, cfg.Email.UserDomain)
				if err != nil {
					slog.Error("无法生成随机用户", slog.String("error", err.Error()))
					continue
				}

				if err := repo.CreateUser(user); err != nil {
					slog.Error("无法插入用户", slog.String("error", err.Error()))
					continue
				}

				cnt--
			}

			slog.Info("插入用户成功", slog.Int("count", n-cnt))
		}
	case 2:
		if n <= 0 {
			slog.Error("请输入合法的医生数量")
		} else {
			cnt := n
			for i := 0; i < n; i++ {
				p := utils.GenerateRandomProfessional(clinic.ID, cfg.Email.UserDomain)
				if err := repo.CreateProfessional(p); err != nil {
					slog.Error("无法插入医生", slog.String("error", err.Error()))
					continue
				}

				cnt--
			}

			slog.Info("插入医生成功", slog.Int("count", n-cnt))
		}
	case 3:
		if n <= 0 || perDay <= 0 {
			slog.Error("请输入合法的天数和每日预约数量")
			return
		}
		seedAppointments(cfg, repo, clinic, n, perDay)
	case 4:
		f, err := os.Open(file)
		if err != nil {
			slog.Error("打开文件失败", "error", err)
			return
		}
		defer f.Close()

		if _, err := seed.ImportAppointments(repo, clinic, f); err != nil {
			slog.Error("导入预约失败", slog.String("error", err.Error()))
		}
	default:
		slog.Error("指定的操作非法")
	}
}

func seedAppointments(cfg *config.Config, repo *repository.Repository, clinic *domain.Clinic, days int, perDay int) {
	schedule, err := repo.GetClinicSchedule(clinic.ID)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			slog.Error("无法获取营业时间", slog.String("error", err.Error()))
			return
		}
		schedule = domain.DefaultClinicSchedule(clinic.ID, domain.ClinicHours{
			Start:      cfg.Clinic.StartHour,
			End:        cfg.Clinic.EndHour,
			LunchStart: cfg.Clinic.LunchStartHour,
			LunchEnd:   cfg.Clinic.LunchEndHour,
		})
	}

	professionals, err := repo.GetAllProfessionals(clinic.ID, true)
	if err != nil {
		slog.Error("无法获取医生列表", slog.String("error", err.Error()))
		return
	}
	if len(professionals) == 0 {
		slog.Error("诊所还没有医生，请先执行 op 2")
		return
	}

	loc := clinic.Location()
	now := time.Now().In(loc)
	first := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, loc)

	cnt := 0
	for d := 0; d < days; d++ {
		date := first.AddDate(0, 0, d)
		hours, open := schedule.HoursFor(date)
		if !open {
			continue
		}

		for _, p := range professionals {
			existing, err := repo.GetAppointmentsBetween(clinic.ID, date, date.AddDate(0, 0, 1), p.ID)
			if err != nil {
				slog.Error("无法获取已有预约", slog.String("error", err.Error()))
				return
			}

			// 约三分之一的医生使用随机的预约时长
			duration := clinic.SlotDurationMinutes
			if rand.Intn(3) == 0 {
				duration = domain.AllowedDurations[rand.Intn(len(domain.AllowedDurations))]
			}

			for _, a := range utils.GenerateRandomAppointments(p, date, hours, duration, existing, perDay) {
				if err := repo.CreateAppointment(a); err != nil {
					slog.Error("无法插入预约", slog.String("error", err.Error()))
					continue
				}
				cnt++
			}
		}
	}

	slog.Info("插入预约成功", slog.Int("count", cnt))
}
