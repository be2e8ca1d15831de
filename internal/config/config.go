package config

import (
	"errors"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	Server      struct {
		Port            string `env:"PORT" envDefault:"3000"`
		ReadTimeout     int    `env:"READ_TIMEOUT" envDefault:"10"`
		WriteTimeout    int    `env:"WRITE_TIMEOUT" envDefault:"15"`
		IdleTimeout     int    `env:"IDLE_TIMEOUT" envDefault:"60"`
		ShutdownTimeout int    `env:"SHUTDOWN_TIMEOUT" envDefault:"10"`
		LoginRateLimit  int    `env:"LOGIN_RATE_LIMIT" envDefault:"10"` // 每个 IP 每分钟允许的登录次数
	} `envPrefix:"SERVER_"`
	Database struct {
		DSN                string `env:"DSN,required"`
		ConnectTimeout     int    `env:"CONNECT_TIMEOUT" envDefault:"10"`
		QueryTimeout       int    `env:"QUERY_TIMEOUT" envDefault:"10"`
		TransactionTimeout int    `env:"TRANSACTION_TIMEOUT" envDefault:"20"`
		MaxOpenConns       int    `env:"MAX_OPEN_CONNS" envDefault:"10"`
		MaxIdleConns       int    `env:"MAX_IDLE_CONNS" envDefault:"10"`
		MaxIdleTime        int    `env:"MAX_IDLE_TIME" envDefault:"60"`
	} `envPrefix:"DATABASE_"`
	InitialAdmin struct {
		Username   string `env:"USERNAME" envDefault:"admin"`
		Password   string `env:"PASSWORD,required"`
		FullName   string `env:"FULL_NAME" envDefault:"管理员"`
		Email      string `env:"EMAIL,required"`
		ClinicName string `env:"CLINIC_NAME" envDefault:"口腔诊所"`
	} `envPrefix:"INITIAL_ADMIN_"`
	// 新建诊所时使用的默认值，诊所创建后以数据库中的配置为准
	Clinic struct {
		Timezone            string `env:"TIMEZONE" envDefault:"Asia/Shanghai"`
		SlotDurationMinutes int    `env:"SLOT_DURATION_MINUTES" envDefault:"30"`
		StartHour           int    `env:"START_HOUR" envDefault:"7"`
		EndHour             int    `env:"END_HOUR" envDefault:"19"`
		LunchStartHour      int    `env:"LUNCH_START_HOUR" envDefault:"12"`
		LunchEndHour        int    `env:"LUNCH_END_HOUR" envDefault:"13"`
		MaxSearchDays       int    `env:"MAX_SEARCH_DAYS" envDefault:"31"`
	} `envPrefix:"CLINIC_"`
	JWT struct {
		Expiration int    `env:"EXPIRATION" envDefault:"336"` // 单位为小时，14 天
		Secret     string `env:"SECRET,required"`
	} `envPrefix:"JWT_"`
	Seed struct {
		User struct {
			Password string `env:"PASSWORD" envDefault:"password"`
		} `envPrefix:"USER_"`
	} `envPrefix:"SEED_"`
	Email struct {
		UserDomain string `env:"USER_DOMAIN,required"`
		SMTP       struct {
			Username    string `env:"USERNAME,required"`
			Password    string `env:"PASSWORD,required"`
			Host        string `env:"HOST,required"`
			Port        int    `env:"PORT" envDefault:"465"`
			DialTimeout int    `env:"DIAL_TIMEOUT" envDefault:"10"`
		} `envPrefix:"SMTP_"`
	} `envPrefix:"EMAIL_"`
	RabbitMQ struct {
		DSN            string `env:"DSN,required"`
		Queue          string `env:"QUEUE" envDefault:"email_queue"`
		PublishTimeout int    `env:"PUBLISH_TIMEOUT" envDefault:"10"`
	} `envPrefix:"RABBITMQ_"`
	Redis struct {
		Host                string `env:"HOST" envDefault:"localhost"`
		Port                int    `env:"PORT" envDefault:"6379"`
		Password            string `env:"PASSWORD,required"`
		ConnectTimeout      int    `env:"CONNECT_TIMEOUT" envDefault:"10"`
		OperationExpiration int    `env:"OPERATION_EXPIRATION" envDefault:"10"`
		ScheduleCacheTTL    int    `env:"SCHEDULE_CACHE_TTL" envDefault:"300"` // 秒
	} `envPrefix:"REDIS_"`
	OTP struct {
		Expiration int `env:"EXPIRATION" envDefault:"900"` // 15 分钟
	} `envPrefix:"OTP_"`
	NewUser struct {
		PasswordLength int `env:"PASSWORD_LENGTH" envDefault:"12"`
	} `envPrefix:"NEW_USER_"`
	Reminder struct {
		Cron      string `env:"CRON" envDefault:"0 18 * * *"` // 每天 18 点提醒第二天的预约
		DaysAhead int    `env:"DAYS_AHEAD" envDefault:"1"`
	} `envPrefix:"REMINDER_"`
}

func LoadConfig() (*Config, error) {
	// 本地开发时从 .env 读取，文件不存在则直接使用环境变量
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		aggErr := env.AggregateError{}
		if ok := errors.As(err, &aggErr); ok {
			// 只返回第一个错误使得日志更清晰
			return nil, aggErr.Errors[0]
		}
		return nil, err
	}

	return cfg, nil
}
