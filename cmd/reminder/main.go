package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/odontoagenda/agenda/backend/internal/config"
	"github.com/odontoagenda/agenda/backend/internal/queue"
	"github.com/odontoagenda/agenda/backend/internal/reminder"
	"github.com/odontoagenda/agenda/backend/internal/repository"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/robfig/cron/v3"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	/**********************************************
	 * 创建 logger
	 **********************************************/
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	/**********************************************
	 * 加载配置
	 **********************************************/
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法加载配置文件", "error", err)
		return
	}

	/**********************************************
	 * 连接数据库
	 **********************************************/
	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("无法创建数据库连接池", "error", err)
		return
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	repo := repository.NewRepository(cfg, dbpool)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()
	if err := repo.Ping(ctx); err != nil {
		logger.Error("无法连接到数据库", "error", err)
		return
	}

	/**********************************************
	 * 连接 rabbitmq
	 **********************************************/
	conn, err := amqp.Dial(cfg.RabbitMQ.DSN)
	if err != nil {
		logger.Error("无法连接到 rabbitmq", "error", err)
		return
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		logger.Error("无法建立通道", "error", err)
		return
	}
	defer ch.Close()

	if _, err := queue.DeclareQueue(ch, cfg.RabbitMQ.Queue); err != nil {
		logger.Error("无法声明队列", "error", err)
		return
	}
	publisher := queue.NewPublisher(ch, cfg.RabbitMQ.Queue, time.Duration(cfg.RabbitMQ.PublishTimeout)*time.Second)

	/**********************************************
	 * 启动定时任务
	 **********************************************/
	r := reminder.New(repo, publisher, cfg.Reminder.DaysAhead, logger)

	c := cron.New()
	if _, err := c.AddFunc(cfg.Reminder.Cron, func() {
		sent, err := r.Run(context.Background(), time.Now())
		if err != nil {
			logger.Error("部分就诊提醒投递失败", "sent", sent, "error", err)
			return
		}
		logger.Info("就诊提醒投递完成", "sent", sent)
	}); err != nil {
		logger.Error("无法注册定时任务", "cron", cfg.Reminder.Cron, "error", err)
		return
	}
	c.Start()
	logger.Info("提醒服务已启动", "cron", cfg.Reminder.Cron)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	// 等待正在执行的任务结束
	logger.Info("正在关闭提醒服务...")
	<-c.Stop().Done()
	logger.Info("提醒服务已成功关闭")
}
