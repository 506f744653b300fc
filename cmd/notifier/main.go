// Command notifier consumes attendance events from RabbitMQ and appends
// them to a log file.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/dileeka1998/Event-Planner-sub000/internal/config"
	"github.com/dileeka1998/Event-Planner-sub000/internal/queue"
)

func main() {
	_ = godotenv.Load()
	logger := config.NewLogger(os.Stdout, os.Getenv("LOG_LEVEL"))

	url := os.Getenv("RABBITMQ_URL")
	if url == "" {
		url = os.Getenv("AMQP_URL")
	}
	if url == "" {
		logger.Error("RABBITMQ_URL is required")
		os.Exit(1)
	}
	logPath := os.Getenv("ATTENDANCE_LOG")
	if logPath == "" {
		logPath = "logs/attendance.log"
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("attendance consumer starting", "queue", queue.AttendanceQueue, "log", logPath)
	if err := queue.NewConsumer(url, logPath, logger).Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("consumer stopped", "error", err)
		os.Exit(1)
	}
}
