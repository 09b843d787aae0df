package utils

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"time"
)

var (
	InfoLogger  *log.Logger
	ErrorLogger *log.Logger
	DebugLogger *log.Logger
)

func init() {
	// Создаем директорию для логов, если она не существует
	logDir := os.Getenv("LOG_DIR")
	if logDir == "" {
		logDir = "logs"
	}
	if err := os.MkdirAll(logDir, 0755); err != nil {
		log.Fatal("Failed to create log directory:", err)
	}

	// Все уровни пишут в общий файл приложения
	logFile, err := os.OpenFile(filepath.Join(logDir, "app.log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		log.Fatal("Failed to open log file:", err)
	}

	// Инициализируем логгеры, ошибки дублируются в stderr
	InfoLogger = log.New(logFile, "INFO: ", log.Ldate|log.Ltime)
	ErrorLogger = log.New(io.MultiWriter(logFile, os.Stderr), "ERROR: ", log.Ldate|log.Ltime)
	DebugLogger = log.New(logFile, "DEBUG: ", log.Ldate|log.Ltime)
}

// LogInfo логирует информационное сообщение
func LogInfo(format string, v ...interface{}) {
	InfoLogger.Printf("%s - %s", caller(), fmt.Sprintf(format, v...))
}

// LogError логирует сообщение об ошибке
func LogError(format string, v ...interface{}) {
	ErrorLogger.Printf("%s - %s", caller(), fmt.Sprintf(format, v...))
}

// LogDebug логирует отладочное сообщение
func LogDebug(format string, v ...interface{}) {
	DebugLogger.Printf("%s - %s", caller(), fmt.Sprintf(format, v...))
}

// LogOperation логирует завершение операции с ее длительностью
func LogOperation(operation string, startTime time.Time, err error) {
	duration := time.Since(startTime)
	if err != nil {
		LogError("Operation %s failed after %v: %v", operation, duration, err)
	} else {
		LogInfo("Operation %s completed in %v", operation, duration)
	}
}

// caller возвращает файл и строку вызывающего кода
func caller() string {
	_, file, line, ok := runtime.Caller(2)
	if !ok {
		return "unknown"
	}
	return fmt.Sprintf("%s:%d", filepath.Base(file), line)
}
