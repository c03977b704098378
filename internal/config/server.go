package config

import (
	"strconv"
	"strings"
	"time"
)

// ListenAddr returns the HTTP listen address built from PORT.
func ListenAddr() string {
	return ":" + GetEnv("PORT", "8080")
}

// LogFile is where the JSON log stream is written.
func LogFile() string {
	return GetEnv("LOG_FILE", "authscreen.log")
}

// ServerReadTimeout returns the maximum duration for reading the entire request, including the body.
func ServerReadTimeout() time.Duration {
	return MustParseDuration("SERVER_READ_TIMEOUT", "10s")
}

// ServerReadHeaderTimeout returns the amount of time allowed to read request headers.
func ServerReadHeaderTimeout() time.Duration {
	return MustParseDuration("SERVER_READ_HEADER_TIMEOUT", "5s")
}

// ServerWriteTimeout must exceed WaitTimeout, since a pending page long-polls before writing.
func ServerWriteTimeout() time.Duration {
	return MustParseDuration("SERVER_WRITE_TIMEOUT", "15s")
}

// ServerIdleTimeout returns the maximum amount of time to wait for the next request when keep-alives are enabled.
func ServerIdleTimeout() time.Duration {
	return MustParseDuration("SERVER_IDLE_TIMEOUT", "60s")
}

// MaxRequestBodyBytes returns the maximum allowed size of incoming request bodies.
// Supports raw integers (bytes) or human-friendly values like "64KB", "1MB".
func MaxRequestBodyBytes() int64 {
	val := GetEnv("MAX_REQUEST_BODY_BYTES", "64KB")
	n, err := parseBytes(val)
	if err != nil || n <= 0 {
		return 64 << 10
	}
	return n
}

// MutationWorkerCount controls how many auth mutations run concurrently.
func MutationWorkerCount() int {
	return parseIntEnv("MUTATION_WORKER_COUNT", 8)
}

// MailWorkerCount controls the number of outbound mail workers.
func MailWorkerCount() int {
	return parseIntEnv("MAIL_WORKER_COUNT", 2)
}

// WorkerQueueSize controls the queue size for each worker pool.
func WorkerQueueSize() int {
	return parseIntEnv("WORKER_QUEUE_SIZE", 1024)
}

// WorkerTaskTimeout bounds a single pooled task.
func WorkerTaskTimeout() time.Duration {
	return MustParseDuration("WORKER_TASK_TIMEOUT", "30s")
}

// RateLimitRequests is the number of form submissions allowed per IP per window.
func RateLimitRequests() int {
	return parseIntEnv("RATE_LIMIT_REQUESTS", 20)
}

// RateLimitWindow is the window for RateLimitRequests.
func RateLimitWindow() time.Duration {
	return MustParseDuration("RATE_LIMIT_WINDOW", "1m")
}

// CORSAllowedOrigins is a comma separated origin list for the JSON state endpoint.
func CORSAllowedOrigins() []string {
	raw := GetEnv("CORS_ALLOWED_ORIGINS", "")
	if raw == "" {
		return nil
	}
	var out []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func parseBytes(s string) (int64, error) {
	s = strings.TrimSpace(strings.ToUpper(s))
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}
	mult := int64(1)
	switch {
	case strings.HasSuffix(s, "KB"):
		mult = 1 << 10
		s = strings.TrimSuffix(s, "KB")
	case strings.HasSuffix(s, "MB"):
		mult = 1 << 20
		s = strings.TrimSuffix(s, "MB")
	case strings.HasSuffix(s, "GB"):
		mult = 1 << 30
		s = strings.TrimSuffix(s, "GB")
	case strings.HasSuffix(s, "B"):
		s = strings.TrimSuffix(s, "B")
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	return int64(n * float64(mult)), nil
}
