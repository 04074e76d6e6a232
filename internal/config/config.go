package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pitwall/f1antasy/internal/platform/logging"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv             string
	ServiceName        string
	ServiceVersion     string
	HTTPAddr           string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	LogLevel           logging.Level
	CORSAllowedOrigins []string

	DataDir          string
	RacesFile        string
	CircuitsFile     string
	ResultsFile      string
	DriversFile      string
	ConstructorsFile string
	RosterPath       string

	LeagueSeason    int
	ScrapeStartYear int
	SeasonWorkers   int

	ErgastBaseURL               string
	ErgastTimeout               time.Duration
	ErgastMaxRetries            int
	ErgastCircuitEnabled        bool
	ErgastCircuitFailureCount   int
	ErgastCircuitOpenTimeout    time.Duration
	ErgastCircuitHalfOpenMaxReq int

	CacheEnabled bool
	CacheTTL     time.Duration

	InternalJobToken     string
	StartupUpdateEnabled bool
	UpdateCronEnabled    bool
	UpdateCronSpec       string
	UpdateTimeout        time.Duration

	PprofEnabled bool
	PprofAddr    string

	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	readTimeout, err := time.ParseDuration(getEnv("APP_READ_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_READ_TIMEOUT: %w", err)
	}
	writeTimeout, err := time.ParseDuration(getEnv("APP_WRITE_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_WRITE_TIMEOUT: %w", err)
	}

	leagueSeason, err := getEnvAsInt("LEAGUE_SEASON", 0)
	if err != nil {
		return Config{}, fmt.Errorf("parse LEAGUE_SEASON: %w", err)
	}
	if leagueSeason < 0 {
		return Config{}, fmt.Errorf("LEAGUE_SEASON must be >= 0")
	}

	scrapeStartYear, err := getEnvAsInt("SCRAPE_START_YEAR", 2021)
	if err != nil {
		return Config{}, fmt.Errorf("parse SCRAPE_START_YEAR: %w", err)
	}
	if scrapeStartYear < 1950 {
		return Config{}, fmt.Errorf("SCRAPE_START_YEAR must be >= 1950")
	}

	seasonWorkers, err := getEnvAsInt("SEASON_WORKERS", 4)
	if err != nil {
		return Config{}, fmt.Errorf("parse SEASON_WORKERS: %w", err)
	}
	if seasonWorkers < 1 {
		return Config{}, fmt.Errorf("SEASON_WORKERS must be >= 1")
	}

	ergastTimeout, err := time.ParseDuration(getEnv("ERGAST_TIMEOUT", "20s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse ERGAST_TIMEOUT: %w", err)
	}
	if ergastTimeout <= 0 {
		return Config{}, fmt.Errorf("ERGAST_TIMEOUT must be > 0")
	}
	ergastMaxRetries, err := getEnvAsInt("ERGAST_MAX_RETRIES", 1)
	if err != nil {
		return Config{}, fmt.Errorf("parse ERGAST_MAX_RETRIES: %w", err)
	}
	if ergastMaxRetries < 0 {
		return Config{}, fmt.Errorf("ERGAST_MAX_RETRIES must be >= 0")
	}
	ergastCircuitEnabled, err := strconv.ParseBool(getEnv("ERGAST_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse ERGAST_CIRCUIT_ENABLED: %w", err)
	}
	ergastCircuitFailureCount, err := getEnvAsInt("ERGAST_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse ERGAST_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if ergastCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("ERGAST_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	ergastCircuitOpenTimeout, err := time.ParseDuration(getEnv("ERGAST_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse ERGAST_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if ergastCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("ERGAST_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	ergastCircuitHalfOpenMaxReq, err := getEnvAsInt("ERGAST_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse ERGAST_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if ergastCircuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("ERGAST_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	cacheEnabled, err := strconv.ParseBool(getEnv("CACHE_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_ENABLED: %w", err)
	}
	cacheTTL, err := time.ParseDuration(getEnv("CACHE_TTL", "60s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_TTL: %w", err)
	}
	if cacheTTL <= 0 {
		return Config{}, fmt.Errorf("CACHE_TTL must be > 0")
	}

	startupUpdateEnabled, err := strconv.ParseBool(getEnv("STARTUP_UPDATE_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse STARTUP_UPDATE_ENABLED: %w", err)
	}
	updateCronEnabled, err := strconv.ParseBool(getEnv("UPDATE_CRON_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPDATE_CRON_ENABLED: %w", err)
	}
	updateCronSpec := strings.TrimSpace(getEnv("UPDATE_CRON", "@hourly"))
	if updateCronEnabled && updateCronSpec == "" {
		return Config{}, fmt.Errorf("UPDATE_CRON is required when UPDATE_CRON_ENABLED=true")
	}
	updateTimeout, err := time.ParseDuration(getEnv("UPDATE_TIMEOUT", "5m"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPDATE_TIMEOUT: %w", err)
	}
	if updateTimeout <= 0 {
		return Config{}, fmt.Errorf("UPDATE_TIMEOUT must be > 0")
	}

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	pprofAddr := strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))
	if pprofEnabled && pprofAddr == "" {
		return Config{}, fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := time.ParseDuration(getEnv("PYROSCOPE_UPLOAD_RATE", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_UPLOAD_RATE: %w", err)
	}
	if pyroscopeUploadRate <= 0 {
		return Config{}, fmt.Errorf("PYROSCOPE_UPLOAD_RATE must be > 0")
	}

	cfg := Config{
		AppEnv:             appEnv,
		ServiceName:        getEnv("APP_SERVICE_NAME", "f1antasy-api"),
		ServiceVersion:     getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:           getEnv("APP_HTTP_ADDR", ":8080"),
		ReadTimeout:        readTimeout,
		WriteTimeout:       writeTimeout,
		LogLevel:           parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),
		CORSAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),

		DataDir:          getEnv("DATA_DIR", "data"),
		RacesFile:        getEnv("RACES_FILE", "races.csv"),
		CircuitsFile:     getEnv("CIRCUITS_FILE", "circuits.csv"),
		ResultsFile:      getEnv("RESULTS_FILE", "results.csv"),
		DriversFile:      getEnv("DRIVERS_FILE", "drivers.csv"),
		ConstructorsFile: getEnv("CONSTRUCTORS_FILE", "constructors.csv"),
		RosterPath:       getEnv("ROSTER_PATH", "data/fantasy_rosters.csv"),

		LeagueSeason:    leagueSeason,
		ScrapeStartYear: scrapeStartYear,
		SeasonWorkers:   seasonWorkers,

		ErgastBaseURL:               getEnv("ERGAST_BASE_URL", "http://ergast.com/api"),
		ErgastTimeout:               ergastTimeout,
		ErgastMaxRetries:            ergastMaxRetries,
		ErgastCircuitEnabled:        ergastCircuitEnabled,
		ErgastCircuitFailureCount:   ergastCircuitFailureCount,
		ErgastCircuitOpenTimeout:    ergastCircuitOpenTimeout,
		ErgastCircuitHalfOpenMaxReq: ergastCircuitHalfOpenMaxReq,

		CacheEnabled: cacheEnabled,
		CacheTTL:     cacheTTL,

		InternalJobToken:     strings.TrimSpace(getEnv("INTERNAL_JOB_TOKEN", "")),
		StartupUpdateEnabled: startupUpdateEnabled,
		UpdateCronEnabled:    updateCronEnabled,
		UpdateCronSpec:       updateCronSpec,
		UpdateTimeout:        updateTimeout,

		PprofEnabled: pprofEnabled,
		PprofAddr:    pprofAddr,

		PyroscopeEnabled:           pyroscopeEnabled,
		PyroscopeServerAddress:     pyroscopeServerAddress,
		PyroscopeAuthToken:         strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:     strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword: strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		PyroscopeUploadRate:        pyroscopeUploadRate,
	}

	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if cfg.PyroscopeEnabled && cfg.PyroscopeAppName == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_APP_NAME cannot be empty when PYROSCOPE_ENABLED=true")
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}
	if strings.TrimSpace(cfg.DataDir) == "" {
		return Config{}, fmt.Errorf("DATA_DIR cannot be empty")
	}
	if strings.TrimSpace(cfg.RosterPath) == "" {
		return Config{}, fmt.Errorf("ROSTER_PATH cannot be empty")
	}

	return cfg, nil
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
