package config

import (
    "log"
    "os"
    "strconv"
)

type Config struct {
    ListenAddr      string
    SupabaseURL     string
    SupabaseAnonKey string
    JWTSecret       string

    DBHost     string
    DBPort     string
    DBUser     string
    DBPassword string
    DBName     string

    CountdownSeconds       int
    RoundTimeLimitSeconds  int
    HeartbeatSeconds       int
    ClientTimeoutSeconds   int
    PausedBattleTTLSeconds int
}

func LoadConfig() *Config {
    return &Config{
        ListenAddr:      getEnv("LISTEN_ADDR", ":8080"),
        SupabaseURL:     getEnv("SUPABASE_URL", ""),
        SupabaseAnonKey: getEnv("SUPABASE_KEY", ""),
        JWTSecret:       getEnv("JWT_SECRET", "secret"),

        DBHost:     getEnv("DB_HOST", ""),
        DBPort:     getEnv("DB_PORT", "5432"),
        DBUser:     getEnv("DB_USER", "user"),
        DBPassword: getEnv("DB_PASSWORD", "password"),
        DBName:     getEnv("DB_NAME", "edutorium"),

        CountdownSeconds:       getEnvInt("BATTLE_COUNTDOWN_SECONDS", 4),
        RoundTimeLimitSeconds:  getEnvInt("ROUND_TIME_LIMIT_SECONDS", 30),
        HeartbeatSeconds:       getEnvInt("HEARTBEAT_INTERVAL_SECONDS", 10),
        ClientTimeoutSeconds:   getEnvInt("CLIENT_TIMEOUT_SECONDS", 30),
        PausedBattleTTLSeconds: getEnvInt("PAUSED_BATTLE_TTL_SECONDS", 120),
    }
}

// getEnv reads an environment variable and returns its value or a default value
func getEnv(key, defaultValue string) string {
    value, exists := os.LookupEnv(key)
    if !exists {
        value = defaultValue
    }
    return value
}

func getEnvInt(key string, defaultValue int) int {
    value, exists := os.LookupEnv(key)
    if !exists {
        return defaultValue
    }
    n, err := strconv.Atoi(value)
    if err != nil {
        log.Printf("Environment variable %s is not a number, using default value: %d", key, defaultValue)
        return defaultValue
    }
    return n
}
