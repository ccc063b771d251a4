package utils

import (
	"os"
	"strconv"

	"github.com/cursolab/ead-backend/internal/logger"
)

// GetEnv returns the value of key, or defaultVal when the variable
// is unset. A nil log is allowed for callers that run before the
// logger exists.
func GetEnv(key, defaultVal string, log *logger.Logger) string {
	if log != nil {
		log = log.With("env_var", key)
	}
	val, ok := os.LookupEnv(key)
	if !ok {
		if log != nil {
			log.Debug("Environment variable unset, using default", "default", defaultVal)
		}
		return defaultVal
	}
	if log != nil {
		log.Debug("Environment variable set", "value", val)
	}
	return val
}

// GetEnvAsInt is GetEnv for integer variables. Unparseable values
// fall back to defaultVal.
func GetEnvAsInt(key string, defaultVal int, log *logger.Logger) int {
	raw := GetEnv(key, strconv.Itoa(defaultVal), log)
	i, err := strconv.Atoi(raw)
	if err != nil {
		if log != nil {
			log.Debug("Environment variable is not an integer, using default", "env_var", key, "value", raw, "default", defaultVal)
		}
		return defaultVal
	}
	return i
}
