package app

import (
	"strings"

	"github.com/cursolab/ead-backend/internal/logger"
	"github.com/cursolab/ead-backend/internal/utils"
	"github.com/cursolab/ead-backend/internal/validation"
)

type Config struct {
	Port             string
	MasterLocale     string
	SupportedLocales []string
}

func LoadConfig(log *logger.Logger) Config {
	port := utils.GetEnv("PORT", "8080", log)
	masterLocale := utils.GetEnv("MASTER_LOCALE", "pt", log)
	supported := utils.GetEnv("SUPPORTED_LOCALES", "pt,it,es", log)
	return Config{
		Port:             port,
		MasterLocale:     masterLocale,
		SupportedLocales: strings.Split(supported, ","),
	}
}

func (c Config) Locales() validation.LocaleSet {
	return validation.LocaleSet{
		Master:    c.MasterLocale,
		Supported: c.SupportedLocales,
	}
}
