package config

import (
	"github.com/joho/godotenv"
)

// Load environment variables from .env if present

func LoadEnv(filenames ...string) {
	err := godotenv.Load(filenames...)

	if err != nil {
		Logger.Warn("Error loading .env file, will use environment variables instead: ", err)
		// Don't call Fatal here - continue execution
	}
}
