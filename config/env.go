package config

import (
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"voice-demos/log"
)

// lookupFunc resolves one environment key across the process environment
// and the .env file layer.
type lookupFunc func(key string) string

// envFiles are consulted in order; the first file defining a key wins.
var envFiles = []string{".env.local", ".env"}

// newEnvLookup builds the environment layer. The .env files are only read
// when OPENAI_API_KEY is absent from the process environment (running via a
// shell export skips file IO entirely), and their values never shadow keys
// that are already set. godotenv.Read keeps the process environment
// untouched.
func newEnvLookup() lookupFunc {
	fileVals := map[string]string{}

	if os.Getenv("OPENAI_API_KEY") == "" {
		for _, name := range envFiles {
			if _, err := os.Stat(name); err != nil {
				continue
			}
			vals, err := godotenv.Read(name)
			if err != nil {
				log.GetLogger().Warn("skipping unreadable env file", zap.String("file", name), zap.Error(err))
				continue
			}
			for k, v := range vals {
				if _, ok := fileVals[k]; !ok {
					fileVals[k] = v
				}
			}
		}
	}

	return func(key string) string {
		if v, ok := os.LookupEnv(key); ok {
			return v
		}
		return fileVals[key]
	}
}
