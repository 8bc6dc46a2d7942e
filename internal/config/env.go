package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"regexp"

	"github.com/joho/godotenv"

	derrors "git.home.luguber.info/inful/sitemapgen/internal/foundation/errors"
	"git.home.luguber.info/inful/sitemapgen/internal/logfields"
)

// envFiles are loaded in order; godotenv never overrides a variable that is
// already set, so .env.local wins over .env and the process environment wins
// over both.
var envFiles = []string{".env.local", ".env"}

// loadEnvFiles loads the optional dotenv files from the working directory.
func loadEnvFiles() error {
	for _, name := range envFiles {
		if _, err := os.Stat(name); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(name); err != nil {
			return derrors.WrapError(err, derrors.CategoryConfig, "failed to load environment file").
				WithContext("file", name).
				Build()
		}
		slog.Debug("Loaded environment variables", logfields.File(name))
	}
	return nil
}

var envRef = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// expandEnv replaces ${NAME} references. Bare $NAME is left alone so regular
// expressions such as "\.html$" survive.
func expandEnv(src string) string {
	return envRef.ReplaceAllStringFunc(src, func(ref string) string {
		return os.Getenv(envRef.FindStringSubmatch(ref)[1])
	})
}
