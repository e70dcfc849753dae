package properties

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const defaultProcessURL = "https://sh.dataspace.copernicus.eu/api/v1/process"

// Load reads the first .env file found among paths. When none of them exist
// the process environment is used as is.
func Load(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{"../../.env", "../.env", ".env"}
	}
	var lastErr error
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return fmt.Errorf("no .env file loaded: %w", lastErr)
}

func RootPath() string {
	return os.Getenv("ROOT_PATH")
}

func DataPath(parts ...string) string {
	return strings.Join(append([]string{RootPath(), "data"}, parts...), "/")
}

type Credential struct {
	ClientID     string
	ClientSecret string
}

// CopernicusCredentials pairs the comma separated COPERNICUS_CLIENT_ID and
// COPERNICUS_CLIENT_SECRET lists.
func CopernicusCredentials() ([]Credential, string, error) {
	clientIDs := os.Getenv("COPERNICUS_CLIENT_ID")
	clientSecrets := os.Getenv("COPERNICUS_CLIENT_SECRET")
	tokenURL := os.Getenv("COPERNICUS_TOKEN_URL")
	if clientIDs == "" || clientSecrets == "" || tokenURL == "" {
		return nil, "", fmt.Errorf("missing required environment variables: COPERNICUS_CLIENT_ID, COPERNICUS_CLIENT_SECRET, or COPERNICUS_TOKEN_URL")
	}

	ids := strings.Split(clientIDs, ",")
	secrets := strings.Split(clientSecrets, ",")
	if len(ids) != len(secrets) {
		return nil, "", fmt.Errorf("mismatched number of client IDs and secrets")
	}

	credentials := make([]Credential, len(ids))
	for i := range ids {
		credentials[i] = Credential{ClientID: strings.TrimSpace(ids[i]), ClientSecret: strings.TrimSpace(secrets[i])}
	}
	return credentials, tokenURL, nil
}

func CopernicusProcessURL() string {
	if url := os.Getenv("COPERNICUS_PROCESS_URL"); url != "" {
		return url
	}
	return defaultProcessURL
}

// Workers is the classifier worker count, one per CPU unless CLASSIFIER_WORKERS is set.
func Workers() int {
	n, err := strconv.Atoi(os.Getenv("CLASSIFIER_WORKERS"))
	if err != nil || n <= 0 {
		return runtime.NumCPU()
	}
	return n
}

func LogLevel() string {
	return os.Getenv("LOG_LEVEL")
}

func LogFormat() string {
	return os.Getenv("LOG_FORMAT")
}

func DiscordErrorNotificationUrl() string {
	return os.Getenv("DISCORD_ERROR_NOTIFICATION_URL")
}

func DiscordSuccessNotificationUrl() string {
	return os.Getenv("DISCORD_SUCCESS_NOTIFICATION_URL")
}
