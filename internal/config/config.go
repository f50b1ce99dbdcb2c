package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode"

	"kurswatch/internal/snapshot"
	"kurswatch/internal/watch"
)

// Default search: the query string is part of the WebForms URL.
const defaultSearchURL = "https://www.vhsit.berlin.de/vhskurse/BusinessPages/CourseSearch.aspx" +
	"?direkt=1&begonnen=0&beendet=0&stichw=Goldschmieden%7CSchmuck"

type Config struct {
	// Telegram
	TelegramToken   string
	TelegramChatIDs []string

	// Watcher
	Searches          []watch.Search
	StateDir          string
	FetchTimeout      time.Duration
	DebugResponsePath string

	// Optional SFTP mirror for snapshot files
	Mirror snapshot.MirrorConfig
}

// Load reads the configuration from the environment. Missing required
// secrets are a startup error; no partial run happens without them.
func Load() (Config, error) {
	cfg := Config{
		TelegramToken:     os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramChatIDs:   splitAndTrim(os.Getenv("TELEGRAM_CHAT_IDS")),
		StateDir:          getenv("STATE_DIR", "state"),
		FetchTimeout:      getenvDuration("HTTP_TIMEOUT", 60*time.Second),
		DebugResponsePath: getenv("DEBUG_RESPONSE_PATH", "debug_response.html"),
		Mirror: snapshot.MirrorConfig{
			Host:                  os.Getenv("SFTP_HOST"),
			Port:                  getenvInt("SFTP_PORT", 22),
			User:                  os.Getenv("SFTP_USER"),
			Pass:                  os.Getenv("SFTP_PASS"),
			RemoteDir:             getenv("SFTP_REMOTE_DIR", "/"),
			InsecureIgnoreHostKey: getenvBool("SFTP_INSECURE_IGNORE_HOST_KEY", true),
		},
	}

	searches, err := parseSearches(os.Getenv("VHS_SEARCHES"))
	if err != nil {
		return Config{}, err
	}
	cfg.Searches = searches

	if cfg.TelegramToken == "" {
		return Config{}, fmt.Errorf("missing env TELEGRAM_BOT_TOKEN")
	}
	if len(cfg.TelegramChatIDs) == 0 {
		return Config{}, fmt.Errorf("missing env TELEGRAM_CHAT_IDS")
	}
	return cfg, nil
}

// parseSearches turns "name=url;name=url" into the ordered search list.
// Empty input falls back to the built-in Goldschmieden/Schmuck search.
func parseSearches(raw string) ([]watch.Search, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []watch.Search{{
			Name:     "Goldschmieden|Schmuck",
			URL:      defaultSearchURL,
			StateKey: "goldschmieden-schmuck",
		}}, nil
	}

	var searches []watch.Search
	for _, part := range strings.Split(raw, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, url, ok := strings.Cut(part, "=")
		name = strings.TrimSpace(name)
		url = strings.TrimSpace(url)
		if !ok || name == "" || url == "" {
			return nil, fmt.Errorf("invalid VHS_SEARCHES entry %q (want name=url)", part)
		}
		searches = append(searches, watch.Search{
			Name:     name,
			URL:      url,
			StateKey: StateKeyForName(name),
		})
	}
	if len(searches) == 0 {
		return nil, fmt.Errorf("VHS_SEARCHES is set but contains no entries")
	}
	return searches, nil
}

// StateKeyForName derives a filesystem-safe snapshot key from a search name.
func StateKeyForName(name string) string {
	var b strings.Builder
	lastDash := false
	for _, r := range strings.ToLower(name) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash && b.Len() > 0 {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

func splitAndTrim(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func getenv(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func getenvInt(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getenvBool(k string, def bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func getenvDuration(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
