// Package nasdaq downloads the Nasdaq Trader symbol directory.
package nasdaq

import (
	"os"
	"time"
)

// DefaultURL is the public Nasdaq Trader directory of all traded symbols.
const DefaultURL = "https://www.nasdaqtrader.com/dynamic/SymDir/nasdaqtraded.txt"

// Config holds configuration for the symbol directory download.
type Config struct {
	URL     string        // directory file URL
	Timeout time.Duration // HTTP request timeout
}

// LoadConfig loads the directory configuration from environment variables.
func LoadConfig() Config {
	url := os.Getenv("SYMBOLS_URL")
	if url == "" {
		url = DefaultURL
	}
	return Config{
		URL:     url,
		Timeout: 30 * time.Second,
	}
}
