// Package config loads runtime settings from the environment with
// development defaults.
package config

import "github.com/spf13/viper"

// Config holds runtime settings for the presentation host.
//
// Fields:
//   - Addr: bind address for the HTTP server.
//   - DataDir: root directory for uploaded files, thumbnails and slide images.
//   - DBPath: sqlite database file.
//   - SessionSecret: key for the session cookie store. Override in prod.
//   - CanvaClientID / CanvaClientSecret: OAuth client credentials.
//   - CanvaRedirectURI: callback URL registered with the provider. Must match
//     byte for byte between login and callback.
//   - SofficeBin / PdftoppmBin: external rendering engine binaries.
//   - MaxConversions: cap on concurrent conversion jobs.
type Config struct {
	Addr              string
	DataDir           string
	DBPath            string
	SessionSecret     string
	CanvaClientID     string
	CanvaClientSecret string
	CanvaRedirectURI  string
	SofficeBin        string
	PdftoppmBin       string
	MaxConversions    int
}

// Load builds a Config from defaults overlaid with environment variables.
func Load() *Config {
	v := viper.New()
	v.SetDefault("EXPO_ADDR", ":8000")
	v.SetDefault("EXPO_DATA_DIR", "media")
	v.SetDefault("EXPO_DB_PATH", "exposiciones.db")
	v.SetDefault("EXPO_SESSION_SECRET", "dev-session-secret")
	v.SetDefault("CANVA_CLIENT_ID", "PLACEHOLDER_CLIENT_ID")
	v.SetDefault("CANVA_CLIENT_SECRET", "PLACEHOLDER_CLIENT_SECRET")
	v.SetDefault("CANVA_REDIRECT_URI", "http://localhost:8000/canva/callback")
	v.SetDefault("EXPO_SOFFICE_BIN", "soffice")
	v.SetDefault("EXPO_PDFTOPPM_BIN", "pdftoppm")
	v.SetDefault("EXPO_MAX_CONVERSIONS", 2)
	v.AutomaticEnv()

	return &Config{
		Addr:              v.GetString("EXPO_ADDR"),
		DataDir:           v.GetString("EXPO_DATA_DIR"),
		DBPath:            v.GetString("EXPO_DB_PATH"),
		SessionSecret:     v.GetString("EXPO_SESSION_SECRET"),
		CanvaClientID:     v.GetString("CANVA_CLIENT_ID"),
		CanvaClientSecret: v.GetString("CANVA_CLIENT_SECRET"),
		CanvaRedirectURI:  v.GetString("CANVA_REDIRECT_URI"),
		SofficeBin:        v.GetString("EXPO_SOFFICE_BIN"),
		PdftoppmBin:       v.GetString("EXPO_PDFTOPPM_BIN"),
		MaxConversions:    v.GetInt("EXPO_MAX_CONVERSIONS"),
	}
}
