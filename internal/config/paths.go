// Package config handles configuration loading and validation for meme-maker.
package config

import (
	"os"
	"path/filepath"
	"runtime"
)

const appName = "meme-maker"

// DataDir returns the app-private directory saved memes go to.
//
// Platform paths:
//   - macOS:   ~/Library/Application Support/meme-maker/
//   - Linux:   $XDG_DATA_HOME/meme-maker/ or ~/.local/share/meme-maker/
//   - Windows: %APPDATA%\meme-maker\
func DataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", appName)
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", appName)
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, appName)
		}
		return filepath.Join(home, "AppData", "Roaming", appName)
	default:
		if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
			return filepath.Join(xdg, appName)
		}
		return filepath.Join(home, ".local", "share", appName)
	}
}

// DownloadDir returns where browser-style downloads land
func DownloadDir() string {
	if xdg := os.Getenv("XDG_DOWNLOAD_DIR"); xdg != "" {
		return xdg
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, "Downloads")
}
