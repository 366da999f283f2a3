// Package config loads the voicenotes daemon configuration and persists the
// user-facing Settings.
//
// Daemon configuration is read with Viper from config.yml, then overridden by
// VOICENOTES_* environment variables (optionally loaded from a .env file):
//
//	VOICENOTES_CONTROL_PORT=9000  ->  control.port
//	VOICENOTES_VAULT_BASE_PATH    ->  vault.base_path
//
// Settings live in a separate JSON data file managed by SettingsStore. Keys
// missing from the file take their defaults; keys present in the file win,
// even when empty.
package config
