package config

const (
	defaultLogDir           = "~/.local/share/mediasort/logs"
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
	defaultLogRetentionDays = 60
	defaultMetadataTool     = "exiftool"
	defaultArchiveTool      = "7z"
)

// Default returns a Config populated with repository defaults. Threads
// stays zero here; the pool resolves zero to its CPU-based default.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir: defaultLogDir,
		},
		Archive: Archive{
			Tool: defaultArchiveTool,
		},
		Metadata: Metadata{
			Tool: defaultMetadataTool,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
