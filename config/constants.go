package config

const (
	// DefaultPort is where clients expect the catalog API by default.
	DefaultPort = 5000

	DefaultHost         = "0.0.0.0"
	DefaultDataDir      = "./data"
	DefaultStoreBackend = "json"

	// EnvPrefix is prepended to every environment override, e.g. MEDIA_PORT.
	EnvPrefix = "media"

	// ConfigPathEnv names an optional config file.
	ConfigPathEnv = "MEDIA_CONFIG"
)
