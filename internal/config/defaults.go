package config

const (
	defaultBind               = ":8080"
	defaultRateLimitPerSecond = 10
	defaultRateLimitBurst     = 20
	defaultDBPath             = "./record_service.db"
	defaultUserServiceURL     = "http://user-service:8080"
	defaultUserServiceTimeout = 5
	defaultPredictURL         = "http://ai-server:8000/predict/"
	defaultPredictTimeout     = 60
	defaultDeviceType         = "unknown"
	defaultStreamPollSeconds  = 10
	defaultLogLevel           = "info"
	defaultLogFormat          = "console"
)

// Default returns a Config populated with service defaults.
func Default() Config {
	return Config{
		Server: Server{
			Bind:               defaultBind,
			RateLimitPerSecond: defaultRateLimitPerSecond,
			RateLimitBurst:     defaultRateLimitBurst,
		},
		Storage: Storage{
			Path: defaultDBPath,
		},
		UserService: UserService{
			BaseURL:        defaultUserServiceURL,
			TimeoutSeconds: defaultUserServiceTimeout,
		},
		Predict: Predict{
			URL:            defaultPredictURL,
			TimeoutSeconds: defaultPredictTimeout,
		},
		Records: Records{
			DefaultDeviceType: defaultDeviceType,
			StreamPollSeconds: defaultStreamPollSeconds,
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
	}
}
