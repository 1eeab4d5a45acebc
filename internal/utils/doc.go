// Package utils exposes the CLI plumbing shared by every command.
//
// ConfigurationLoader merges embedded YAML, an optional config file, and
// TODOSYNC_-prefixed environment variables through Viper. LoggerFactory builds
// zap loggers, and EnvironmentFileLoader applies .env files via godotenv.
package utils
