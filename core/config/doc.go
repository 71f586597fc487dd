// Package config provides configuration management for feature-merge.
//
// It utilizes Viper for loading configuration from environment variables, an
// optional .env file and an optional feature-merge.yaml file. Defaults come
// from the `default` struct tags of each section.
//
// # Configuration Structure
//
// The Config struct is divided into subsections:
//   - Merge: merge criteria, id collision strategy, sort order (MERGE_*)
//   - Store: feature store backend, in-memory SQLite by default (STORE_*)
//   - Storage: S3/MinIO credentials for s3:// inputs and outputs (STORAGE_*)
//   - Log: Logging level and format (LOG_*)
//   - Metrics: textfile export path (METRICS_TEXTFILE)
//
// Command-line flags override these values when given.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Merge.MergeStrategy)
package config
