// Package config loads environment-based configuration structs for the
// storage backends and any application embedding the toolkit. Values
// come from `env` struct tags (github.com/caarlos0/env), with a .env
// file picked up once per process for local development.
package config
