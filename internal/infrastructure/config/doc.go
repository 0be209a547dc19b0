// Package config loads the application's YAML configuration and layers
// environment overrides on top.
//
// Values resolve in order: built-in defaults, then the YAML file, then
// DEVICECHECKOUT_* environment variables. The Slack token also honours
// the conventional SLACK_API_TOKEN variable and should be supplied via
// the environment rather than the file.
package config
