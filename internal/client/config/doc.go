// Package config loads runtime configuration for the cyberspace CLI.
//
// Sources, later ones win:
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or -config.
//  3. Command-line flags: -a (server URL), -db (local file), -t (timeout,
//     seconds), -i (online check interval, seconds).
//
// JSON example:
//
//	{
//	  "server_endpoint_addr": "https://api.example.com",
//	  "database_file": "/home/me/.cyberspace.db",
//	  "request_timeout": "5s",
//	  "online_check_interval": "30s"
//	}
package config
