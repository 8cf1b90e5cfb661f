// Package config loads and validates CrewSense Core configuration.
//
// Configuration is read from a YAML file, merged over hardcoded defaults,
// and finally overridden by CREWSENSE_* environment variables. Load returns
// an error rather than a partially-valid configuration.
//
// # Usage
//
//	cfg, err := config.Load("configs/config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.API.Port)
package config
