// Package config provides the admitform settings file.
//
// Settings live in a YAML file stored in the platform's configuration
// directory:
//   - Linux: $XDG_CONFIG_HOME/admitform/config.yaml or $HOME/.config/admitform/config.yaml
//   - macOS: $HOME/.config/admitform/config.yaml
//   - Windows: %LOCALAPPDATA%\admitform\config.yaml
//
// A missing file is not an error; defaults are used. Values are layered in
// this order, later wins: built-in defaults (including DefaultEndpoint set
// through -ldflags), the file, ADMITFORM_* environment variables, and
// finally command-line flags applied by the caller.
//
// # Usage Example
//
//	settings, err := config.Load("")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	client := submission.NewClient(settings.Endpoint)
//	client.SetTimeout(settings.Timeout())
//
// Writes are atomic (temporary file plus rename) and the file is created
// with 0600 permissions.
package config
