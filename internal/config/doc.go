// Package config provides the two configuration documents of Pylight.
//
// # Settings
//
// The user settings live in a JSON document owned by a Store:
//
//	{
//	    "font_size": 12,
//	    "tab_size": 4,
//	    "theme": "Dark",
//	    "recent_projects": [
//	        {"name": "demo", "path": "/home/me/demo", "last_opened": "2024-05-01 09:30:00"}
//	    ]
//	}
//
// Values are clamped or defaulted on read and validated on write. Keys the
// store does not know are kept as they are across saves.
//
//	store := config.NewStore(path)
//	if err := store.Load(); err != nil {
//	    return err
//	}
//	store.AddRecentProject("/home/me/demo", time.Now())
//	err := store.Save()
//
// # Editor Configuration
//
// Editor behavior is configured in TOML, with PYLIGHT_ environment
// variables layered on top:
//
//	# pylight.toml
//	[log]
//	level = "debug"
//
//	[gutter]
//	padding = 2
//	lineMode = "relative"
//
//	[[toolchain]]
//	language = "python"
//	run = ["python3", "{file}"]
//
//	[[language]]
//	name = "lua"
//	extensions = [".lua"]
//	keywords = ["local", "function", "end"]
//	lineComment = "--"
//
// # Error Handling
//
//   - ErrSettingNotFound: Setting path doesn't exist
//   - ErrTypeMismatch: Value type doesn't match expected type
//   - ErrValidationFailed: Value rejected by a setter (see ValidationError)
//   - ParseError: Configuration file parsing failed
package config
