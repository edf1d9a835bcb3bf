package dirs

// StateDir is the root directory for all link-checker runtime state files,
// relative to the working directory the server was started from.
const StateDir = "._link_checker_state"

// LogDir is where rotated log files are written.
const LogDir = StateDir + "/logs"

// ConfigFile is the default configuration file name in the working directory.
const ConfigFile = "link-checker.yaml"

// HiddenConfigFile is the fallback configuration location.
const HiddenConfigFile = ".link-checker/config.yaml"

// OverridesFile is the optional, usually git-ignored, local overrides file.
const OverridesFile = "link-checker.overrides.yaml"
